package port

import "github.com/mariaherliana/invoice-creation/internal/domain"

// Renderer turns a fully numbered document into PDF bytes. It must be
// deterministic for identical input and paginate when line items
// overflow one page.
type Renderer interface {
	Render(doc *domain.Document, items []domain.LineItem) ([]byte, error)
}
