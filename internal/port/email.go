package port

import (
	"context"

	"github.com/mariaherliana/invoice-creation/internal/domain"
)

// EmailSender defines the contract for sending document notices.
type EmailSender interface {
	// SendDocumentIssued notifies the party that a document was
	// generated, with a download URL for the PDF.
	SendDocumentIssued(ctx context.Context, toEmail string, doc *domain.Document, downloadURL string) error
}
