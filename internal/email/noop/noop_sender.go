package noop

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notices instead
// of sending them.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendDocumentIssued(_ context.Context, toEmail string, doc *domain.Document, downloadURL string) error {
	log.Info().
		Str("to", toEmail).
		Str("number", doc.Number).
		Str("download_url", downloadURL).
		Msg("noop email: document issued")
	return nil
}
