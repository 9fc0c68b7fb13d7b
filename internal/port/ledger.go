package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/mariaherliana/invoice-creation/internal/domain"
)

// DocumentLedger is the durable, append-only record of issued documents.
// Append must be atomic: a record is either fully visible with its PDF
// locator or not visible at all.
type DocumentLedger interface {
	// Append inserts a new record. Returns domain.ErrSequenceConflict
	// when (party_code, issue_year, sequence) is already taken.
	Append(ctx context.Context, doc *domain.Document) error

	// GetByID fetches a single record.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Document, error)

	// MaxSequenceFor returns the highest sequence recorded for the
	// (code, year) pair, or 0 when none exists.
	MaxSequenceFor(ctx context.Context, code string, year int) (int, error)

	// LastRemittanceFor returns the remittance details from the party's
	// most recent invoice, or nil when the party has none.
	LastRemittanceFor(ctx context.Context, partyName string) (*domain.RemittanceInfo, error)
}
