package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/port"
)

type documentLedgerRepo struct {
	db *sqlx.DB
}

// NewDocumentLedgerRepo creates a new PostgreSQL-backed DocumentLedger.
func NewDocumentLedgerRepo(db *sqlx.DB) port.DocumentLedger {
	return &documentLedgerRepo{db: db}
}

func (r *documentLedgerRepo) Append(ctx context.Context, doc *domain.Document) error {
	// CreatedAt is set by the caller before rendering so the ledger
	// record and the PDF creation date agree.
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO documents (
		id, kind, party_name, party_code, party_address,
		issuer_name, issuer_address,
		sequence, issue_year, number, issue_date, due_date,
		theme, total, currency_symbol,
		bank, account_name, account_no, swift,
		pdf_bucket, pdf_key, pdf_locator, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7,
		$8, $9, $10, $11, $12,
		$13, $14, $15,
		$16, $17, $18, $19,
		$20, $21, $22, $23
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Kind, doc.PartyName, doc.PartyCode, doc.PartyAddress,
		doc.IssuerName, doc.IssuerAddress,
		doc.Sequence, doc.IssueYear, doc.Number, doc.IssueDate, doc.DueDate,
		doc.Theme, doc.Total, doc.CurrencySymbol,
		doc.Bank, doc.AccountName, doc.AccountNo, doc.Swift,
		doc.PDFBucket, doc.PDFKey, doc.PDFLocator, doc.CreatedAt)
	if err != nil {
		// Unique violation on (party_code, issue_year, sequence) means a
		// concurrent submission won the race for this sequence number.
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "documents_code_year_seq") {
			return domain.ErrSequenceConflict
		}
		return fmt.Errorf("documentLedgerRepo.Append: %w", err)
	}
	return nil
}

func (r *documentLedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentLedgerRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentLedgerRepo) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents ORDER BY created_at DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("documentLedgerRepo.Recent: %w", err)
	}
	return docs, nil
}

func (r *documentLedgerRepo) MaxSequenceFor(ctx context.Context, code string, year int) (int, error) {
	var max int
	err := r.db.GetContext(ctx, &max,
		"SELECT COALESCE(MAX(sequence), 0) FROM documents WHERE party_code = $1 AND issue_year = $2",
		code, year)
	if err != nil {
		return 0, fmt.Errorf("documentLedgerRepo.MaxSequenceFor: %w", err)
	}
	return max, nil
}

func (r *documentLedgerRepo) LastRemittanceFor(ctx context.Context, partyName string) (*domain.RemittanceInfo, error) {
	var rem domain.RemittanceInfo
	err := r.db.GetContext(ctx, &rem,
		`SELECT bank, account_name, account_no, swift FROM documents
		 WHERE party_name = $1 AND kind = $2
		 ORDER BY created_at DESC LIMIT 1`,
		partyName, domain.KindInvoice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("documentLedgerRepo.LastRemittanceFor: %w", err)
	}
	return &rem, nil
}
