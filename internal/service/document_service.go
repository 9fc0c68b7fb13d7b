package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mariaherliana/invoice-creation/internal/config"
	"github.com/mariaherliana/invoice-creation/internal/docnum"
	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/logger"
	"github.com/mariaherliana/invoice-creation/internal/port"
)

// DocumentService defines the document generation and history contract.
type DocumentService interface {
	Generate(ctx context.Context, draft *domain.Draft) (*domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Recent(ctx context.Context, limit int) ([]domain.Document, error)
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	DownloadPDF(ctx context.Context, id uuid.UUID) (*domain.Document, []byte, error)
	RemittancePrefill(ctx context.Context, partyName string) (*domain.RemittanceInfo, error)
}

type documentService struct {
	ledger   port.DocumentLedger
	storage  port.ObjectStorage
	renderer port.Renderer
	email    port.EmailSender
	s3cfg    *config.S3Config
	doccfg   *config.DocConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	ledger port.DocumentLedger,
	storage port.ObjectStorage,
	renderer port.Renderer,
	email port.EmailSender,
	s3cfg *config.S3Config,
	doccfg *config.DocConfig,
) DocumentService {
	return &documentService{
		ledger:   ledger,
		storage:  storage,
		renderer: renderer,
		email:    email,
		s3cfg:    s3cfg,
		doccfg:   doccfg,
		log:      logger.WithComponent("document_service"),
		now:      time.Now,
	}
}

// Generate runs the full pipeline for one draft: derive the party code,
// allocate the next sequence, format the number, render the PDF, upload
// it, and append the ledger record. The (code, year, sequence) unique
// constraint in the ledger is the arbiter under concurrent submissions;
// a conflicting insert restarts the whole span with a fresh sequence,
// bounded by doc.max_sequence_retries.
func (s *documentService) Generate(ctx context.Context, draft *domain.Draft) (*domain.Document, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	currency := draft.CurrencySymbol
	if currency == "" {
		currency = s.doccfg.DefaultCurrency
	}

	code := docnum.DeriveCode(draft.PartyName)
	year := draft.IssueDate.Year()
	total := draft.Total()

	retries := s.doccfg.MaxSequenceRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 1; attempt <= retries; attempt++ {
		max, err := s.ledger.MaxSequenceFor(ctx, code, year)
		if err != nil {
			return nil, fmt.Errorf("allocating sequence: %w", err)
		}
		seq := max + 1
		number := docnum.Format(draft.Kind.NumberPrefix(), code, seq, draft.IssueDate)

		doc := &domain.Document{
			ID:             uuid.New(),
			Kind:           draft.Kind,
			PartyName:      draft.PartyName,
			PartyCode:      code,
			PartyAddress:   draft.PartyAddress,
			IssuerName:     draft.IssuerName,
			IssuerAddress:  draft.IssuerAddress,
			Sequence:       seq,
			IssueYear:      year,
			Number:         number,
			IssueDate:      draft.IssueDate,
			DueDate:        draft.DueDate,
			Theme:          draft.Theme,
			Total:          total,
			CurrencySymbol: currency,
			Bank:           draft.Remittance.Bank,
			AccountName:    draft.Remittance.AccountName,
			AccountNo:      draft.Remittance.AccountNo,
			Swift:          draft.Remittance.Swift,
			CreatedAt:      s.now().UTC(),
		}

		pdfBytes, err := s.renderer.Render(doc, draft.Items)
		if err != nil {
			s.log.Error().Err(err).Str("number", number).Msg("rendering failed")
			return nil, domain.ErrRenderFailed
		}

		key := path.Join(s.s3cfg.KeyPrefix, docnum.FileName(number, s.now()))
		out, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(pdfBytes),
			ContentType: "application/pdf",
		})
		if err != nil {
			// Nothing recorded yet, so nothing to clean up.
			s.log.Error().Err(err).Str("number", number).Str("key", key).Msg("pdf upload failed")
			return nil, domain.ErrUploadFailed
		}

		doc.PDFBucket = s.s3cfg.Bucket
		doc.PDFKey = key
		doc.PDFLocator = out.Location

		err = s.ledger.Append(ctx, doc)
		if err == nil {
			s.notify(ctx, draft.PartyEmail, doc)
			return doc, nil
		}
		if errors.Is(err, domain.ErrSequenceConflict) {
			// A concurrent submission took this sequence. The uploaded
			// blob for the losing number is abandoned; the retry uses a
			// fresh sequence and a fresh file name.
			s.log.Warn().
				Str("code", code).Int("year", year).Int("sequence", seq).
				Int("attempt", attempt).
				Msg("sequence conflict, reallocating")
			continue
		}
		// The blob exists but the ledger record does not. Report the
		// orphaned locator for manual reconciliation; the file may still
		// be wanted, so it is not deleted.
		s.log.Error().Err(err).
			Str("number", number).
			Str("orphaned_locator", out.Location).
			Msg("ledger append failed after upload")
		return nil, domain.ErrLedgerWrite
	}

	return nil, domain.ErrSequenceConflict
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.ledger.GetByID(ctx, id)
}

func (s *documentService) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = s.doccfg.HistoryLimit
	}
	if limit > 100 {
		limit = 100
	}
	return s.ledger.Recent(ctx, limit)
}

func (s *documentService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, doc.PDFBucket, doc.PDFKey, s.s3cfg.PresignExpiry)
}

func (s *documentService) DownloadPDF(ctx context.Context, id uuid.UUID) (*domain.Document, []byte, error) {
	doc, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Download(ctx, doc.PDFBucket, doc.PDFKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching pdf for %s: %w", doc.Number, err)
	}
	return doc, data, nil
}

// RemittancePrefill returns the bank details from the party's last
// invoice. Lookup failures are swallowed: prefill is a convenience and
// never blocks the form.
func (s *documentService) RemittancePrefill(ctx context.Context, partyName string) (*domain.RemittanceInfo, error) {
	rem, err := s.ledger.LastRemittanceFor(ctx, partyName)
	if err != nil {
		s.log.Warn().Err(err).Str("party", partyName).Msg("remittance lookup failed")
		return nil, nil
	}
	return rem, nil
}

// notify sends the issued-document email when the draft carries a party
// email. Failures are logged only.
func (s *documentService) notify(ctx context.Context, toEmail string, doc *domain.Document) {
	if toEmail == "" || s.email == nil {
		return
	}
	url, err := s.storage.GetPresignedURL(ctx, doc.PDFBucket, doc.PDFKey, s.s3cfg.PresignExpiry)
	if err != nil {
		s.log.Warn().Err(err).Str("number", doc.Number).Msg("presign for notice failed")
		return
	}
	if err := s.email.SendDocumentIssued(ctx, toEmail, doc, url); err != nil {
		s.log.Warn().Err(err).Str("number", doc.Number).Msg("issued notice failed")
	}
}

func validateDraft(draft *domain.Draft) error {
	if !domain.ValidKinds[draft.Kind] {
		return fmt.Errorf("%w: kind must be invoice or purchase_order", domain.ErrInvalidDraft)
	}
	if !domain.ValidThemes[draft.Theme] {
		return fmt.Errorf("%w: theme must be cream, pastel, or mono", domain.ErrInvalidDraft)
	}
	if draft.IssueDate.IsZero() {
		return fmt.Errorf("%w: issue_date is required", domain.ErrInvalidDraft)
	}
	if draft.Kind == domain.KindInvoice && draft.DueDate == nil {
		return fmt.Errorf("%w: due_date is required for invoices", domain.ErrInvalidDraft)
	}
	for _, it := range draft.Items {
		if it.Amount.IsNegative() {
			return fmt.Errorf("%w: line item amounts must be non-negative", domain.ErrInvalidDraft)
		}
	}
	return nil
}
