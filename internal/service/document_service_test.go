package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mariaherliana/invoice-creation/internal/config"
	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/port"
	"github.com/mariaherliana/invoice-creation/internal/service"
	"github.com/mariaherliana/invoice-creation/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "ap-southeast-1",
		Bucket:        "test-bucket",
		KeyPrefix:     "invoices",
		PresignExpiry: 3600,
	}
}

func testDocConfig() config.DocConfig {
	return config.DocConfig{
		MaxSequenceRetries: 3,
		DefaultCurrency:    "Rp",
		HistoryLimit:       10,
	}
}

func testDraft() *domain.Draft {
	issue := time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 7)
	return &domain.Draft{
		Kind:          domain.KindInvoice,
		PartyName:     "Maria Herliana",
		PartyAddress:  "YESUNDERBAR Pte. Ltd.",
		IssuerName:    "Acme Studio",
		IssuerAddress: "Jl. Sudirman 1, Jakarta",
		IssueDate:     issue,
		DueDate:       &due,
		Theme:         domain.ThemeCream,
		Items: []domain.LineItem{
			{Name: "Retainer Fee", Amount: decimal.NewFromInt(5000000)},
			{Name: "Revisions", Description: "two rounds", Amount: decimal.NewFromInt(1500000)},
		},
		Remittance: domain.RemittanceInfo{
			Bank:        "BCA",
			AccountName: "Maria Herliana",
			AccountNo:   "1234567890",
			Swift:       "CENAIDJA",
		},
	}
}

func newService(ledger port.DocumentLedger, storage port.ObjectStorage, renderer port.Renderer, email port.EmailSender) service.DocumentService {
	s3cfg := testS3Config()
	doccfg := testDocConfig()
	return service.NewDocumentService(ledger, storage, renderer, email, &s3cfg, &doccfg)
}

func TestDocumentService_Generate_Success(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(1, nil)
	renderer.On("Render", mock.AnythingOfType("*domain.Document"), mock.Anything).
		Return([]byte("%PDF-1.3 fake"), nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/invoices/x.pdf"}, nil)
	ledger.On("Append", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	doc, err := svc.Generate(context.Background(), testDraft())

	require.NoError(t, err)
	assert.Equal(t, "MH", doc.PartyCode)
	assert.Equal(t, 2, doc.Sequence)
	assert.Equal(t, 2025, doc.IssueYear)
	assert.Equal(t, "002/INV-MH/XI/2025", doc.Number)
	assert.Equal(t, "Rp", doc.CurrencySymbol)
	assert.True(t, doc.Total.Equal(decimal.NewFromInt(6500000)))
	assert.Equal(t, "https://test-bucket.s3.amazonaws.com/invoices/x.pdf", doc.PDFLocator)
	assert.NotEqual(t, uuid.Nil, doc.ID)

	ledger.AssertExpectations(t)
	storage.AssertExpectations(t)
	renderer.AssertExpectations(t)
}

func TestDocumentService_Generate_DoesNotMutateDraft(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	draft := testDraft()
	doc, err := svc.Generate(context.Background(), draft)

	require.NoError(t, err)
	// The default currency lands on the record, not on the caller's draft.
	assert.Equal(t, "Rp", doc.CurrencySymbol)
	assert.Empty(t, draft.CurrencySymbol)
}

func TestDocumentService_Generate_FirstDocumentOfYear(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	// Records from 2025 do not influence a 2026 allocation.
	draft := testDraft()
	issue := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 14)
	draft.IssueDate, draft.DueDate = issue, &due

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2026).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	doc, err := svc.Generate(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, 1, doc.Sequence)
	assert.Equal(t, "001/INV-MH/III/2026", doc.Number)
}

func TestDocumentService_Generate_PurchaseOrder(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	draft := testDraft()
	draft.Kind = domain.KindPurchaseOrder
	draft.DueDate = nil

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	doc, err := svc.Generate(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, "001/PO-MH/XI/2025", doc.Number)
}

func TestDocumentService_Generate_RenderFailure_NothingPersisted(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("canvas exploded"))

	_, err := svc.Generate(context.Background(), testDraft())

	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestDocumentService_Generate_UploadFailure_NoLedgerWrite(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))

	_, err := svc.Generate(context.Background(), testDraft())

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestDocumentService_Generate_LedgerFailure_OrphanedBlobNotDeleted(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "https://bucket/orphan.pdf"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.Generate(context.Background(), testDraft())

	assert.ErrorIs(t, err, domain.ErrLedgerWrite)
	// The uploaded file may still be wanted; no automatic cleanup.
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Generate_SequenceConflict_RetriesWithFreshSequence(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(4, nil).Once()
	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(5, nil).Once()
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(domain.ErrSequenceConflict).Once()
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	doc, err := svc.Generate(context.Background(), testDraft())

	require.NoError(t, err)
	assert.Equal(t, 6, doc.Sequence)
	assert.Equal(t, "006/INV-MH/XI/2025", doc.Number)
	ledger.AssertExpectations(t)
}

func TestDocumentService_Generate_SequenceConflict_Exhausted(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(domain.ErrSequenceConflict)

	_, err := svc.Generate(context.Background(), testDraft())

	assert.ErrorIs(t, err, domain.ErrSequenceConflict)
	ledger.AssertNumberOfCalls(t, "Append", 3)
}

func TestDocumentService_Generate_ValidationErrors(t *testing.T) {
	svc := newService(new(mocks.MockDocumentLedger), new(mocks.MockObjectStorage), new(mocks.MockRenderer), nil)

	t.Run("unknown theme", func(t *testing.T) {
		draft := testDraft()
		draft.Theme = "neon"
		_, err := svc.Generate(context.Background(), draft)
		assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	})

	t.Run("unknown kind", func(t *testing.T) {
		draft := testDraft()
		draft.Kind = "receipt"
		_, err := svc.Generate(context.Background(), draft)
		assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	})

	t.Run("negative line amount", func(t *testing.T) {
		draft := testDraft()
		draft.Items[0].Amount = decimal.NewFromInt(-1)
		_, err := svc.Generate(context.Background(), draft)
		assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	})

	t.Run("invoice without due date", func(t *testing.T) {
		draft := testDraft()
		draft.DueDate = nil
		_, err := svc.Generate(context.Background(), draft)
		assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	})
}

func TestDocumentService_Generate_EmailNotice_BestEffort(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	email := new(mocks.MockEmailSender)
	svc := newService(ledger, storage, renderer, email)

	draft := testDraft()
	draft.PartyEmail = "maria@example.com"

	ledger.On("MaxSequenceFor", mock.Anything, "MH", 2025).Return(0, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", mock.Anything, int64(3600)).
		Return("https://presigned", nil)
	email.On("SendDocumentIssued", mock.Anything, "maria@example.com", mock.Anything, "https://presigned").
		Return(errors.New("ses throttled"))

	// Email failure never fails the generation.
	doc, err := svc.Generate(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, 1, doc.Sequence)
	email.AssertExpectations(t)
}

func TestDocumentService_RemittancePrefill_SwallowsLookupError(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	svc := newService(ledger, new(mocks.MockObjectStorage), new(mocks.MockRenderer), nil)

	ledger.On("LastRemittanceFor", mock.Anything, "Maria Herliana").
		Return(nil, errors.New("db timeout"))

	rem, err := svc.RemittancePrefill(context.Background(), "Maria Herliana")

	assert.NoError(t, err)
	assert.Nil(t, rem)
}

func TestDocumentService_Recent_ClampsLimit(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	svc := newService(ledger, new(mocks.MockObjectStorage), new(mocks.MockRenderer), nil)

	ledger.On("Recent", mock.Anything, 10).Return([]domain.Document{}, nil).Once()
	ledger.On("Recent", mock.Anything, 100).Return([]domain.Document{}, nil).Once()

	_, err := svc.Recent(context.Background(), 0)
	assert.NoError(t, err)
	_, err = svc.Recent(context.Background(), 5000)
	assert.NoError(t, err)

	ledger.AssertExpectations(t)
}

func TestDocumentService_DownloadPDF_RoundTrip(t *testing.T) {
	ledger := new(mocks.MockDocumentLedger)
	storage := new(mocks.MockObjectStorage)
	svc := newService(ledger, storage, new(mocks.MockRenderer), nil)

	id := uuid.New()
	stored := &domain.Document{ID: id, Number: "001/INV-MH/XI/2025", PDFBucket: "test-bucket", PDFKey: "invoices/a.pdf"}
	ledger.On("GetByID", mock.Anything, id).Return(stored, nil)
	storage.On("Download", mock.Anything, "test-bucket", "invoices/a.pdf").
		Return([]byte("%PDF-1.3 original bytes"), nil)

	doc, data, err := svc.DownloadPDF(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, stored.Number, doc.Number)
	assert.Equal(t, []byte("%PDF-1.3 original bytes"), data)
}

// fakeLedger is an in-memory ledger enforcing the same unique
// constraint as the Postgres schema, for exercising the allocation
// retry loop under interleaved callers.
type fakeLedger struct {
	mu   sync.Mutex
	rows []*domain.Document
}

func (f *fakeLedger) Append(_ context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.PartyCode == doc.PartyCode && r.IssueYear == doc.IssueYear && r.Sequence == doc.Sequence {
			return domain.ErrSequenceConflict
		}
	}
	cp := *doc
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) Recent(_ context.Context, limit int) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Document
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.rows[i])
	}
	return out, nil
}

func (f *fakeLedger) MaxSequenceFor(_ context.Context, code string, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, r := range f.rows {
		if r.PartyCode == code && r.IssueYear == year && r.Sequence > max {
			max = r.Sequence
		}
	}
	return max, nil
}

func (f *fakeLedger) LastRemittanceFor(_ context.Context, partyName string) (*domain.RemittanceInfo, error) {
	return nil, nil
}

func TestDocumentService_Recent_ReturnsNewestFirst(t *testing.T) {
	ledger := &fakeLedger{}
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)
	svc := newService(ledger, storage, renderer, nil)

	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.Generate(context.Background(), testDraft())
		require.NoError(t, err)
	}

	docs, err := svc.Recent(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, 5, docs[0].Sequence)
	assert.Equal(t, 4, docs[1].Sequence)
	assert.Equal(t, 3, docs[2].Sequence)
}

func TestDocumentService_Generate_ConcurrentCallers_GapFreeSequences(t *testing.T) {
	ledger := &fakeLedger{}
	storage := new(mocks.MockObjectStorage)
	renderer := new(mocks.MockRenderer)

	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("pdf"), nil)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(&port.UploadOutput{Location: "loc"}, nil)

	s3cfg := testS3Config()
	doccfg := testDocConfig()
	// High retry budget: the test asserts correctness under heavy
	// contention, not retry exhaustion.
	doccfg.MaxSequenceRetries = 50
	svc := service.NewDocumentService(ledger, storage, renderer, nil, &s3cfg, &doccfg)

	const callers = 4
	const perCaller = 5

	var wg sync.WaitGroup
	errs := make(chan error, callers*perCaller)
	for c := 0; c < callers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				if _, err := svc.Generate(context.Background(), testDraft()); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent generate failed: %v", err)
	}

	var seqs []int
	for _, r := range ledger.rows {
		require.Equal(t, "MH", r.PartyCode)
		seqs = append(seqs, r.Sequence)
	}
	sort.Ints(seqs)

	require.Len(t, seqs, callers*perCaller)
	for i, s := range seqs {
		assert.Equal(t, i+1, s, "sequence numbers must be gap-free and duplicate-free")
	}
}
