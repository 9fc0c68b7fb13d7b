package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mariaherliana/invoice-creation/internal/domain"
)

// MockDocumentLedger is a mock implementation of port.DocumentLedger.
type MockDocumentLedger struct {
	mock.Mock
}

func (m *MockDocumentLedger) Append(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentLedger) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentLedger) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentLedger) MaxSequenceFor(ctx context.Context, code string, year int) (int, error) {
	args := m.Called(ctx, code, year)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentLedger) LastRemittanceFor(ctx context.Context, partyName string) (*domain.RemittanceInfo, error) {
	args := m.Called(ctx, partyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemittanceInfo), args.Error(1)
}
