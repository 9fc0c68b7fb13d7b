package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/mariaherliana/invoice-creation/internal/domain"
)

// MockRenderer is a mock implementation of port.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(doc *domain.Document, items []domain.LineItem) ([]byte, error) {
	args := m.Called(doc, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
