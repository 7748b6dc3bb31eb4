package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"idreview/internal/port"
)

// MockPreviewStore is a mock implementation of port.PreviewStore.
type MockPreviewStore struct {
	mock.Mock
}

func (m *MockPreviewStore) Create(name, contentType string, data []byte) (port.PreviewHandle, error) {
	args := m.Called(name, contentType, data)
	return args.Get(0).(port.PreviewHandle), args.Error(1)
}

func (m *MockPreviewStore) Open(id uuid.UUID) ([]byte, string, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockPreviewStore) Release(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}
