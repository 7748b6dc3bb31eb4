package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"idreview/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context) (*service.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockSessionService) Get(id uuid.UUID) (*service.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockSessionService) Close(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockSessionService) CloseIdle(idle time.Duration) int {
	args := m.Called(idle)
	return args.Int(0)
}

func (m *MockSessionService) CloseAll() {
	m.Called()
}

func (m *MockSessionService) Count() int {
	args := m.Called()
	return args.Int(0)
}
