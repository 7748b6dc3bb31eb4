package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"idreview/internal/domain"
	"idreview/internal/port"
)

// MockRemoteGateway is a mock implementation of port.RemoteGateway.
type MockRemoteGateway struct {
	mock.Mock
}

func (m *MockRemoteGateway) Classify(ctx context.Context, input port.ClassifyInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockRemoteGateway) List(ctx context.Context, limit int) ([]domain.Document, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockRemoteGateway) Update(ctx context.Context, id int64, input port.UpdateInput) (*domain.Document, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
