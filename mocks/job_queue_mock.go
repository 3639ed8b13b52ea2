package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Produce(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)

	return args.Error(0)
}

func (m *MockJobQueue) Consume(ctx context.Context) (uuid.UUID, error) {
	args := m.Called(ctx)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJobQueue) Ack(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)

	return args.Error(0)
}
