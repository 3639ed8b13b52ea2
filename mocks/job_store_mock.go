package mocks

import (
	"context"

	"resume-parser/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobStore) Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobStore) MarkProcessing(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockJobStore) Complete(ctx context.Context, jobID uuid.UUID, result *models.ParsedResume) error {
	args := m.Called(ctx, jobID, result)
	return args.Error(0)
}

func (m *MockJobStore) Fail(ctx context.Context, jobID uuid.UUID, reason, message string) error {
	args := m.Called(ctx, jobID, reason, message)
	return args.Error(0)
}
