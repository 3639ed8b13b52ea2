package mocks

import (
	"context"

	"resume-parser/internal/models"
	"resume-parser/internal/pdftext"

	"github.com/stretchr/testify/mock"
)

type MockResumeParser struct {
	mock.Mock
}

func (m *MockResumeParser) Parse(ctx context.Context, data []byte) (*models.ParsedResume, error) {
	args := m.Called(ctx, data)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ParsedResume), args.Error(1)
}

type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(data []byte) (*pdftext.Document, error) {
	args := m.Called(data)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*pdftext.Document), args.Error(1)
}

type MockTextParser struct {
	mock.Mock
}

func (m *MockTextParser) Parse(rawText string) models.ParsedResume {
	args := m.Called(rawText)

	return args.Get(0).(models.ParsedResume)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, update models.JobUpdate) error {
	args := m.Called(ctx, update)

	return args.Error(0)
}
