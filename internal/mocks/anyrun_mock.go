package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

// MockSandbox is a mock implementation of anyrun.API.
type MockSandbox struct {
	mock.Mock
}

// SubmitURL submits a URL for analysis.
func (m *MockSandbox) SubmitURL(ctx context.Context, apiKey, target string) (string, error) {
	args := m.Called(ctx, apiKey, target)
	return args.String(0), args.Error(1)
}

// SubmitFile submits file content for analysis.
func (m *MockSandbox) SubmitFile(ctx context.Context, apiKey, filename string, content io.Reader) (string, error) {
	args := m.Called(ctx, apiKey, filename, content)
	return args.String(0), args.Error(1)
}

// GetReport fetches a single analysis document by UUID.
func (m *MockSandbox) GetReport(ctx context.Context, apiKey, uuid string) (*models.Report, error) {
	args := m.Called(ctx, apiKey, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

// ListHistory fetches a page of abbreviated analysis summaries.
func (m *MockSandbox) ListHistory(ctx context.Context, apiKey string, limit, skip int) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, apiKey, limit, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryEntry), args.Error(1)
}

// GetLimits fetches the caller's API usage limits as display text.
func (m *MockSandbox) GetLimits(ctx context.Context, apiKey string) (string, error) {
	args := m.Called(ctx, apiKey)
	return args.String(0), args.Error(1)
}
