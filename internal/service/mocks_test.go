package service

import (
	"context"

	"exam-byte/internal/domain"
	"exam-byte/internal/exam"

	"github.com/stretchr/testify/mock"
)

// --- MockPaperSource ---
type MockPaperSource struct {
	mock.Mock
}

func (m *MockPaperSource) Acquire(ctx context.Context, id string) *domain.Paper {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Paper)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) ListAttemptsByPaper(ctx context.Context, paperID string, limit int) ([]*domain.Attempt, error) {
	args := m.Called(ctx, paperID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attempt), args.Error(1)
}

// --- MockResultCache ---
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Put(ctx context.Context, sessionID string, result exam.Result) error {
	args := m.Called(ctx, sessionID, result)
	return args.Error(0)
}

func (m *MockResultCache) Get(ctx context.Context, sessionID string) (*exam.Result, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exam.Result), args.Error(1)
}
