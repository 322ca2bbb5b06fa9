package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"exam-byte/internal/cache"
	"exam-byte/internal/domain"
	"exam-byte/internal/exam"
	"exam-byte/internal/logger"

	"go.uber.org/zap"
)

// ErrResultNotCached is returned when no result is cached for a session.
var ErrResultNotCached = errors.New("exam result not found in cache")

// ResultCacheService keeps submitted results readable after the in-memory
// session has been evicted or ended.
type ResultCacheService interface {
	Put(ctx context.Context, sessionID string, result exam.Result) error
	Get(ctx context.Context, sessionID string) (*exam.Result, error)
}

type resultCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewResultCacheService creates a result cache over c. A nil cache yields a
// no-op implementation.
func NewResultCacheService(c domain.Cache, ttl time.Duration) ResultCacheService {
	if c == nil {
		logger.Get().Warn("ResultCacheService initialized with nil cache. Service will be no-op.")
		return noopResultCacheService{}
	}
	return &resultCacheServiceImpl{cache: c, ttl: ttl}
}

func (s *resultCacheServiceImpl) Put(ctx context.Context, sessionID string, result exam.Result) error {
	key := cache.ResultKey(sessionID)
	data, err := json.Marshal(result)
	if err != nil {
		return domain.NewInternalError("failed to marshal result for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to cache exam result", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to cache result for key %s", key), err)
	}
	logger.Get().Debug("Cached exam result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *resultCacheServiceImpl) Get(ctx context.Context, sessionID string) (*exam.Result, error) {
	key := cache.ResultKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrResultNotCached
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to read cached result for key %s", key), err)
	}
	if data == "" {
		return nil, ErrResultNotCached
	}

	var res exam.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		logger.Get().Error("Failed to unmarshal cached exam result", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal result for key %s", key), err)
	}
	return &res, nil
}

type noopResultCacheService struct{}

func (noopResultCacheService) Put(context.Context, string, exam.Result) error { return nil }

func (noopResultCacheService) Get(context.Context, string) (*exam.Result, error) {
	return nil, ErrResultNotCached
}
