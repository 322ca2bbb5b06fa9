package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"exam-byte/internal/domain"
	"exam-byte/internal/exam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ManualMockCache for domain.Cache interface
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errors.New("GetFunc not set")
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return errors.New("SetFunc not set")
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return errors.New("DeleteFunc not set")
}

func (m *ManualMockCache) Ping(ctx context.Context) error { return nil }

func TestResultCache_PutThenGet(t *testing.T) {
	store := map[string]string{}
	var gotTTL time.Duration
	c := &ManualMockCache{
		SetFunc: func(_ context.Context, key, value string, ttl time.Duration) error {
			store[key] = value
			gotTTL = ttl
			return nil
		},
		GetFunc: func(_ context.Context, key string) (string, error) {
			v, ok := store[key]
			if !ok {
				return "", domain.ErrCacheMiss
			}
			return v, nil
		},
	}
	svc := NewResultCacheService(c, 24*time.Hour)
	res := exam.Result{Correct: 2, Marks: 7, TotalMarks: 300, HasKey: true, Percent: 2, Verdict: "Don't Give Up!",
		Review: []exam.ReviewItem{{Index: 0, Yours: "A", Key: "A", Status: exam.ReviewCorrect}}}

	require.NoError(t, svc.Put(context.Background(), "s1", res))
	assert.Equal(t, 24*time.Hour, gotTTL)
	assert.Contains(t, store, "exambyte:exam:result:s1")

	got, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, res, *got)

	_, err = svc.Get(context.Background(), "s2")
	assert.ErrorIs(t, err, ErrResultNotCached)
}

func TestResultCache_Errors(t *testing.T) {
	c := &ManualMockCache{
		SetFunc: func(context.Context, string, string, time.Duration) error { return errors.New("READONLY") },
		GetFunc: func(context.Context, string) (string, error) { return "{broken", nil },
	}
	svc := NewResultCacheService(c, time.Hour)

	var domainErr *domain.DomainError
	require.ErrorAs(t, svc.Put(context.Background(), "s1", exam.Result{}), &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)

	_, err := svc.Get(context.Background(), "s1")
	require.ErrorAs(t, err, &domainErr)
}

func TestResultCache_NilCacheIsNoop(t *testing.T) {
	svc := NewResultCacheService(nil, time.Hour)
	assert.NoError(t, svc.Put(context.Background(), "s1", exam.Result{}))
	_, err := svc.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrResultNotCached)
}
