package paper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"exam-byte/internal/domain"
	"exam-byte/internal/logger"

	"go.uber.org/zap"
)

const DefaultPapersKey = "pyq_papers"

// RedisStore keeps every uploaded paper in one key as a JSON array, the same
// shape the upload tool writes.
type RedisStore struct {
	cache domain.Cache
	key   string
}

// NewRedisStore creates a store over cache. An empty key uses DefaultPapersKey.
func NewRedisStore(cache domain.Cache, key string) *RedisStore {
	if key == "" {
		key = DefaultPapersKey
	}
	return &RedisStore{cache: cache, key: key}
}

// FetchPaper selects the paper with the given id, or the last stored paper
// when id is empty. Undecodable entries are logged and skipped.
func (s *RedisStore) FetchPaper(ctx context.Context, id string) (*domain.Paper, error) {
	papers, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, nil
	}
	if id == "" {
		return papers[len(papers)-1], nil
	}
	for _, p := range papers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// SavePaper appends p, replacing a stored paper with the same id in place.
// Entries that no longer decode are written back untouched.
func (s *RedisStore) SavePaper(ctx context.Context, p *domain.Paper) error {
	if p == nil || p.ID == "" {
		return domain.NewInvalidInputError("paper id is required")
	}
	encoded, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode paper %s: %w", p.ID, err)
	}
	items, err := s.loadRaw(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, item := range items {
		var head struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(item, &head) == nil && head.ID == p.ID {
			items[i] = encoded
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, encoded)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode papers: %w", err)
	}
	if err := s.cache.Set(ctx, s.key, string(data), 0); err != nil {
		return fmt.Errorf("failed to store papers: %w", err)
	}
	return nil
}

// loadRaw returns the stored array one entry per element. A value that is
// not a JSON array is logged and treated as empty.
func (s *RedisStore) loadRaw(ctx context.Context) ([]json.RawMessage, error) {
	raw, err := s.cache.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read papers from %s: %w", s.key, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Get().Warn("RedisStore: stored papers are not a JSON array, ignoring",
			zap.String("key", s.key),
			zap.Error(err))
		return nil, nil
	}
	return items, nil
}

func (s *RedisStore) load(ctx context.Context) ([]*domain.Paper, error) {
	items, err := s.loadRaw(ctx)
	if err != nil {
		return nil, err
	}

	papers := make([]*domain.Paper, 0, len(items))
	for i, item := range items {
		var p domain.Paper
		if err := json.Unmarshal(item, &p); err != nil {
			logger.Get().Warn("RedisStore: skipping undecodable paper",
				zap.String("key", s.key),
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		papers = append(papers, &p)
	}
	return papers, nil
}
