package paper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"exam-byte/internal/domain"
	"exam-byte/internal/logger"
	"exam-byte/internal/validation"

	"go.uber.org/zap"
)

// Sink stores uploaded papers. RedisStore and the Oracle paper adapter
// both implement it.
type Sink interface {
	SavePaper(ctx context.Context, p *domain.Paper) error
}

// DecodePapers reads a JSON array of papers or a single paper object.
// Papers without a valid id or without questions are rejected; an id a
// session could never request is refused at upload.
func DecodePapers(data []byte) ([]*domain.Paper, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, domain.NewInvalidInputError("paper file is empty")
	}

	var papers []*domain.Paper
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &papers); err != nil {
			return nil, fmt.Errorf("failed to decode papers: %w", err)
		}
	} else {
		var p domain.Paper
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("failed to decode paper: %w", err)
		}
		papers = []*domain.Paper{&p}
	}

	v := validation.NewValidator()
	for i, p := range papers {
		if p == nil || p.ID == "" {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("paper %d has no id", i))
		}
		if errs := v.ValidatePaperID(p.ID); len(errs) > 0 {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("paper %d has an invalid id %q: %s", i, p.ID, errs.Error()))
		}
		if !p.HasQuestions() {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("paper %s has no questions", p.ID))
		}
	}
	return papers, nil
}

// Upload saves every paper to every sink and returns how many writes
// succeeded. It keeps going after a failed write and returns the first error.
func Upload(ctx context.Context, papers []*domain.Paper, sinks map[string]Sink) (int, error) {
	var firstErr error
	saved := 0
	for _, p := range papers {
		for name, sink := range sinks {
			if err := sink.SavePaper(ctx, p); err != nil {
				logger.Get().Error("Upload: failed to save paper",
					zap.String("sink", name),
					zap.String("paper_id", p.ID),
					zap.Error(err))
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", name, err)
				}
				continue
			}
			saved++
			logger.Get().Info("Upload: paper saved",
				zap.String("sink", name),
				zap.String("paper_id", p.ID),
				zap.Int("questions", len(p.Questions)))
		}
	}
	return saved, firstErr
}
