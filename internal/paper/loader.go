package paper

import (
	"context"
	"fmt"

	"exam-byte/internal/domain"
	"exam-byte/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NamedProvider pairs a provider with a name used in logs.
type NamedProvider struct {
	Name     string
	Provider domain.PaperProvider
}

// Loader resolves the paper for a new session. It never fails: when no
// provider yields a paper with questions it returns the demo paper.
type Loader struct {
	providers []NamedProvider
	sf        singleflight.Group
}

// NewLoader creates a loader that consults providers in order.
func NewLoader(providers ...NamedProvider) *Loader {
	return &Loader{providers: providers}
}

// Acquire returns the first stored paper with at least one question, or the
// demo paper. Concurrent calls for the same id share one lookup, which runs
// detached from any single caller's cancellation.
func (l *Loader) Acquire(ctx context.Context, id string) *domain.Paper {
	shared := context.WithoutCancel(ctx)
	v, _, _ := l.sf.Do("paper:"+id, func() (interface{}, error) {
		return l.fetch(shared, id), nil
	})
	return v.(*domain.Paper)
}

func (l *Loader) fetch(ctx context.Context, id string) *domain.Paper {
	for _, np := range l.providers {
		p, err := safeFetch(ctx, np.Provider, id)
		if err != nil {
			logger.Get().Warn("Loader: paper provider failed, treating paper as absent",
				zap.String("provider", np.Name),
				zap.String("paper_id", id),
				zap.Error(err))
			continue
		}
		if p.HasQuestions() {
			logger.Get().Info("Loader: paper acquired",
				zap.String("provider", np.Name),
				zap.String("paper_id", p.ID),
				zap.Int("questions", len(p.Questions)))
			return p
		}
		logger.Get().Debug("Loader: paper not found", zap.String("provider", np.Name), zap.String("paper_id", id))
	}

	logger.Get().Info("Loader: falling back to demo paper", zap.String("requested_id", id))
	return DemoPaper()
}

// safeFetch turns a provider panic into an error so a corrupt store can never
// take down session creation.
func safeFetch(ctx context.Context, p domain.PaperProvider, id string) (paper *domain.Paper, err error) {
	defer func() {
		if r := recover(); r != nil {
			paper, err = nil, fmt.Errorf("paper provider panicked: %v", r)
		}
	}()
	return p.FetchPaper(ctx, id)
}
