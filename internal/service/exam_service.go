package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"exam-byte/internal/config"
	"exam-byte/internal/domain"
	"exam-byte/internal/exam"
	"exam-byte/internal/logger"
	"exam-byte/internal/paper"
	"exam-byte/internal/util"
	"exam-byte/internal/validation"

	"go.uber.org/zap"
)

const attemptWriteTimeout = 5 * time.Second

// PaperSource resolves the paper for a new session. It never fails; the
// demo paper stands in for anything missing.
type PaperSource interface {
	Acquire(ctx context.Context, id string) *domain.Paper
}

// ExamService owns the live exam sessions.
type ExamService interface {
	StartSession(ctx context.Context, paperID string) (exam.Snapshot, error)
	GetSession(ctx context.Context, sessionID string) (exam.Snapshot, error)
	Navigate(ctx context.Context, sessionID string, index int) (exam.Snapshot, error)
	Step(ctx context.Context, sessionID string, delta int) (exam.Snapshot, error)
	SetAnswer(ctx context.Context, sessionID, value string) (exam.Snapshot, error)
	ClearAnswer(ctx context.Context, sessionID string) (exam.Snapshot, error)
	ToggleSidebar(ctx context.Context, sessionID string) (exam.Snapshot, error)
	RequestSubmit(ctx context.Context, sessionID string) (exam.Snapshot, error)
	CancelSubmit(ctx context.Context, sessionID string) (exam.Snapshot, error)
	Submit(ctx context.Context, sessionID string) (exam.Result, error)
	GetResult(ctx context.Context, sessionID string) (exam.Result, error)
	Restart(ctx context.Context, sessionID string) (exam.Snapshot, error)
	EndSession(ctx context.Context, sessionID string) error
	ListAttempts(ctx context.Context, paperID string, limit int) ([]*domain.Attempt, error)
	EvictIdle(now time.Time) int
	StartJanitor()
	Shutdown()
}

type examServiceImpl struct {
	mu       sync.RWMutex
	sessions map[string]*exam.Session

	papers    PaperSource
	attempts  domain.AttemptRepository
	results   ResultCacheService
	validator *validation.Validator
	cfg       config.ExamConfig
	extraOpts []exam.Option

	ctx         context.Context
	cancel      context.CancelFunc
	janitorOnce sync.Once
	janitorDone chan struct{}
}

// NewExamService creates the session registry. attempts and results may be
// nil when the database or Redis is disabled. opts are applied to every
// session after the config-derived options.
func NewExamService(papers PaperSource, attempts domain.AttemptRepository, results ResultCacheService, cfg config.ExamConfig, opts ...exam.Option) ExamService {
	if results == nil {
		results = noopResultCacheService{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &examServiceImpl{
		sessions:  make(map[string]*exam.Session),
		papers:    papers,
		attempts:  attempts,
		results:   results,
		validator: validation.NewValidator(),
		cfg:       cfg,
		extraOpts: opts,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *examServiceImpl) StartSession(ctx context.Context, paperID string) (exam.Snapshot, error) {
	var stored *domain.Paper
	if errs := s.validator.ValidatePaperID(paperID); len(errs) > 0 {
		// No store can hold such an id, so it resolves like any missing paper.
		logger.Get().Warn("Invalid paper id, starting with the demo paper",
			zap.String("paper_id", paperID),
			zap.Error(errs))
		stored = paper.DemoPaper()
	} else {
		stored = s.papers.Acquire(ctx, paperID)
	}

	p := withDefaultDuration(stored, s.cfg.DefaultDurationMinutes)
	id := util.NewULID()

	opts := []exam.Option{
		exam.WithTickInterval(s.cfg.TickInterval),
		exam.WithUrgentThreshold(s.cfg.UrgentThresholdSeconds),
		exam.WithSubmitHook(s.onSubmit),
		exam.WithContext(s.ctx),
	}
	sess := exam.NewSession(id, p, append(opts, s.extraOpts...)...)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logger.Get().Info("Exam session started",
		zap.String("session_id", id),
		zap.String("paper_id", p.ID),
		zap.Bool("demo", p.IsDemo()),
		zap.Int("questions", len(p.Questions)),
		zap.Int("duration_seconds", p.DurationSeconds()))
	return sess.Snapshot(), nil
}

// withDefaultDuration returns p, or a shallow copy carrying the configured
// default when p has no duration. Loaded papers are shared between sessions
// and are never mutated.
func withDefaultDuration(p *domain.Paper, minutes int) *domain.Paper {
	if p.Duration > 0 || minutes <= 0 {
		return p
	}
	cp := *p
	cp.Duration = minutes
	return &cp
}

func (s *examServiceImpl) lookup(sessionID string) (*exam.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return sess, nil
}

// mutate runs op on the session and returns the resulting snapshot.
func (s *examServiceImpl) mutate(sessionID string, op func(*exam.Session) error) (exam.Snapshot, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return exam.Snapshot{}, err
	}
	if err := op(sess); err != nil {
		return exam.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *examServiceImpl) GetSession(ctx context.Context, sessionID string) (exam.Snapshot, error) {
	return s.mutate(sessionID, func(*exam.Session) error { return nil })
}

func (s *examServiceImpl) Navigate(ctx context.Context, sessionID string, index int) (exam.Snapshot, error) {
	if errs := s.validator.ValidateIndex(&index); len(errs) > 0 {
		return exam.Snapshot{}, errs
	}
	return s.mutate(sessionID, func(sess *exam.Session) error {
		_, err := sess.GoTo(index)
		return err
	})
}

func (s *examServiceImpl) Step(ctx context.Context, sessionID string, delta int) (exam.Snapshot, error) {
	return s.mutate(sessionID, func(sess *exam.Session) error {
		_, err := sess.Step(delta)
		return err
	})
}

func (s *examServiceImpl) SetAnswer(ctx context.Context, sessionID, value string) (exam.Snapshot, error) {
	return s.mutate(sessionID, func(sess *exam.Session) error {
		return sess.SetAnswerWith(value, func(q domain.Question, v string) error {
			if errs := s.validator.ValidateAnswer(q, v); len(errs) > 0 {
				return errs
			}
			return nil
		})
	})
}

func (s *examServiceImpl) ClearAnswer(ctx context.Context, sessionID string) (exam.Snapshot, error) {
	return s.mutate(sessionID, (*exam.Session).ClearAnswer)
}

func (s *examServiceImpl) ToggleSidebar(ctx context.Context, sessionID string) (exam.Snapshot, error) {
	return s.mutate(sessionID, func(sess *exam.Session) error {
		_, err := sess.ToggleSidebar()
		return err
	})
}

func (s *examServiceImpl) RequestSubmit(ctx context.Context, sessionID string) (exam.Snapshot, error) {
	return s.mutate(sessionID, (*exam.Session).RequestSubmit)
}

func (s *examServiceImpl) CancelSubmit(ctx context.Context, sessionID string) (exam.Snapshot, error) {
	return s.mutate(sessionID, (*exam.Session).CancelSubmit)
}

func (s *examServiceImpl) Submit(ctx context.Context, sessionID string) (exam.Result, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return exam.Result{}, err
	}
	return sess.Submit(), nil
}

// GetResult reads from the live session, falling back to the result cache
// once the session is gone.
func (s *examServiceImpl) GetResult(ctx context.Context, sessionID string) (exam.Result, error) {
	sess, err := s.lookup(sessionID)
	if err == nil {
		return sess.Result()
	}

	cached, cacheErr := s.results.Get(ctx, sessionID)
	if cacheErr == nil {
		return *cached, nil
	}
	if !errors.Is(cacheErr, ErrResultNotCached) {
		logger.Get().Warn("Result cache lookup failed", zap.String("session_id", sessionID), zap.Error(cacheErr))
	}
	return exam.Result{}, err
}

func (s *examServiceImpl) Restart(ctx context.Context, sessionID string) (exam.Snapshot, error) {
	return s.mutate(sessionID, func(sess *exam.Session) error {
		sess.Restart()
		logger.Get().Info("Exam session restarted", zap.String("session_id", sessionID))
		return nil
	})
}

func (s *examServiceImpl) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return domain.NewSessionNotFoundError(sessionID)
	}
	sess.Close()
	logger.Get().Info("Exam session ended", zap.String("session_id", sessionID))
	return nil
}

func (s *examServiceImpl) ListAttempts(ctx context.Context, paperID string, limit int) ([]*domain.Attempt, error) {
	var errs domain.ValidationErrors
	if strings.TrimSpace(paperID) == "" {
		errs = append(errs, domain.NewMissingFieldError("paper_id"))
	}
	errs = append(errs, s.validator.ValidatePaperID(paperID)...)
	errs = append(errs, s.validator.ValidateAttemptLimit(limit)...)
	if len(errs) > 0 {
		return nil, errs
	}

	if s.attempts == nil {
		return []*domain.Attempt{}, nil
	}
	attempts, err := s.attempts.ListAttemptsByPaper(ctx, paperID, limit)
	if err != nil {
		logger.Get().Error("Failed to list attempts", zap.String("paper_id", paperID), zap.Error(err))
		return nil, domain.NewInternalError("failed to list attempts", err)
	}
	return attempts, nil
}

// onSubmit persists the attempt and caches the result. Failures are logged
// and never reach the candidate.
func (s *examServiceImpl) onSubmit(snap exam.Snapshot, res exam.Result) {
	log := logger.Get().With(zap.String("session_id", snap.ID), zap.String("paper_id", snap.Paper.ID))
	log.Info("Exam submitted",
		zap.String("reason", string(snap.Reason)),
		zap.Int("answered", res.Answered),
		zap.Float64("marks", res.Marks))

	ctx, cancel := context.WithTimeout(context.Background(), attemptWriteTimeout)
	defer cancel()

	if err := s.results.Put(ctx, snap.ID, res); err != nil {
		log.Warn("Failed to cache exam result", zap.Error(err))
	}

	if s.attempts == nil {
		return
	}
	attempt := &domain.Attempt{
		ID:          util.NewULID(),
		SessionID:   snap.ID,
		PaperID:     snap.Paper.ID,
		Correct:     res.Correct,
		Wrong:       res.Wrong,
		Skipped:     res.Skipped,
		Answered:    res.Answered,
		Marks:       res.Marks,
		TotalMarks:  res.TotalMarks,
		Reason:      snap.Reason,
		Answers:     snap.Answers,
		StartedAt:   snap.StartedAt,
		SubmittedAt: snap.SubmittedAt,
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		log.Error("Failed to record attempt", zap.Error(err))
	}
}

// EvictIdle drops sessions with no activity for longer than the idle TTL and
// returns how many were removed.
func (s *examServiceImpl) EvictIdle(now time.Time) int {
	ttl := s.cfg.SessionIdleTTL
	if ttl <= 0 {
		return 0
	}

	var evicted []*exam.Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity()) > ttl {
			evicted = append(evicted, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.Close()
		logger.Get().Info("Evicted idle exam session", zap.String("session_id", sess.ID()))
	}
	return len(evicted)
}

// StartJanitor runs EvictIdle every janitor interval until Shutdown.
func (s *examServiceImpl) StartJanitor() {
	if s.cfg.JanitorInterval <= 0 || s.cfg.SessionIdleTTL <= 0 {
		return
	}
	s.janitorOnce.Do(func() {
		s.janitorDone = make(chan struct{})
		go func() {
			defer close(s.janitorDone)
			ticker := time.NewTicker(s.cfg.JanitorInterval)
			defer ticker.Stop()
			for {
				select {
				case <-s.ctx.Done():
					return
				case now := <-ticker.C:
					if n := s.EvictIdle(now); n > 0 {
						logger.Get().Debug("Janitor pass", zap.Int("evicted", n))
					}
				}
			}
		}()
	})
}

// Shutdown stops the janitor and every session countdown.
func (s *examServiceImpl) Shutdown() {
	s.cancel()
	if s.janitorDone != nil {
		<-s.janitorDone
	}

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*exam.Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	logger.Get().Info("Exam service stopped", zap.Int("sessions_closed", len(sessions)))
}
