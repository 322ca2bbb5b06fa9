package exam

import (
	"context"
	"sync"
	"time"

	"exam-byte/internal/domain"
)

// Phase is the session lifecycle stage.
type Phase string

const (
	PhaseExam    Phase = "exam"
	PhaseResults Phase = "results"
)

const DefaultUrgentThreshold = 300

// SubmitHook is called once per exam run after the session enters results.
// snap is taken at submission; the hook runs without the session lock held.
type SubmitHook func(snap Snapshot, res Result)

// Session holds the state of one candidate working through one paper.
type Session struct {
	mu sync.Mutex

	id     string
	paper  *domain.Paper
	scheme domain.MarkingScheme

	phase       Phase
	current     int
	answers     map[int]string
	visited     map[int]struct{}
	remaining   int
	confirmOpen bool
	sidebarOpen bool

	startedAt    time.Time
	submittedAt  time.Time
	lastActivity time.Time
	reason       domain.SubmitReason
	result       *Result

	countdown    *Countdown
	generation   uint64
	tickInterval time.Duration
	manualTicks  bool
	urgentBelow  int
	onSubmit     SubmitHook
	now          func() time.Time
	ctx          context.Context
}

// Option configures a Session.
type Option func(*Session)

// WithTickInterval sets how often the countdown decrements. Defaults to 1s.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithManualTicks disables the background countdown; callers drive Tick.
func WithManualTicks() Option {
	return func(s *Session) { s.manualTicks = true }
}

// WithUrgentThreshold sets the remaining-seconds mark below which the clock is urgent.
func WithUrgentThreshold(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.urgentBelow = seconds
		}
	}
}

// WithSubmitHook registers a callback fired on each submission.
func WithSubmitHook(h SubmitHook) Option {
	return func(s *Session) { s.onSubmit = h }
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithContext bounds the background countdown by ctx.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

// NewSession creates a session in the exam phase and starts its countdown.
// The paper is captured once and never re-fetched.
func NewSession(id string, paper *domain.Paper, opts ...Option) *Session {
	s := &Session{
		id:           id,
		paper:        paper,
		scheme:       paper.Scheme(),
		tickInterval: time.Second,
		urgentBelow:  DefaultUrgentThreshold,
		now:          time.Now,
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Paper() *domain.Paper { return s.paper }

// resetLocked puts the session into a fresh exam run. Caller holds mu.
func (s *Session) resetLocked() {
	s.countdown.Stop()
	s.phase = PhaseExam
	s.current = 0
	s.answers = make(map[int]string)
	s.visited = map[int]struct{}{0: {}}
	s.remaining = s.paper.DurationSeconds()
	s.confirmOpen = false
	s.sidebarOpen = false
	s.result = nil
	s.reason = ""
	s.submittedAt = time.Time{}
	s.startedAt = s.now()
	s.lastActivity = s.startedAt
	s.generation++

	if s.manualTicks {
		s.countdown = nil
		return
	}
	gen := s.generation
	s.countdown = StartCountdown(s.ctx, s.tickInterval, func() bool {
		return s.tick(gen)
	})
}

func (s *Session) questionCount() int {
	return len(s.paper.Questions)
}

func (s *Session) requireExamLocked() error {
	if s.phase != PhaseExam {
		return domain.ErrSessionClosed
	}
	if s.questionCount() == 0 {
		return domain.ErrNoQuestions
	}
	return nil
}

func (s *Session) touchLocked() {
	s.lastActivity = s.now()
}

// GoTo clamps target into range, makes it current, marks it visited and
// closes the sidebar. It returns the new current index.
func (s *Session) GoTo(target int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireExamLocked(); err != nil {
		return s.current, err
	}
	s.goToLocked(target)
	return s.current, nil
}

func (s *Session) goToLocked(target int) {
	last := s.questionCount() - 1
	if target < 0 {
		target = 0
	}
	if target > last {
		target = last
	}
	s.current = target
	s.visited[target] = struct{}{}
	s.sidebarOpen = false
	s.touchLocked()
}

// Step moves relative to the current question.
func (s *Session) Step(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireExamLocked(); err != nil {
		return s.current, err
	}
	s.goToLocked(s.current + delta)
	return s.current, nil
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() (domain.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questionCount() == 0 {
		return domain.Question{}, 0, domain.ErrNoQuestions
	}
	return s.paper.Questions[s.current], s.current, nil
}

// SetAnswer records value for the current question, replacing any prior value.
func (s *Session) SetAnswer(value string) error {
	return s.SetAnswerWith(value, nil)
}

// SetAnswerWith is SetAnswer with a check against the current question,
// run under the same lock so navigation cannot interleave.
func (s *Session) SetAnswerWith(value string, check func(q domain.Question, value string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireExamLocked(); err != nil {
		return err
	}
	if check != nil {
		if err := check(s.paper.Questions[s.current], value); err != nil {
			return err
		}
	}
	s.answers[s.current] = value
	s.touchLocked()
	return nil
}

// ClearAnswer removes the entry for the current question entirely.
func (s *Session) ClearAnswer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireExamLocked(); err != nil {
		return err
	}
	delete(s.answers, s.current)
	s.touchLocked()
	return nil
}

// ToggleSidebar flips the sidebar flag and returns the new value.
func (s *Session) ToggleSidebar() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseExam {
		return s.sidebarOpen, domain.ErrSessionClosed
	}
	s.sidebarOpen = !s.sidebarOpen
	s.touchLocked()
	return s.sidebarOpen, nil
}

// RequestSubmit opens the submit confirmation.
func (s *Session) RequestSubmit() error {
	return s.setConfirm(true)
}

// CancelSubmit closes the submit confirmation.
func (s *Session) CancelSubmit() error {
	return s.setConfirm(false)
}

func (s *Session) setConfirm(open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseExam {
		return domain.ErrSessionClosed
	}
	s.confirmOpen = open
	s.touchLocked()
	return nil
}

// Submit ends the exam run and scores it. Submitting an already submitted
// session returns the stored result without firing the hook again.
func (s *Session) Submit() Result {
	s.mu.Lock()
	if s.phase == PhaseResults {
		res := *s.result
		s.mu.Unlock()
		return res
	}
	res := s.submitLocked(domain.SubmitManual)
	hook := s.onSubmit
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if hook != nil {
		hook(snap, res)
	}
	return res
}

func (s *Session) submitLocked(reason domain.SubmitReason) Result {
	s.countdown.Stop()
	s.countdown = nil
	s.generation++
	s.confirmOpen = false
	s.phase = PhaseResults
	s.reason = reason
	s.submittedAt = s.now()
	s.touchLocked()

	res := Score(s.paper.Questions, s.answers, s.paper.AnswerKey, s.scheme)
	s.result = &res
	return res
}

// Result returns the scored result once the session is in results.
func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseResults || s.result == nil {
		return Result{}, domain.ErrResultsUnavailable
	}
	return *s.result, nil
}

// Restart begins a fresh run on the same paper.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Tick decrements the clock by one second and auto-submits at zero.
// It is what the background countdown calls; with WithManualTicks callers
// invoke it directly. It reports whether the clock is still running.
func (s *Session) Tick() bool {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	return s.tick(gen)
}

func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	if s.phase != PhaseExam || gen != s.generation {
		s.mu.Unlock()
		return false
	}
	if s.remaining > 1 {
		s.remaining--
		s.mu.Unlock()
		return true
	}

	s.remaining = 0
	res := s.submitLocked(domain.SubmitTimeout)
	hook := s.onSubmit
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if hook != nil {
		hook(snap, res)
	}
	return false
}

// Close stops the countdown for good; the session is being discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdown.Stop()
	s.countdown = nil
	s.generation++
}

// LastActivity reports when the candidate last changed the session.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Snapshot is a consistent, copy-on-read view of the session.
type Snapshot struct {
	ID            string
	Paper         *domain.Paper
	Phase         Phase
	Current       int
	Total         int
	Answers       map[int]string
	Remaining     int
	Clock         string
	Urgent        bool
	ConfirmOpen   bool
	SidebarOpen   bool
	Groups        []Group
	States        []PaletteState
	Stats         Stats
	AnsweredCount int
	StartedAt     time.Time
	SubmittedAt   time.Time
	Reason        domain.SubmitReason
	NoQuestions   bool
}

// Snapshot derives the display state from the authoritative fields.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	n := s.questionCount()
	answers := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	states := make([]PaletteState, n)
	for i := range states {
		states[i] = StateOf(i, s.answers, s.visited)
	}

	return Snapshot{
		ID:            s.id,
		Paper:         s.paper,
		Phase:         s.phase,
		Current:       s.current,
		Total:         n,
		Answers:       answers,
		Remaining:     s.remaining,
		Clock:         FormatClock(s.remaining),
		Urgent:        s.remaining < s.urgentBelow,
		ConfirmOpen:   s.confirmOpen,
		SidebarOpen:   s.sidebarOpen,
		Groups:        BuildGroups(s.paper.Questions),
		States:        states,
		Stats:         ComputeStats(n, s.answers, s.visited),
		AnsweredCount: AnsweredCount(s.answers),
		StartedAt:     s.startedAt,
		SubmittedAt:   s.submittedAt,
		Reason:        s.reason,
		NoQuestions:   n == 0,
	}
}

// Visited reports whether index i has been navigated to.
func (s *Session) Visited(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.visited[i]
	return ok
}

// StateOf derives the palette state of index i.
func (s *Session) StateOf(i int) PaletteState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateOf(i, s.answers, s.visited)
}
