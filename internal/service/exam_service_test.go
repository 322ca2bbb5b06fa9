package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"exam-byte/internal/config"
	"exam-byte/internal/domain"
	"exam-byte/internal/exam"
	"exam-byte/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain initializes the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Env: "test", Level: "error"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

func testExamConfig() config.ExamConfig {
	return config.ExamConfig{
		DefaultDurationMinutes: 180,
		UrgentThresholdSeconds: 300,
		TickInterval:           time.Second,
		SessionIdleTTL:         time.Hour,
		JanitorInterval:        time.Minute,
	}
}

func physicsPaper() *domain.Paper {
	return &domain.Paper{
		ID:       "phy-2024",
		Subject:  "Physics",
		Duration: 60,
		Questions: []domain.Question{
			{Number: 1, Text: "Q1", Options: map[string]string{"A": "a", "B": "b"}, Section: "Physics"},
			{Number: 2, Text: "Q2", Options: map[string]string{"A": "a", "B": "b"}, Section: "Physics"},
			{Number: 3, Text: "Q3", IsNumerical: true, Section: "Physics"},
		},
		AnswerKey: domain.AnswerKey{"1": "A", "2": "B", "3": "9.8"},
	}
}

func newTestService(t *testing.T, paper *domain.Paper, repo domain.AttemptRepository, results ResultCacheService) (ExamService, *MockPaperSource) {
	t.Helper()
	papers := new(MockPaperSource)
	papers.On("Acquire", mock.Anything, mock.Anything).Return(paper)
	svc := NewExamService(papers, repo, results, testExamConfig(), exam.WithManualTicks())
	t.Cleanup(svc.Shutdown)
	return svc, papers
}

func TestExamService_StartSession(t *testing.T) {
	svc, papers := newTestService(t, physicsPaper(), nil, nil)

	snap, err := svc.StartSession(context.Background(), "phy-2024")
	require.NoError(t, err)
	assert.Len(t, snap.ID, 26)
	assert.Equal(t, exam.PhaseExam, snap.Phase)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 0, snap.Current)
	assert.Equal(t, 3600, snap.Remaining)
	assert.Equal(t, "1:00:00", snap.Clock)
	papers.AssertCalled(t, "Acquire", mock.Anything, "phy-2024")
}

func TestExamService_StartSession_InvalidPaperIDFallsBackToDemo(t *testing.T) {
	svc, papers := newTestService(t, physicsPaper(), nil, nil)

	for _, id := range []string{"../../etc/passwd", "jee main 2024", strings.Repeat("x", 65)} {
		snap, err := svc.StartSession(context.Background(), id)
		require.NoError(t, err, id)
		require.NotNil(t, snap.Paper)
		assert.True(t, snap.Paper.IsDemo(), id)
		assert.Equal(t, exam.PhaseExam, snap.Phase)
	}
	papers.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
}

func TestExamService_Navigate_ClampsNegativeIndex(t *testing.T) {
	svc, _ := newTestService(t, physicsPaper(), nil, nil)
	ctx := context.Background()
	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)

	snap, err = svc.Navigate(ctx, snap.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Current)

	snap, err = svc.Navigate(ctx, snap.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Current)
}

func TestExamService_StartSession_AppliesDefaultDuration(t *testing.T) {
	paper := physicsPaper()
	paper.Duration = 0
	papers := new(MockPaperSource)
	papers.On("Acquire", mock.Anything, "").Return(paper)

	cfg := testExamConfig()
	cfg.DefaultDurationMinutes = 90
	svc := NewExamService(papers, nil, nil, cfg, exam.WithManualTicks())
	defer svc.Shutdown()

	snap, err := svc.StartSession(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 90*60, snap.Remaining)
	assert.Equal(t, 0, paper.Duration, "shared paper must not be mutated")
}

func TestExamService_NavigationAndAnswers(t *testing.T) {
	svc, _ := newTestService(t, physicsPaper(), nil, nil)
	ctx := context.Background()
	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)
	id := snap.ID

	snap, err = svc.Navigate(ctx, id, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Current)

	_, err = svc.SetAnswer(ctx, id, "abc")
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	snap, err = svc.SetAnswer(ctx, id, "9.8")
	require.NoError(t, err)
	assert.Equal(t, exam.StateAnswered, snap.States[2])

	snap, err = svc.Step(ctx, id, -2)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Current)

	_, err = svc.SetAnswer(ctx, id, "C")
	require.ErrorAs(t, err, &verrs)

	snap, err = svc.SetAnswer(ctx, id, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.AnsweredCount)

	snap, err = svc.ClearAnswer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, exam.StateVisited, snap.States[0])
	assert.Equal(t, exam.StateFresh, snap.States[1])

	snap, err = svc.ToggleSidebar(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.SidebarOpen)

	snap, err = svc.RequestSubmit(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.ConfirmOpen)

	snap, err = svc.CancelSubmit(ctx, id)
	require.NoError(t, err)
	assert.False(t, snap.ConfirmOpen)
}

func TestExamService_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t, physicsPaper(), nil, nil)
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	_, err = svc.Navigate(ctx, "nope", 1)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	_, err = svc.Submit(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	assert.True(t, errors.Is(svc.EndSession(ctx, "nope"), domain.ErrSessionNotFound))
}

func TestExamService_Submit_RecordsAttemptOnce(t *testing.T) {
	repo := new(MockAttemptRepository)
	results := new(MockResultCache)
	svc, _ := newTestService(t, physicsPaper(), repo, results)
	ctx := context.Background()

	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)
	id := snap.ID
	_, err = svc.SetAnswer(ctx, id, "A")
	require.NoError(t, err)
	_, err = svc.Navigate(ctx, id, 1)
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, id, "A")
	require.NoError(t, err)

	repo.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(a *domain.Attempt) bool {
		return a.SessionID == id && a.PaperID == "phy-2024" && a.Reason == domain.SubmitManual &&
			a.Correct == 1 && a.Wrong == 1 && a.Skipped == 1 && a.Answers[0] == "A"
	})).Return(nil).Once()
	results.On("Put", mock.Anything, id, mock.AnythingOfType("exam.Result")).Return(nil).Once()

	res, err := svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Marks)
	assert.Equal(t, 12.0, res.TotalMarks)
	assert.Equal(t, 25, res.Percent)
	assert.Equal(t, "Don't Give Up!", res.Verdict)

	again, err := svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res, again)

	_, err = svc.SetAnswer(ctx, id, "B")
	assert.True(t, errors.Is(err, domain.ErrSessionClosed))

	repo.AssertNumberOfCalls(t, "CreateAttempt", 1)
	results.AssertNumberOfCalls(t, "Put", 1)
}

func TestExamService_Submit_PersistenceFailureIsHidden(t *testing.T) {
	repo := new(MockAttemptRepository)
	repo.On("CreateAttempt", mock.Anything, mock.Anything).Return(errors.New("ORA-03113"))
	results := new(MockResultCache)
	results.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	svc, _ := newTestService(t, physicsPaper(), repo, results)
	ctx := context.Background()

	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)

	res, err := svc.Submit(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Skipped)

	got, err := svc.GetResult(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestExamService_GetResult(t *testing.T) {
	results := new(MockResultCache)
	results.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newTestService(t, physicsPaper(), nil, results)
	ctx := context.Background()

	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)

	_, err = svc.GetResult(ctx, snap.ID)
	assert.True(t, errors.Is(err, domain.ErrResultsUnavailable))

	res, err := svc.Submit(ctx, snap.ID)
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx, snap.ID))

	results.On("Get", mock.Anything, snap.ID).Return(&res, nil)
	got, err := svc.GetResult(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Marks, got.Marks)

	results.On("Get", mock.Anything, "gone").Return(nil, ErrResultNotCached)
	_, err = svc.GetResult(ctx, "gone")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestExamService_Restart(t *testing.T) {
	svc, _ := newTestService(t, physicsPaper(), nil, nil)
	ctx := context.Background()

	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, snap.ID, "B")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, snap.ID)
	require.NoError(t, err)

	snap, err = svc.Restart(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.PhaseExam, snap.Phase)
	assert.Empty(t, snap.Answers)
	assert.Equal(t, 3600, snap.Remaining)
	assert.Equal(t, exam.Stats{Done: 0, Seen: 1, Left: 2}, snap.Stats)

	_, err = svc.GetResult(ctx, snap.ID)
	assert.True(t, errors.Is(err, domain.ErrResultsUnavailable))
}

func TestExamService_TimeoutAutoSubmits(t *testing.T) {
	paper := physicsPaper()
	paper.Duration = 1
	papers := new(MockPaperSource)
	papers.On("Acquire", mock.Anything, mock.Anything).Return(paper)

	recorded := make(chan *domain.Attempt, 4)
	repo := new(MockAttemptRepository)
	repo.On("CreateAttempt", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		recorded <- args.Get(1).(*domain.Attempt)
	})

	cfg := testExamConfig()
	cfg.TickInterval = time.Millisecond
	svc := NewExamService(papers, repo, nil, cfg)
	defer svc.Shutdown()

	snap, err := svc.StartSession(context.Background(), "")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := svc.GetResult(context.Background(), snap.ID)
		return err == nil
	}, 5*time.Second, 5*time.Millisecond)

	view, err := svc.GetSession(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.PhaseResults, view.Phase)
	assert.Equal(t, 0, view.Remaining)
	assert.Equal(t, domain.SubmitTimeout, view.Reason)

	select {
	case a := <-recorded:
		assert.Equal(t, domain.SubmitTimeout, a.Reason)
	case <-time.After(time.Second):
		t.Fatal("attempt was not recorded")
	}
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, recorded, "timeout must submit exactly once")
}

func TestExamService_EvictIdle(t *testing.T) {
	svc, _ := newTestService(t, physicsPaper(), nil, nil)
	ctx := context.Background()

	snap, err := svc.StartSession(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.EvictIdle(time.Now()))
	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(2*time.Hour)))

	_, err = svc.GetSession(ctx, snap.ID)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestExamService_ListAttempts(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(t, physicsPaper(), nil, nil)
	attempts, err := svc.ListAttempts(ctx, "phy-2024", 0)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	_, err = svc.ListAttempts(ctx, "", 0)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = svc.ListAttempts(ctx, "phy-2024", 1000)
	require.ErrorAs(t, err, &verrs)

	repo := new(MockAttemptRepository)
	want := []*domain.Attempt{{ID: "a1", PaperID: "phy-2024"}}
	repo.On("ListAttemptsByPaper", mock.Anything, "phy-2024", 5).Return(want, nil)
	repo.On("ListAttemptsByPaper", mock.Anything, "broken", 0).Return(nil, errors.New("db"))
	svc, _ = newTestService(t, physicsPaper(), repo, nil)

	attempts, err = svc.ListAttempts(ctx, "phy-2024", 5)
	require.NoError(t, err)
	assert.Equal(t, want, attempts)

	_, err = svc.ListAttempts(ctx, "broken", 0)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
}

func TestExamService_Shutdown(t *testing.T) {
	papers := new(MockPaperSource)
	papers.On("Acquire", mock.Anything, mock.Anything).Return(physicsPaper())
	svc := NewExamService(papers, nil, nil, testExamConfig())
	svc.StartJanitor()

	snap, err := svc.StartSession(context.Background(), "")
	require.NoError(t, err)

	svc.Shutdown()
	_, err = svc.GetSession(context.Background(), snap.ID)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}
