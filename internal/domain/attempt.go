package domain

import (
	"context"
	"time"
)

// SubmitReason records how a session reached the results phase.
type SubmitReason string

const (
	SubmitManual  SubmitReason = "manual"
	SubmitTimeout SubmitReason = "timeout"
)

// Attempt is the persisted record of one submitted session.
type Attempt struct {
	ID          string
	SessionID   string
	PaperID     string
	Correct     int
	Wrong       int
	Skipped     int
	Answered    int
	Marks       float64
	TotalMarks  float64
	Reason      SubmitReason
	Answers     map[int]string // question index -> submitted value
	StartedAt   time.Time
	SubmittedAt time.Time
	CreatedAt   time.Time
}

// AttemptRepository stores submitted attempts.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *Attempt) error
	ListAttemptsByPaper(ctx context.Context, paperID string, limit int) ([]*Attempt, error)
}
