package models

import (
	"database/sql"
	"time"
)

// ExamPaper is a row of EXAM_PAPERS.
type ExamPaper struct {
	ID              string        `db:"ID"`
	Subject         string        `db:"SUBJECT"`
	ExamName        string        `db:"EXAM_NAME"`
	Year            string        `db:"YEAR"`
	DurationMinutes sql.NullInt64 `db:"DURATION_MINUTES"`
	Questions       JSONColumn    `db:"QUESTIONS"`      // []domain.Question
	AnswerKey       JSONColumn    `db:"ANSWER_KEY"`     // domain.AnswerKey
	MarkingScheme   JSONColumn    `db:"MARKING_SCHEME"` // *domain.MarkingScheme
	CreatedAt       time.Time     `db:"CREATED_AT"`
}

// ExamAttempt is a row of EXAM_ATTEMPTS.
type ExamAttempt struct {
	ID          string    `db:"ID"`
	SessionID   string    `db:"SESSION_ID"`
	PaperID     string    `db:"PAPER_ID"`
	Correct     int       `db:"CORRECT_COUNT"`
	Wrong       int       `db:"WRONG_COUNT"`
	Skipped     int       `db:"SKIPPED_COUNT"`
	Answered    int       `db:"ANSWERED_COUNT"`
	Marks       float64   `db:"MARKS"`
	TotalMarks  float64   `db:"TOTAL_MARKS"`
	Reason      string    `db:"SUBMIT_REASON"`
	StartedAt   time.Time `db:"STARTED_AT"`
	SubmittedAt time.Time `db:"SUBMITTED_AT"`
	CreatedAt   time.Time `db:"CREATED_AT"`
}

// ExamAttemptAnswer is a row of EXAM_ATTEMPT_ANSWERS.
type ExamAttemptAnswer struct {
	AttemptID     string `db:"ATTEMPT_ID"`
	QuestionIndex int    `db:"QUESTION_INDEX"`
	Value         string `db:"ANSWER_VALUE"`
}
