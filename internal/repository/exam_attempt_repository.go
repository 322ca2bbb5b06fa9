package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"exam-byte/internal/domain"
	"exam-byte/internal/repository/models"
	"exam-byte/internal/util"

	"github.com/jmoiron/sqlx"
)

const DefaultAttemptListLimit = 20

// Transactor runs fn inside a transaction carried by the context.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlxExamAttemptRepository struct {
	db *sqlx.DB
	tx Transactor
}

// NewSQLXExamAttemptRepository creates an attempt repository backed by sqlx.
func NewSQLXExamAttemptRepository(db *sqlx.DB, tx Transactor) domain.AttemptRepository {
	return &sqlxExamAttemptRepository{db: db, tx: tx}
}

// CreateAttempt writes the attempt row and one row per answered question in a
// single transaction. ID and CreatedAt are filled in when empty.
func (r *sqlxExamAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	if attempt == nil {
		return domain.NewInvalidInputError("attempt is required")
	}
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	row := fromDomainAttempt(attempt)

	return r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)
		query := `INSERT INTO EXAM_ATTEMPTS (ID, SESSION_ID, PAPER_ID, CORRECT_COUNT, WRONG_COUNT, SKIPPED_COUNT,
			ANSWERED_COUNT, MARKS, TOTAL_MARKS, SUBMIT_REASON, STARTED_AT, SUBMITTED_AT, CREATED_AT)
			VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13)`
		if _, err := exec.ExecContext(ctx, query,
			row.ID, row.SessionID, row.PaperID, row.Correct, row.Wrong, row.Skipped,
			row.Answered, row.Marks, row.TotalMarks, row.Reason, row.StartedAt, row.SubmittedAt, row.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert attempt: %w", err)
		}

		answerQuery := `INSERT INTO EXAM_ATTEMPT_ANSWERS (ATTEMPT_ID, QUESTION_INDEX, ANSWER_VALUE) VALUES (:1, :2, :3)`
		for _, a := range answerRows(attempt) {
			if _, err := exec.ExecContext(ctx, answerQuery, a.AttemptID, a.QuestionIndex, a.Value); err != nil {
				return fmt.Errorf("failed to insert answer for question %d: %w", a.QuestionIndex, err)
			}
		}
		return nil
	})
}

// ListAttemptsByPaper returns the newest attempts for a paper without their answers.
func (r *sqlxExamAttemptRepository) ListAttemptsByPaper(ctx context.Context, paperID string, limit int) ([]*domain.Attempt, error) {
	if limit <= 0 {
		limit = DefaultAttemptListLimit
	}
	query := `SELECT ID, SESSION_ID, PAPER_ID, CORRECT_COUNT, WRONG_COUNT, SKIPPED_COUNT, ANSWERED_COUNT,
		MARKS, TOTAL_MARKS, SUBMIT_REASON, STARTED_AT, SUBMITTED_AT, CREATED_AT
		FROM EXAM_ATTEMPTS WHERE PAPER_ID = :1 ORDER BY SUBMITTED_AT DESC FETCH FIRST :2 ROWS ONLY`

	var rows []models.ExamAttempt
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, paperID, limit); err != nil {
		return nil, fmt.Errorf("failed to list attempts for paper %q: %w", paperID, err)
	}

	attempts := make([]*domain.Attempt, 0, len(rows))
	for i := range rows {
		attempts = append(attempts, toDomainAttempt(&rows[i]))
	}
	return attempts, nil
}

// answerRows skips blank values and orders rows by question index.
func answerRows(a *domain.Attempt) []models.ExamAttemptAnswer {
	rows := make([]models.ExamAttemptAnswer, 0, len(a.Answers))
	for idx, v := range a.Answers {
		if v == "" {
			continue
		}
		rows = append(rows, models.ExamAttemptAnswer{AttemptID: a.ID, QuestionIndex: idx, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].QuestionIndex < rows[j].QuestionIndex })
	return rows
}

func fromDomainAttempt(a *domain.Attempt) *models.ExamAttempt {
	return &models.ExamAttempt{
		ID:          a.ID,
		SessionID:   a.SessionID,
		PaperID:     a.PaperID,
		Correct:     a.Correct,
		Wrong:       a.Wrong,
		Skipped:     a.Skipped,
		Answered:    a.Answered,
		Marks:       a.Marks,
		TotalMarks:  a.TotalMarks,
		Reason:      string(a.Reason),
		StartedAt:   a.StartedAt,
		SubmittedAt: a.SubmittedAt,
		CreatedAt:   a.CreatedAt,
	}
}

func toDomainAttempt(m *models.ExamAttempt) *domain.Attempt {
	if m == nil {
		return nil
	}
	return &domain.Attempt{
		ID:          m.ID,
		SessionID:   m.SessionID,
		PaperID:     m.PaperID,
		Correct:     m.Correct,
		Wrong:       m.Wrong,
		Skipped:     m.Skipped,
		Answered:    m.Answered,
		Marks:       m.Marks,
		TotalMarks:  m.TotalMarks,
		Reason:      domain.SubmitReason(m.Reason),
		StartedAt:   m.StartedAt,
		SubmittedAt: m.SubmittedAt,
		CreatedAt:   m.CreatedAt,
	}
}
