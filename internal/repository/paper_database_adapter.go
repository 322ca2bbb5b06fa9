package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"exam-byte/internal/domain"
	"exam-byte/internal/repository/models"
	"exam-byte/internal/util"

	"github.com/jmoiron/sqlx"
)

const paperColumns = `ID, SUBJECT, EXAM_NAME, YEAR, DURATION_MINUTES, QUESTIONS, ANSWER_KEY, MARKING_SCHEME, CREATED_AT`

// PaperDatabaseAdapter serves papers from the EXAM_PAPERS table.
type PaperDatabaseAdapter struct {
	db *sqlx.DB
}

// NewPaperDatabaseAdapter creates a new paper adapter
func NewPaperDatabaseAdapter(db *sqlx.DB) *PaperDatabaseAdapter {
	return &PaperDatabaseAdapter{db: db}
}

// FetchPaper returns the paper with the given id, or the most recently stored
// paper when id is empty. A missing paper is (nil, nil).
func (a *PaperDatabaseAdapter) FetchPaper(ctx context.Context, id string) (*domain.Paper, error) {
	var (
		row   models.ExamPaper
		query string
		args  []interface{}
	)
	if id == "" {
		query = `SELECT ` + paperColumns + ` FROM EXAM_PAPERS ORDER BY CREATED_AT DESC FETCH FIRST 1 ROWS ONLY`
	} else {
		query = `SELECT ` + paperColumns + ` FROM EXAM_PAPERS WHERE ID = :1`
		args = append(args, id)
	}

	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch paper %q: %w", id, err)
	}
	return toDomainPaper(&row)
}

// SavePaper inserts the paper or replaces the stored one with the same id.
func (a *PaperDatabaseAdapter) SavePaper(ctx context.Context, p *domain.Paper) error {
	if p == nil || p.ID == "" {
		return domain.NewInvalidInputError("paper id is required")
	}
	row, err := toModelPaper(p)
	if err != nil {
		return err
	}
	row.CreatedAt = time.Now()

	query := `MERGE INTO EXAM_PAPERS t
		USING (SELECT :1 AS ID FROM DUAL) s
		ON (t.ID = s.ID)
		WHEN MATCHED THEN UPDATE SET
			SUBJECT = :2, EXAM_NAME = :3, YEAR = :4, DURATION_MINUTES = :5,
			QUESTIONS = :6, ANSWER_KEY = :7, MARKING_SCHEME = :8
		WHEN NOT MATCHED THEN INSERT (` + paperColumns + `)
			VALUES (:9, :10, :11, :12, :13, :14, :15, :16, :17)`

	_, err = GetExecutor(ctx, a.db).ExecContext(ctx, query,
		row.ID,
		row.Subject, row.ExamName, row.Year, row.DurationMinutes,
		row.Questions, row.AnswerKey, row.MarkingScheme,
		row.ID, row.Subject, row.ExamName, row.Year, row.DurationMinutes,
		row.Questions, row.AnswerKey, row.MarkingScheme, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save paper %q: %w", p.ID, err)
	}
	return nil
}

func toDomainPaper(m *models.ExamPaper) (*domain.Paper, error) {
	p := &domain.Paper{
		ID:       m.ID,
		Subject:  m.Subject,
		ExamName: m.ExamName,
		Year:     domain.FlexString(m.Year),
	}
	if m.DurationMinutes.Valid {
		p.Duration = int(m.DurationMinutes.Int64)
	}
	if err := m.Questions.Decode(&p.Questions); err != nil {
		return nil, fmt.Errorf("paper %q: questions: %w", m.ID, err)
	}
	if err := m.AnswerKey.Decode(&p.AnswerKey); err != nil {
		return nil, fmt.Errorf("paper %q: answer key: %w", m.ID, err)
	}
	if err := m.MarkingScheme.Decode(&p.MarkingScheme); err != nil {
		return nil, fmt.Errorf("paper %q: marking scheme: %w", m.ID, err)
	}
	return p, nil
}

func toModelPaper(p *domain.Paper) (*models.ExamPaper, error) {
	questions, err := models.NewJSONColumn(p.Questions)
	if err != nil {
		return nil, fmt.Errorf("paper %q: questions: %w", p.ID, err)
	}
	m := &models.ExamPaper{
		ID:              p.ID,
		Subject:         p.Subject,
		ExamName:        p.ExamName,
		Year:            string(p.Year),
		DurationMinutes: util.PositiveIntToNullInt64(p.Duration),
		Questions:       questions,
	}
	if len(p.AnswerKey) > 0 {
		if m.AnswerKey, err = models.NewJSONColumn(p.AnswerKey); err != nil {
			return nil, fmt.Errorf("paper %q: answer key: %w", p.ID, err)
		}
	}
	if p.MarkingScheme != nil {
		if m.MarkingScheme, err = models.NewJSONColumn(p.MarkingScheme); err != nil {
			return nil, fmt.Errorf("paper %q: marking scheme: %w", p.ID, err)
		}
	}
	return m, nil
}
