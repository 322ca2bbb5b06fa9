package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"exam-byte/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for repository testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var paperRowColumns = []string{"ID", "SUBJECT", "EXAM_NAME", "YEAR", "DURATION_MINUTES", "QUESTIONS", "ANSWER_KEY", "MARKING_SCHEME", "CREATED_AT"}

func TestPaperDatabaseAdapter_FetchPaper_ByID(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	rows := sqlmock.NewRows(paperRowColumns).AddRow(
		"jee-2024", "Physics", "JEE Main", "2024", int64(90),
		`[{"number":1,"text":"Q1","options":{"A":"a","B":"b"},"section":"Physics"}]`,
		`{"1":"B"}`,
		`{"correct":4,"wrong":1,"skipped":0,"total":4}`,
		time.Now(),
	)
	mock.ExpectQuery(`SELECT .* FROM EXAM_PAPERS WHERE ID = :1`).
		WithArgs("jee-2024").
		WillReturnRows(rows)

	p, err := adapter.FetchPaper(context.Background(), "jee-2024")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "jee-2024", p.ID)
	assert.Equal(t, domain.FlexString("2024"), p.Year)
	assert.Equal(t, 90, p.Duration)
	require.Len(t, p.Questions, 1)
	assert.Equal(t, "Physics", p.Questions[0].Section)
	assert.Equal(t, "B", p.AnswerKey["1"])
	require.NotNil(t, p.MarkingScheme)
	assert.Equal(t, 4.0, p.MarkingScheme.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaperDatabaseAdapter_FetchPaper_LatestWithNullColumns(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	rows := sqlmock.NewRows(paperRowColumns).AddRow(
		"latest", "Chemistry", "NEET", "", nil, `[]`, nil, nil, time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY CREATED_AT DESC FETCH FIRST 1 ROWS ONLY`)).
		WillReturnRows(rows)

	p, err := adapter.FetchPaper(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "latest", p.ID)
	assert.Zero(t, p.Duration)
	assert.Nil(t, p.AnswerKey)
	assert.Nil(t, p.MarkingScheme)
	assert.False(t, p.HasQuestions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaperDatabaseAdapter_FetchPaper_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT .* FROM EXAM_PAPERS WHERE ID = :1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := adapter.FetchPaper(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaperDatabaseAdapter_FetchPaper_DBError(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT .* FROM EXAM_PAPERS`).
		WillReturnError(errors.New("ORA-12541: no listener"))

	p, err := adapter.FetchPaper(context.Background(), "x")
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "no listener")
}

func TestPaperDatabaseAdapter_FetchPaper_CorruptQuestions(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	rows := sqlmock.NewRows(paperRowColumns).AddRow(
		"bad", "", "", "", nil, `{not json`, nil, nil, time.Now(),
	)
	mock.ExpectQuery(`SELECT .* FROM EXAM_PAPERS WHERE ID = :1`).WillReturnRows(rows)

	p, err := adapter.FetchPaper(context.Background(), "bad")
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPaperDatabaseAdapter_SavePaper(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	paper := &domain.Paper{
		ID:        "p1",
		Subject:   "Maths",
		Year:      "2023",
		Duration:  60,
		Questions: []domain.Question{{Number: 1, Text: "2+2?", IsNumerical: true}},
		AnswerKey: domain.AnswerKey{"1": "4"},
	}

	mock.ExpectExec(`MERGE INTO EXAM_PAPERS`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.SavePaper(context.Background(), paper))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaperDatabaseAdapter_SavePaper_RequiresID(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()
	adapter := NewPaperDatabaseAdapter(db)

	err := adapter.SavePaper(context.Background(), &domain.Paper{})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
}

func TestPaperModelRoundTrip(t *testing.T) {
	in := &domain.Paper{
		ID:            "rt",
		Subject:       "Physics",
		Year:          "2025",
		Duration:      0,
		Questions:     []domain.Question{{Number: 3, Options: map[string]string{"A": "x"}}},
		MarkingScheme: &domain.MarkingScheme{Correct: 3, Wrong: 1, Total: 3},
	}
	m, err := toModelPaper(in)
	require.NoError(t, err)
	assert.False(t, m.DurationMinutes.Valid)
	assert.Nil(t, m.AnswerKey)

	out, err := toDomainPaper(m)
	require.NoError(t, err)
	assert.Equal(t, in.Questions, out.Questions)
	assert.Equal(t, in.MarkingScheme, out.MarkingScheme)
	assert.Equal(t, 180*60, out.DurationSeconds())
}
