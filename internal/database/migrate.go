package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"exam-byte/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Execer is the subset of *sql.DB the migrator needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunMigrations applies every embedded up migration newer than the version
// recorded in SCHEMA_MIGRATIONS. It returns the version the schema ends at.
func RunMigrations(ctx context.Context, db Execer) (uint, error) {
	return runMigrations(ctx, db, migrationsFS, "migrations")
}

func runMigrations(ctx context.Context, db Execer, fsys fs.FS, dir string) (uint, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("could not open migrations: %w", err)
	}
	defer src.Close()

	if err := ensureVersionTable(ctx, db); err != nil {
		return 0, err
	}
	current, err := currentVersion(ctx, db)
	if err != nil {
		return 0, err
	}

	version, err := src.First()
	for err == nil {
		if version > current {
			if applyErr := applyMigration(ctx, db, src, version); applyErr != nil {
				return current, applyErr
			}
			current = version
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return current, fmt.Errorf("could not list migrations: %w", err)
	}

	logger.Get().Info("Migrations completed successfully", zap.Uint("version", current))
	return current, nil
}

func ensureVersionTable(ctx context.Context, db Execer) error {
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM USER_TABLES WHERE TABLE_NAME = 'SCHEMA_MIGRATIONS'`).Scan(&n); err != nil {
		return fmt.Errorf("could not check migrations table: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE SCHEMA_MIGRATIONS (VERSION NUMBER(19) PRIMARY KEY, APPLIED_AT TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL)`); err != nil {
		return fmt.Errorf("could not create migrations table: %w", err)
	}
	return nil
}

func currentVersion(ctx context.Context, db Execer) (uint, error) {
	var v int64
	if err := db.QueryRowContext(ctx, `SELECT NVL(MAX(VERSION), 0) FROM SCHEMA_MIGRATIONS`).Scan(&v); err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}
	return uint(v), nil
}

func applyMigration(ctx context.Context, db Execer, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	for _, stmt := range SplitStatements(string(body)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %d_%s: %w", version, name, err)
		}
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO SCHEMA_MIGRATIONS (VERSION) VALUES (:1)`, int64(version)); err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", name))
	return nil
}

// SplitStatements breaks a migration body into statements. Oracle rejects
// a trailing semicolon, so terminators are stripped.
func SplitStatements(body string) []string {
	var stmts []string
	for _, part := range strings.Split(body, ";") {
		lines := make([]string, 0)
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
