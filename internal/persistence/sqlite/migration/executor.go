package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Executor applies migrations and maintains the schema_migrations table.
type Executor struct {
	db  *sql.DB
	now func() time.Time
}

// NewExecutor returns an executor bound to db.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db, now: time.Now}
}

// InitializeVersionTable creates schema_migrations if it does not exist.
func (e *Executor) InitializeVersionTable(ctx context.Context) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			checksum TEXT NOT NULL DEFAULT '',
			execution_time_ms INTEGER NOT NULL DEFAULT 0
		)
	`
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return newDatabaseError("", "create schema_migrations table", err)
	}
	return nil
}

// Apply runs one migration and records it in the same transaction, so a
// failing file leaves neither schema changes nor a version row behind.
func (e *Executor) Apply(ctx context.Context, m Migration) (time.Duration, error) {
	started := e.now()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newDatabaseError(m.Version, "begin transaction", err)
	}

	// The whole file is sent at once; the driver runs multi-statement bodies,
	// which keeps trigger bodies with inner semicolons intact.
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return 0, newDatabaseError(m.Version, "execute migration", err)
	}

	elapsed := e.now().Sub(started)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at, checksum, execution_time_ms) VALUES (?, ?, ?, ?)`,
		m.Version, e.now().UTC().Format(time.RFC3339), m.Checksum, elapsed.Milliseconds(),
	); err != nil {
		_ = tx.Rollback()
		return 0, newDatabaseError(m.Version, "record migration", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, newDatabaseError(m.Version, "commit transaction", err)
	}
	return elapsed, nil
}

// Applied returns the recorded migrations ordered by version.
func (e *Executor) Applied(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT version, applied_at, checksum, execution_time_ms
		FROM schema_migrations
		ORDER BY CAST(version AS INTEGER) ASC
	`)
	if err != nil {
		return nil, newDatabaseError("", "query applied versions", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			am        AppliedMigration
			appliedAt string
			elapsedMs int64
		)
		if err := rows.Scan(&am.Version, &appliedAt, &am.Checksum, &elapsedMs); err != nil {
			return nil, newDatabaseError("", "scan applied migration", err)
		}
		if am.AppliedAt, err = time.Parse(time.RFC3339, appliedAt); err != nil {
			return nil, newDatabaseError(am.Version, "parse applied_at", fmt.Errorf("%q: %w", appliedAt, err))
		}
		am.ExecutionTime = time.Duration(elapsedMs) * time.Millisecond
		applied = append(applied, am)
	}
	if err := rows.Err(); err != nil {
		return nil, newDatabaseError("", "iterate applied migrations", err)
	}
	return applied, nil
}

// IsApplied reports whether version has been recorded.
func (e *Executor) IsApplied(ctx context.Context, version string) (bool, error) {
	var one int
	err := e.db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ?`, version).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, newDatabaseError(version, "check version applied", err)
	}
	return true, nil
}
