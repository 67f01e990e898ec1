package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	sessionTable = "session_analytics"
	alertTable   = "risk_alerts"
	llmTable     = "llm_requests"
)

// migration is one forward-only schema step. Steps must be idempotent so
// that databases created by older releases, which carry tables but no
// schema_version row, can replay them safely.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{1, "create base tables", createBaseTables},
	{2, "add session transcript", addColumn(sessionTable, "transcript", "TEXT DEFAULT ''")},
	{3, "add session mood score", addColumn(sessionTable, "mood_score", "REAL DEFAULT 0.0")},
	{4, "add session message count", addColumn(sessionTable, "message_count", "INTEGER DEFAULT 0")},
	{5, "index by user and time", createIndexes},
	{6, "create llm request log", createLLMRequests},
}

// SchemaVersion is the version a fully migrated database reports.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (id, version) VALUES (1, 0)`); err != nil {
		return fmt.Errorf("seed schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx,
		`SELECT version FROM schema_version WHERE id = 1`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.up(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE schema_version SET version = ? WHERE id = 1`, m.version); err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	return tx.Commit()
}

func createBaseTables(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_analytics (
			session_id    TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			emotion       TEXT,
			confidence    REAL,
			themes        TEXT,
			risk_flag     INTEGER DEFAULT 0,
			mood_score    REAL DEFAULT 0.0,
			message_count INTEGER DEFAULT 0,
			transcript    TEXT DEFAULT '',
			timestamp     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS risk_alerts (
			id         TEXT PRIMARY KEY,
			session_id TEXT,
			user_id    TEXT NOT NULL,
			categories TEXT,
			severity   TEXT,
			timestamp  TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// addColumn adds column to table unless PRAGMA table_info already lists it.
func addColumn(table, column, decl string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		exists, err := columnExists(ctx, tx, table, column)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
		return err
	}
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func createIndexes(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_session_analytics_user_ts ON session_analytics (user_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_alerts_user_ts ON risk_alerts (user_id, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func createLLMRequests(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     TEXT NOT NULL,
		provider      TEXT NOT NULL DEFAULT '',
		model         TEXT NOT NULL DEFAULT '',
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`)
	return err
}
