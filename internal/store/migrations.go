package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id           TEXT PRIMARY KEY,
			taken_at     TEXT NOT NULL,
			command      TEXT NOT NULL,
			version      TEXT NOT NULL,
			input_file   TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS snapshot_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  TEXT NOT NULL REFERENCES snapshots(id),
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			defined      BOOLEAN NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS attempt_stats (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id          TEXT NOT NULL REFERENCES snapshots(id),
			attempt              INTEGER NOT NULL,
			total_calls          INTEGER NOT NULL,
			picked_up            INTEGER NOT NULL,
			goal_met             INTEGER NOT NULL,
			negative_sentiment   INTEGER NOT NULL,
			pickup_rate          REAL NOT NULL,
			goal_success         REAL NOT NULL,
			goal_success_defined BOOLEAN NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_snapshot_metrics_snapshot ON snapshot_metrics(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_metrics_name ON snapshot_metrics(metric_name)`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_stats_snapshot ON attempt_stats(snapshot_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
