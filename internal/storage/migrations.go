package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					icon TEXT,
					visible INTEGER NOT NULL DEFAULT 1,
					position INTEGER NOT NULL DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS subcategories (
					id TEXT PRIMARY KEY,
					category_id TEXT NOT NULL,
					name TEXT NOT NULL,
					visible INTEGER NOT NULL DEFAULT 1,
					position INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_subcategories_category ON subcategories(category_id)`,

				`CREATE TABLE IF NOT EXISTS houses (
					id TEXT PRIMARY KEY,
					code TEXT NOT NULL,
					name TEXT NOT NULL,
					city TEXT,
					country TEXT,
					visible INTEGER NOT NULL DEFAULT 1,
					position INTEGER NOT NULL DEFAULT 0,
					version INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS rooms (
					id TEXT NOT NULL,
					house_id TEXT NOT NULL,
					code TEXT,
					name TEXT NOT NULL,
					floor INTEGER NOT NULL DEFAULT 0,
					visible INTEGER NOT NULL DEFAULT 1,
					is_deleted INTEGER NOT NULL DEFAULT 0,
					version INTEGER NOT NULL DEFAULT 1,
					PRIMARY KEY (house_id, id),
					FOREIGN KEY (house_id) REFERENCES houses(id)
				)`,

				`CREATE TABLE IF NOT EXISTS items (
					id TEXT PRIMARY KEY,
					kind TEXT NOT NULL,
					title TEXT NOT NULL,
					description TEXT,
					notes TEXT,
					quantity INTEGER NOT NULL DEFAULT 1,
					year TEXT,
					creator TEXT,
					category_id TEXT,
					subcategory_id TEXT,
					house_id TEXT,
					room_id TEXT,
					condition TEXT,
					valuation REAL,
					currency TEXT,
					attrs TEXT,
					deleted INTEGER NOT NULL DEFAULT 0,
					version INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_items_category ON items(category_id)`,
				`CREATE INDEX idx_items_house_room ON items(house_id, room_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add snapshot history for items and houses",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS item_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					item_id TEXT NOT NULL,
					version INTEGER NOT NULL,
					snapshot TEXT NOT NULL,
					recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (item_id) REFERENCES items(id)
				)`,
				`CREATE INDEX idx_item_history_item ON item_history(item_id)`,

				`CREATE TABLE IF NOT EXISTS house_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					house_id TEXT NOT NULL,
					version INTEGER NOT NULL,
					snapshot TEXT NOT NULL,
					recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (house_id) REFERENCES houses(id)
				)`,
				`CREATE INDEX idx_house_history_house ON house_history(house_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add explicit location sort override and import hash",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE items ADD COLUMN location_sort INTEGER`,
				`ALTER TABLE items ADD COLUMN hash TEXT`,
				`CREATE INDEX IF NOT EXISTS idx_items_hash ON items(hash)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.Version, m.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
