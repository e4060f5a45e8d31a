package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies the forward-only migrations found under "migrations/" in
// migrationFS. It creates a `schema_migrations` table to track applied
// migrations and applies, in file name order, every SQL file that has not
// yet been recorded. The whole run is one unit of work on the executor;
// each file and its schema_migrations row commit in their own transaction,
// so a failing file leaves the earlier ones applied and itself unrecorded.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS) error {
	return d.Do(ctx, func(ctx context.Context, _ Querier) error {
		return migrate(ctx, d.conn, migrationFS)
	})
}

func migrate(ctx context.Context, q *sql.DB, migrationFS fs.FS) error {
	if _, err := q.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// file name without extension is the version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join(migDir, fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if err := applyMigration(ctx, q, version, string(b)); err != nil {
			return fmt.Errorf("migration %s: %w", fname, err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, conn *sql.DB, version, body string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}
