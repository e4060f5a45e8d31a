package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// Backup writes a consistent snapshot of the database to dst, which must
// not exist yet. It runs on the executor so no store operation interleaves.
func (db *DB) Backup(ctx context.Context, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("backup: %s already exists", dst)
	}
	err := db.Do(ctx, func(ctx context.Context, q Querier) error {
		_, err := q.ExecContext(ctx, `VACUUM INTO ?`, dst)
		return err
	})
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	db.logger.Info("database backed up", slog.String("dst", dst))
	return nil
}

// Restore replaces the database file at dst with src. The database must
// not be open. Stale WAL and shared-memory files of dst are removed.
func Restore(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer srcFile.Close()

	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dst + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("restore: %w", err)
		}
	}

	tmp := dst + ".restore"
	dstFile, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		os.Remove(tmp)
		return fmt.Errorf("restore: %w", err)
	}
	if err := dstFile.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("restore: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}
