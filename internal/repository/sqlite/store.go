package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/garnizeh/rentals/internal/db"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

const (
	uninitialized int32 = iota
	operational
)

var errIncompatible = errors.New("incompatible existing table")

// Store is a single-table CRUD store for entity T. It starts uninitialized;
// EnsureSchema makes it operational and DropTable returns it to
// uninitialized.
type Store[T any] struct {
	conn   *db.DB
	schema Schema[T]
	logger *slog.Logger
	state  atomic.Int32
}

// NewStore binds schema to conn. The schema must name a known table and
// provide both mapping directions.
func NewStore[T any](conn *db.DB, schema Schema[T], logger *slog.Logger) (*Store[T], error) {
	if conn == nil {
		return nil, fmt.Errorf("new store: nil db")
	}
	if !schema.Table.Valid() {
		return nil, fmt.Errorf("new store: unknown table %q", schema.Table)
	}
	if schema.Encode == nil || schema.Decode == nil {
		return nil, fmt.Errorf("new store %s: missing row mapping", schema.Table)
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store[T]{conn: conn, schema: schema, logger: logger.With(slog.String("table", string(schema.Table)))}, nil
}

// Table returns the table the store is bound to.
func (s *Store[T]) Table() repository.Table {
	return s.schema.Table
}

// Ready reports whether EnsureSchema has run since creation or the last
// DropTable.
func (s *Store[T]) Ready() bool {
	return s.state.Load() == operational
}

func (s *Store[T]) EnsureSchema(ctx context.Context) error {
	const op = "ensure schema"
	err := s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := q.ExecContext(ctx, s.schema.DDL()); err != nil {
			return err
		}
		if err := s.verify(ctx, q); err != nil {
			return err
		}
		for _, stmt := range s.schema.IndexDDL() {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		s.state.Store(operational)
		return nil
	})
	if err != nil {
		return s.fail(op, repository.ErrSchema, err)
	}
	s.ok(op)
	return nil
}

// verify compares the live table definition with the schema.
func (s *Store[T]) verify(ctx context.Context, q db.Querier) error {
	rows, err := q.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?)`, string(s.schema.Table))
	if err != nil {
		return err
	}
	defer rows.Close()

	live := make(map[string]string)
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return err
		}
		live[name] = typ
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if _, ok := live["id"]; !ok {
		return fmt.Errorf("%w: column id is missing", errIncompatible)
	}
	for _, c := range s.schema.Columns {
		typ, ok := live[c.Name]
		if !ok {
			return fmt.Errorf("%w: column %s is missing", errIncompatible, c.Name)
		}
		if !strings.EqualFold(typ, string(c.Type)) {
			return fmt.Errorf("%w: column %s is %s, want %s", errIncompatible, c.Name, typ, c.Type)
		}
	}
	return nil
}

func (s *Store[T]) Insert(ctx context.Context, rec *T) (int64, error) {
	const op = "insert"
	if err := s.ready(op, repository.ErrWrite); err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, s.fail(op, repository.ErrWrite, errors.New("record is nil"))
	}
	vals, err := s.schema.values(s.schema.Encode(rec))
	if err != nil {
		return 0, s.fail(op, repository.ErrWrite, err)
	}

	var id int64
	err = s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		res, err := q.ExecContext(ctx, s.schema.insertSQL(), vals...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, s.fail(op, repository.ErrWrite, err)
	}
	s.ok(op, slog.Int64("id", id))
	return id, nil
}

func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	const op = "get all"
	if err := s.ready(op, repository.ErrRead); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", s.schema.selectList(), quote(string(s.schema.Table)))
	out, err := s.query(ctx, query)
	if err != nil {
		return nil, s.fail(op, repository.ErrRead, err)
	}
	s.ok(op, slog.Int("rows", len(out)))
	return out, nil
}

func (s *Store[T]) GetOne(ctx context.Context, id int64) (*T, error) {
	const op = "get one"
	if err := s.ready(op, repository.ErrRead); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", s.schema.selectList(), quote(string(s.schema.Table)))
	out, err := s.query(ctx, query, id)
	if err != nil {
		return nil, s.fail(op, repository.ErrRead, err)
	}
	s.ok(op, slog.Int64("id", id), slog.Bool("found", len(out) > 0))
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (s *Store[T]) GetByField(ctx context.Context, field string, value any) ([]T, error) {
	const op = "get by field"
	if err := s.ready(op, repository.ErrRead); err != nil {
		return nil, err
	}
	if _, ok := s.schema.column(field); !ok && field != repository.FieldID {
		return nil, s.fail(op, repository.ErrRead, fmt.Errorf("%w: %q", repository.ErrUnknownColumn, field))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY id", s.schema.selectList(), quote(string(s.schema.Table)), quote(field))
	out, err := s.query(ctx, query, normalize(value))
	if err != nil {
		return nil, s.fail(op, repository.ErrRead, err)
	}
	s.ok(op, slog.String("field", field), slog.Int("rows", len(out)))
	return out, nil
}

func (s *Store[T]) Update(ctx context.Context, id int64, rec *T) error {
	const op = "update"
	if err := s.ready(op, repository.ErrWrite); err != nil {
		return err
	}
	if rec == nil {
		return s.fail(op, repository.ErrWrite, errors.New("record is nil"))
	}
	vals, err := s.schema.values(s.schema.Encode(rec))
	if err != nil {
		return s.fail(op, repository.ErrWrite, err)
	}

	if err := s.execOne(ctx, s.schema.updateSQL(), append(vals, id)...); err != nil {
		return s.fail(op, repository.ErrWrite, err)
	}
	s.ok(op, slog.Int64("id", id))
	return nil
}

func (s *Store[T]) UpdateField(ctx context.Context, id int64, field string, value any) error {
	const op = "update field"
	if err := s.ready(op, repository.ErrWrite); err != nil {
		return err
	}
	c, ok := s.schema.column(field)
	if !ok {
		// id is not in the mutable column set, so it is refused here too
		return s.fail(op, repository.ErrWrite, fmt.Errorf("%w: %q", repository.ErrUnknownColumn, field))
	}
	value = normalize(value)
	if value == nil && c.NotNull {
		return s.fail(op, repository.ErrWrite, fmt.Errorf("%w: %s", repository.ErrRequiredField, field))
	}
	if err := checkValue(c, value); err != nil {
		return s.fail(op, repository.ErrWrite, err)
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", quote(string(s.schema.Table)), quote(field))
	if err := s.execOne(ctx, query, value, id); err != nil {
		return s.fail(op, repository.ErrWrite, err)
	}
	s.ok(op, slog.Int64("id", id), slog.String("field", field))
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	const op = "delete"
	if err := s.ready(op, repository.ErrWrite); err != nil {
		return err
	}

	err := s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		_, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", quote(string(s.schema.Table))), id)
		return err
	})
	if err != nil {
		return s.fail(op, repository.ErrWrite, err)
	}
	s.ok(op, slog.Int64("id", id))
	return nil
}

func (s *Store[T]) DeleteAll(ctx context.Context) error {
	const op = "delete all"
	if err := s.ready(op, repository.ErrWrite); err != nil {
		return err
	}

	var n int64
	err := s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		res, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quote(string(s.schema.Table))))
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return s.fail(op, repository.ErrWrite, err)
	}
	s.ok(op, slog.Int64("rows", n))
	return nil
}

func (s *Store[T]) DropTable(ctx context.Context) error {
	const op = "drop table"
	if err := s.ready(op, repository.ErrSchema); err != nil {
		return err
	}

	err := s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := q.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", quote(string(s.schema.Table)))); err != nil {
			return err
		}
		s.state.Store(uninitialized)
		return nil
	})
	if err != nil {
		return s.fail(op, repository.ErrSchema, err)
	}
	s.ok(op)
	return nil
}

// execOne runs a statement that must touch exactly the row it targets.
func (s *Store[T]) execOne(ctx context.Context, query string, args ...any) error {
	return s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (s *Store[T]) query(ctx context.Context, query string, args ...any) ([]T, error) {
	out := make([]T, 0)
	err := s.conn.Do(ctx, func(ctx context.Context, q db.Querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			row, err := s.scan(rows)
			if err != nil {
				return err
			}
			rec, err := s.schema.Decode(row)
			if err != nil {
				return fmt.Errorf("decode row %v: %w", row["id"], err)
			}
			out = append(out, *rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scan reads one row of selectList into a Row. NULL text reads as "" and
// NULL integers as 0.
func (s *Store[T]) scan(rows *sql.Rows) (Row, error) {
	var id sql.NullInt64
	dest := make([]any, 0, len(s.schema.Columns)+1)
	dest = append(dest, &id)
	for _, c := range s.schema.Columns {
		if c.Type == Integer {
			dest = append(dest, new(sql.NullInt64))
		} else {
			dest = append(dest, new(sql.NullString))
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := Row{"id": id.Int64}
	for i, c := range s.schema.Columns {
		switch v := dest[i+1].(type) {
		case *sql.NullInt64:
			row[c.Name] = v.Int64
		case *sql.NullString:
			row[c.Name] = v.String
		}
	}
	return row, nil
}

func (s *Store[T]) ready(op string, kind error) error {
	if s.state.Load() == operational {
		return nil
	}
	return s.fail(op, kind, repository.ErrNotReady)
}

func (s *Store[T]) fail(op string, kind, err error) error {
	s.logger.Error("store operation failed", slog.String("op", op), slog.Any("err", err))
	return &repository.StoreError{Op: op, Table: s.schema.Table, Kind: kind, Err: err}
}

func (s *Store[T]) ok(op string, attrs ...any) {
	s.logger.Debug("store operation succeeded", append([]any{slog.String("op", op)}, attrs...)...)
}

// normalize converts Go values to the representation stored on disk.
func normalize(v any) any {
	switch x := v.(type) {
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case models.FurnitureType:
		return string(x)
	}
	return v
}
