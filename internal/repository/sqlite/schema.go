package sqlite

import (
	"fmt"
	"strings"

	"github.com/garnizeh/rentals/pkg/repository"
)

// ColumnType is the declared SQLite type of a column.
type ColumnType string

const (
	Integer ColumnType = "INTEGER"
	Text    ColumnType = "TEXT"
)

// Column describes one mutable column of a table. The id primary key is
// implicit in every schema.
type Column struct {
	Name    string
	Type    ColumnType
	NotNull bool
	Default string
	Indexed bool
}

// Row holds one row keyed by column name: int64 for INTEGER columns and
// string for TEXT columns. Rows read from disk also carry "id".
type Row map[string]any

// Schema binds an entity type to a table and the explicit mapping between
// its fields and the table columns.
type Schema[T any] struct {
	Table   repository.Table
	Columns []Column
	Encode  func(rec *T) Row
	Decode  func(row Row) (*T, error)
}

func (s *Schema[T]) column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (s *Schema[T]) names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// DDL returns the CREATE TABLE statement of the schema.
func (s *Schema[T]) DDL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quote(string(s.Table)))
	b.WriteString("\tid INTEGER PRIMARY KEY NOT NULL")
	for _, c := range s.Columns {
		fmt.Fprintf(&b, ",\n\t%s %s", c.Name, c.Type)
		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
		if c.Default != "" {
			b.WriteString(" DEFAULT " + c.Default)
		}
	}
	b.WriteString("\n);")
	return b.String()
}

// IndexDDL returns one CREATE INDEX statement per indexed column.
func (s *Schema[T]) IndexDDL() []string {
	var out []string
	for _, c := range s.Columns {
		if !c.Indexed {
			continue
		}
		name := fmt.Sprintf("idx_%s_%s", s.Table, c.Name)
		out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s);", name, quote(string(s.Table)), c.Name))
	}
	return out
}

func (s *Schema[T]) selectList() string {
	return "id, " + strings.Join(s.names(), ", ")
}

func (s *Schema[T]) insertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(s.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(string(s.Table)), strings.Join(s.names(), ", "), marks)
}

func (s *Schema[T]) updateSQL() string {
	sets := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		sets[i] = c.Name + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", quote(string(s.Table)), strings.Join(sets, ", "))
}

// values returns the encoded row in column order, with optional columns
// defaulted to their zero value.
func (s *Schema[T]) values(row Row) ([]any, error) {
	out := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		v, ok := row[c.Name]
		if !ok || v == nil {
			if c.NotNull {
				return nil, fmt.Errorf("%w: %s", repository.ErrRequiredField, c.Name)
			}
			v = zero(c.Type)
		}
		if err := checkValue(c, v); err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// checkValue rejects values SQLite would store under a different type than
// the declared one; nil is left to the callers.
func checkValue(c Column, v any) error {
	switch c.Type {
	case Integer:
		if _, ok := v.(int64); !ok && v != nil {
			return fmt.Errorf("%w: %s wants INTEGER, got %T", repository.ErrTypeMismatch, c.Name, v)
		}
	case Text:
		s, ok := v.(string)
		if !ok && v != nil {
			return fmt.Errorf("%w: %s wants TEXT, got %T", repository.ErrTypeMismatch, c.Name, v)
		}
		if ok && c.NotNull && s == "" {
			return fmt.Errorf("%w: %s", repository.ErrRequiredField, c.Name)
		}
	}
	return nil
}

func zero(t ColumnType) any {
	if t == Integer {
		return int64(0)
	}
	return ""
}

// quote returns name as a double-quoted SQL identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
