package mock

import (
	"context"
	"reflect"
	"slices"
	"sync"

	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Properties *Store[models.Property]
	Users      *Store[models.User]
}

func NewMocks() *Mocks {
	return &Mocks{
		Properties: NewStore[models.Property](repository.TableProperties),
		Users:      NewStore[models.User](repository.TableUsers),
	}
}

var _ repository.PropertyRepo = (*Store[models.Property])(nil)
var _ repository.UserRepo = (*Store[models.User])(nil)

// Store is an in-memory repository.Store. Records are matched against
// fields by their db struct tags. The *Err fields, when set, are returned
// by the matching operations instead of touching the data.
type Store[T any] struct {
	mu     sync.Mutex
	table  repository.Table
	rows   map[int64]T
	nextID int64

	SchemaErr error
	InsertErr error
	ReadErr   error
	WriteErr  error
}

func NewStore[T any](table repository.Table) *Store[T] {
	return &Store[T]{table: table, rows: make(map[int64]T)}
}

func (m *Store[T]) EnsureSchema(ctx context.Context) error {
	return m.SchemaErr
}

func (m *Store[T]) Insert(ctx context.Context, rec *T) (int64, error) {
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	if rec == nil {
		return 0, m.fail("insert", repository.ErrWrite, repository.ErrRequiredField)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	r := *rec
	setID(&r, m.nextID)
	m.rows[m.nextID] = r
	return m.nextID, nil
}

func (m *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sorted(func(T) bool { return true }), nil
}

func (m *Store[T]) GetOne(ctx context.Context, id int64) (*T, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Store[T]) GetByField(ctx context.Context, field string, value any) ([]T, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	var zero T
	if _, ok := fieldValue(&zero, field); !ok {
		return nil, m.fail("get by field", repository.ErrRead, repository.ErrUnknownColumn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	want := normalize(value)
	return m.sorted(func(r T) bool {
		v, _ := fieldValue(&r, field)
		return v == want
	}), nil
}

func (m *Store[T]) Update(ctx context.Context, id int64, rec *T) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return m.fail("update", repository.ErrWrite, repository.ErrNotFound)
	}
	r := *rec
	setID(&r, id)
	m.rows[id] = r
	return nil
}

func (m *Store[T]) UpdateField(ctx context.Context, id int64, field string, value any) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[id]
	if !ok {
		return m.fail("update field", repository.ErrWrite, repository.ErrNotFound)
	}
	if field == repository.FieldID {
		return m.fail("update field", repository.ErrWrite, repository.ErrUnknownColumn)
	}
	if err := setField(&r, field, value); err != nil {
		return m.fail("update field", repository.ErrWrite, err)
	}
	m.rows[id] = r
	return nil
}

func (m *Store[T]) Delete(ctx context.Context, id int64) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rows, id)
	return nil
}

func (m *Store[T]) DeleteAll(ctx context.Context) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.rows)
	return nil
}

func (m *Store[T]) DropTable(ctx context.Context) error {
	if m.SchemaErr != nil {
		return m.SchemaErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.rows)
	return nil
}

// Len returns the number of stored records.
func (m *Store[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *Store[T]) sorted(keep func(T) bool) []T {
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if r := m.rows[id]; keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Store[T]) fail(op string, kind, err error) error {
	return &repository.StoreError{Op: op, Table: m.table, Kind: kind, Err: err}
}

func fieldByTag(rec any, tag string) (reflect.Value, bool) {
	v := reflect.ValueOf(rec).Elem()
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).Tag.Get("db") == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func fieldValue(rec any, tag string) (any, bool) {
	f, ok := fieldByTag(rec, tag)
	if !ok {
		return nil, false
	}
	return normalize(f.Interface()), true
}

func setID(rec any, id int64) {
	if f, ok := fieldByTag(rec, repository.FieldID); ok {
		f.SetInt(id)
	}
}

func setField(rec any, tag string, value any) error {
	f, ok := fieldByTag(rec, tag)
	if !ok {
		return repository.ErrUnknownColumn
	}
	v := normalize(value)
	if v == nil {
		f.SetZero()
		return nil
	}
	switch f.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int64:
		n, ok := v.(int64)
		if !ok {
			return repository.ErrTypeMismatch
		}
		if f.Kind() == reflect.Bool {
			f.SetBool(n == 1)
		} else {
			f.SetInt(n)
		}
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return repository.ErrTypeMismatch
		}
		f.SetString(s)
	default:
		return repository.ErrUnknownColumn
	}
	return nil
}

// normalize maps values onto their stored form: integers and booleans to
// int64, string kinds to string.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return int64(1)
		}
		return int64(0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.String:
		return rv.String()
	}
	return v
}
