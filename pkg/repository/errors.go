package repository

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by a store matches exactly one of
// them with errors.Is.
var (
	ErrSchema = errors.New("schema error")
	ErrWrite  = errors.New("write error")
	ErrRead   = errors.New("read error")
)

// Causes carried inside a StoreError.
var (
	ErrNotFound      = errors.New("no row matches id")
	ErrNotReady      = errors.New("schema not ensured")
	ErrUnknownColumn = errors.New("unknown column")
	ErrRequiredField = errors.New("required field is empty")
	ErrTypeMismatch  = errors.New("value does not match column type")
)

// StoreError describes a failed store operation.
type StoreError struct {
	Op    string
	Table Table
	Kind  error
	Err   error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// KindOf returns "schema", "write" or "read" for store failures and "" for
// anything else.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrWrite):
		return "write"
	case errors.Is(err, ErrRead):
		return "read"
	}
	return ""
}
