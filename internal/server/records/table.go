package records

import (
	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

// readColumn binds one storage column to a field of the canonical record T.
// assign receives the raw value (nil when the column is missing or NULL).
type readColumn[T any] struct {
	column   string
	required bool
	assign   func(rec *T, v any) error
}

func mapRow[T any](entity string, row models.RawRow, table []readColumn[T]) (*T, error) {
	var rec T
	for _, c := range table {
		v := row[c.column]
		if c.required && v == nil {
			return nil, &ValidationError{Entity: entity, Column: c.column, Row: row, Err: errMissing}
		}
		if err := c.assign(&rec, v); err != nil {
			return nil, &ValidationError{Entity: entity, Column: c.column, Row: row, Err: err}
		}
	}
	return &rec, nil
}

func mapRows[T any](rows []models.RawRow, mapOne func(models.RawRow) (*T, error)) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		rec, err := mapOne(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// requiredText assigns a non-blank string; blank text fails the row.
func requiredText(set func(string)) func(any) error {
	return func(v any) error {
		s, err := toOptionalString(v)
		if err != nil {
			return err
		}
		if s == nil {
			return errMissing
		}
		set(*s)
		return nil
	}
}

// ptrValue unwraps p for use as a statement argument; nil stays an untyped nil.
func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// WriteColumn binds one storage column to the value a write carries for it.
type WriteColumn[T any] struct {
	Name   string
	Policy MergePolicy
	Value  func(rec *T) any
}

// MergePolicy decides what an upsert does with a column on conflict.
type MergePolicy int

const (
	// Overwrite always stores the incoming value.
	Overwrite MergePolicy = iota
	// KeepIfAbsent stores the incoming value only when it is present and
	// keeps the stored value otherwise.
	KeepIfAbsent
	// Key identifies the row and is never reassigned.
	Key
)

func columnNames[T any](table []WriteColumn[T]) []string {
	names := make([]string, len(table))
	for i, c := range table {
		names[i] = c.Name
	}
	return names
}

// assignments turns the non-key columns of rec into SET pairs. A column is
// bound only when rec carries a value for it (non-nil, non-empty text).
func assignments[T any](table []WriteColumn[T], rec *T) []dbx.Assignment {
	out := make([]dbx.Assignment, 0, len(table))
	for _, c := range table {
		if c.Policy == Key {
			continue
		}
		v := c.Value(rec)
		out = append(out, dbx.SetIf(c.Name, v, v != nil && v != ""))
	}
	return out
}

func columnArgs[T any](table []WriteColumn[T], rec *T) []any {
	args := make([]any, len(table))
	for i, c := range table {
		args[i] = c.Value(rec)
	}
	return args
}
