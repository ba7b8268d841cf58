// Package records maps raw storage rows to canonical application records and
// canonical records back to storage write arguments. Every entity has two
// explicit column tables, one per direction; column names are never derived
// from field names.
package records

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
)

// Entity names carried by ValidationError.
const (
	EntityProfile = "profile"
	EntityMeal    = "meal"
	EntityWeight  = "weight_history"
)

var (
	errMissing      = errors.New("required value missing")
	errNotNumeric   = errors.New("not a number")
	errNotText      = errors.New("not text")
	errNotDate      = errors.New("not a calendar date")
	errNotTimestamp = errors.New("not a timestamp")
	errNotTimeOfDay = errors.New("not a time of day")
	errBadMealType  = errors.New("unknown meal type")
)

// ValidationError reports a raw row that cannot be mapped to its canonical
// record. It matches common.ErrValidation with errors.Is.
type ValidationError struct {
	Entity string
	Column string
	Row    models.RawRow
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s.%s: %v", common.ErrValidation, e.Entity, e.Column, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{common.ErrValidation, e.Err}
}
