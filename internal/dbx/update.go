package dbx

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutrilog/internal/common"
)

// Assignment is one (column, value) pair of an UPDATE ... SET clause.
// Present reports whether the pair takes part in the statement at all.
type Assignment struct {
	Column  string
	Value   any
	Present bool
}

// Set returns a bound assignment.
func Set(column string, value any) Assignment {
	return Assignment{Column: column, Value: value, Present: true}
}

// SetIf returns an assignment bound only when present is true.
func SetIf(column string, value any, present bool) Assignment {
	return Assignment{Column: column, Value: value, Present: present}
}

// BuildSet renders the present assignments as "col = $n, ..." with
// placeholders numbered from first. It fails with common.ErrEmptyUpdate
// when no assignment is present.
func BuildSet(assignments []Assignment, first int) (string, []any, error) {
	parts := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments))

	n := first
	for _, a := range assignments {
		if !a.Present {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", a.Column, n))
		args = append(args, a.Value)
		n++
	}

	if len(parts) == 0 {
		return "", nil, common.ErrEmptyUpdate
	}

	return strings.Join(parts, ", "), args, nil
}

// Placeholders returns "$first, $first+1, ..." for n parameters.
func Placeholders(n, first int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", first+i)
	}
	return strings.Join(parts, ", ")
}
