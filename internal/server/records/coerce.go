package records

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/spf13/cast"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

var timeOfDayLayouts = []string{
	"15:04:05.999999999",
	common.TimeOfDayLayout,
}

// text unwraps string-ish driver values; ok is false for anything else.
func text(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

func toString(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	if s, ok := text(v); ok {
		return s, true, nil
	}
	if _, ok := v.(time.Time); ok {
		return "", false, errNotText
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false, errNotText
	}
	return s, true, nil
}

// toOptionalString treats blank text as absent.
func toOptionalString(v any) (*string, error) {
	s, ok, err := toString(v)
	if err != nil || !ok || strings.TrimSpace(s) == "" {
		return nil, err
	}
	return &s, nil
}

func toFloat(v any) (float64, bool, error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case bool:
		return 0, false, fmt.Errorf("%w: %v", errNotNumeric, x)
	}
	if s, ok := text(v); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%w: %v", errNotNumeric, v)
	}
	return f, true, nil
}

// toPositiveFloat returns nil for null and for stats that are not positive.
func toPositiveFloat(v any) (*float64, error) {
	f, ok, err := toFloat(v)
	if err != nil || !ok || f <= 0 {
		return nil, err
	}
	return &f, nil
}

func toPositiveInt(v any) (*int, error) {
	f, err := toPositiveFloat(v)
	if err != nil || f == nil {
		return nil, err
	}
	n := int(math.Round(*f))
	if n <= 0 {
		return nil, nil
	}
	return &n, nil
}

// toDate keeps the YYYY-MM-DD prefix of v. Native temporal values are
// formatted in their own location so a stored date never shifts by a day.
func toDate(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(common.DateLayout), true, nil
	}
	s, ok := text(v)
	if !ok {
		return "", false, fmt.Errorf("%w: %v", errNotDate, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, nil
	}
	if len(s) < len(common.DateLayout) {
		return "", false, fmt.Errorf("%w: %q", errNotDate, s)
	}
	prefix := s[:len(common.DateLayout)]
	if _, err := time.Parse(common.DateLayout, prefix); err != nil {
		return "", false, fmt.Errorf("%w: %q", errNotDate, s)
	}
	return prefix, true, nil
}

func toTimestamp(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if t, ok := v.(time.Time); ok {
		s := t.UTC().Format(common.TimestampLayout)
		return &s, nil
	}
	s, ok := text(v)
	if !ok {
		return nil, fmt.Errorf("%w: %v", errNotTimestamp, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.UTC().Format(common.TimestampLayout)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", errNotTimestamp, s)
}

func toTimeOfDay(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(common.TimeOfDayLayout), true, nil
	}
	s, ok := text(v)
	if !ok {
		return "", false, fmt.Errorf("%w: %v", errNotTimeOfDay, v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, nil
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(common.TimeOfDayLayout), true, nil
		}
	}
	return "", false, fmt.Errorf("%w: %q", errNotTimeOfDay, s)
}

// NormalizeTimeOfDay returns s as HH:MM, accepting HH:MM and HH:MM:SS input.
func NormalizeTimeOfDay(s string) (string, error) {
	out, ok, err := toTimeOfDay(s)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errMissing
	}
	return out, nil
}

// NormalizeDate returns the YYYY-MM-DD prefix of s.
func NormalizeDate(s string) (string, error) {
	out, ok, err := toDate(s)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errMissing
	}
	return out, nil
}
