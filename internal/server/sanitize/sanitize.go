// Package sanitize normalizes caller-supplied profile values into either a
// semantically valid value or absence (nil). It never fails: anything that
// is not a valid value for its field category becomes absent, so that a
// partial or sloppy resubmission cannot overwrite stored data with "", 0
// or NaN.
package sanitize

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// Category is the sanitization rule applied to a profile field.
type Category int

const (
	// CategoryInt: positive integers, rounded (height, daily targets).
	CategoryInt Category = iota + 1
	// CategoryDecimal: positive decimals, not rounded (weight).
	CategoryDecimal
	// CategoryString: non-blank strings, kept unchanged (gender, goal, birth date).
	CategoryString
	// CategoryImageRef: CategoryString, and inline payloads are absent (avatar).
	CategoryImageRef
)

const (
	// MaxInt is the largest value an INTEGER column holds.
	MaxInt = math.MaxInt32
	// MaxDecimal is the largest value a NUMERIC(6, 2) column holds.
	MaxDecimal = 9999.99
)

// Int returns the rounded positive integer held by v, or nil. Values that
// round above MaxInt are absent.
func Int(v any) *int {
	f, ok := positiveNumber(v)
	if !ok {
		return nil
	}
	r := math.Round(f)
	if r <= 0 || r > MaxInt {
		return nil
	}
	n := int(r)
	return &n
}

// Decimal returns the positive number held by v, or nil. Values that round
// to two places above MaxDecimal are absent.
func Decimal(v any) *float64 {
	f, ok := positiveNumber(v)
	if !ok || math.Round(f*100)/100 > MaxDecimal {
		return nil
	}
	return &f
}

// String returns v unchanged when it is a string with at least one
// non-whitespace character, or nil.
func String(v any) *string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case *string:
		if x == nil {
			return nil
		}
		s = *x
	case []byte:
		s = string(x)
	default:
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// ImageRef applies the String rule and additionally drops inline-encoded
// binary payloads; only references (URLs, object keys) survive.
func ImageRef(v any) *string {
	s := String(v)
	if s == nil || IsInlinePayload(*s) {
		return nil
	}
	return s
}

// Apply sanitizes v according to c and returns the normalized value with
// ok=true, or (nil, false) when v is absent.
func Apply(c Category, v any) (any, bool) {
	switch c {
	case CategoryInt:
		if n := Int(v); n != nil {
			return *n, true
		}
	case CategoryDecimal:
		if f := Decimal(v); f != nil {
			return *f, true
		}
	case CategoryString:
		if s := String(v); s != nil {
			return *s, true
		}
	case CategoryImageRef:
		if s := ImageRef(v); s != nil {
			return *s, true
		}
	}
	return nil, false
}

// decimalRe matches plain decimal notation. Hex, octal, binary and the
// Inf/NaN spellings accepted by strconv are not numbers here.
var decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func positiveNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		v = strings.TrimSpace(x)
	case json.Number:
		v = strings.TrimSpace(string(x))
	case []byte:
		v = strings.TrimSpace(string(x))
	}
	if s, ok := v.(string); ok && !decimalRe.MatchString(s) {
		return 0, false
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

// IsInlinePayload reports whether s is an inline-encoded binary payload
// (a data: URI) rather than a reference.
func IsInlinePayload(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s is shaped like an e-mail address.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}
