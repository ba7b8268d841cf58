// Package models defines the canonical application records of nutrilog and
// the raw row shape they are mapped from.
package models

// RawRow is one storage row keyed by column name, holding values exactly as
// the driver produced them (numeric text, time.Time, []byte, nil, ...).
type RawRow = map[string]any
