package common

// DateLayout is the canonical calendar date representation (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// TimestampLayout is the canonical instant representation, always rendered in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TimeOfDayLayout is the canonical time-of-day representation.
const TimeOfDayLayout = "15:04"
