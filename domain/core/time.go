package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// Year is a calendar year of observation. World Bank panels index rows by
// (country, year), so it gets its own type rather than a bare int.
type Year int

// YearRange is an inclusive [Start, End] span of observation years.
type YearRange struct {
	Start Year `json:"start"`
	End   Year `json:"end"`
}

// Contains reports whether y falls inside the range.
func (r YearRange) Contains(y Year) bool {
	return y >= r.Start && y <= r.End
}

// Valid reports whether the range is non-empty and plausibly a year span.
func (r YearRange) Valid() bool {
	return r.Start > 1900 && r.End >= r.Start
}
