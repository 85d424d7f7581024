package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid is the sentinel wrapped by every domain validation failure.
// Callers use errors.Is(err, model.ErrInvalid) to distinguish malformed
// input from storage failures. Hitting it through the public API means an
// upstream validation was skipped.
var ErrInvalid = errors.New("invalid domain value")

// TableName is a validated restaurant table label. Values can only be
// obtained through NewTableName, so an invalid name cannot exist.
type TableName string

// NewTableName validates and returns a table name. Names must be between
// 3 and 255 characters after trimming surrounding whitespace.
func NewTableName(raw string) (TableName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: table name must not be empty", ErrInvalid)
	}
	if len(name) < 3 || len(name) > 255 {
		return "", fmt.Errorf("%w: table name must be between 3 and 255 characters", ErrInvalid)
	}
	return TableName(name), nil
}

func (n TableName) String() string { return string(n) }

// Capacity is the number of seats at a table, always positive.
type Capacity int

// NewCapacity validates and returns a table capacity.
func NewCapacity(v int) (Capacity, error) {
	if v < 1 {
		return 0, fmt.Errorf("%w: capacity must be greater than zero", ErrInvalid)
	}
	return Capacity(v), nil
}

func (c Capacity) Int() int { return int(c) }

// GuestCount is the party size of a reservation, bounded to 1..100.
// The upper bound is enforced here, at construction time, so the
// invariant holds no matter which entry point built the reservation.
type GuestCount int

// MaxGuests is the largest party a single reservation may hold.
const MaxGuests = 100

// NewGuestCount validates and returns a guest count.
func NewGuestCount(v int) (GuestCount, error) {
	if v < 1 {
		return 0, fmt.Errorf("%w: reservation must have at least one guest", ErrInvalid)
	}
	if v > MaxGuests {
		return 0, fmt.Errorf("%w: reservation cannot exceed %d guests", ErrInvalid, MaxGuests)
	}
	return GuestCount(v), nil
}

func (g GuestCount) Int() int { return int(g) }

// TimeOfDay is a clock time expressed as minutes since local midnight.
// Business-hours rules compare reservation windows against open/close
// times at minute granularity.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed time of day %q", ErrInvalid, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayFrom extracts the minute-of-day from a wall clock reading.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
