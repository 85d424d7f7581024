package model

import (
	"fmt"
	"time"
)

// BusinessHoursRule describes when the restaurant is open. A rule either
// pins one exact calendar date (SpecificDate set) or recurs on a weekday
// across the [StartDate, EndDate] range (Weekday set); exactly one of the
// two must be present. Closed rules carry no clock times, open rules carry
// both with Open < Close. Specific-date rules take absolute precedence
// over weekday rules when both cover a date.
//
// Dates are civil dates carried as UTC midnights; clock times are local
// minutes of day.
type BusinessHoursRule struct {
	ID           uint64        `json:"id"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	SpecificDate *time.Time    `json:"specific_date,omitempty"`
	Weekday      *time.Weekday `json:"weekday,omitempty"`
	Open         *TimeOfDay    `json:"open,omitempty"`
	Close        *TimeOfDay    `json:"close,omitempty"`
	Closed       bool          `json:"closed"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewBusinessHoursRule builds a rule and validates every invariant.
func NewBusinessHoursRule(startDate, endDate time.Time, specificDate *time.Time, weekday *time.Weekday, open, close *TimeOfDay, closed bool) (*BusinessHoursRule, error) {
	r := &BusinessHoursRule{
		StartDate: DateOf(startDate),
		EndDate:   DateOf(endDate),
		Weekday:   weekday,
		Open:      open,
		Close:     close,
		Closed:    closed,
	}
	if specificDate != nil {
		d := DateOf(*specificDate)
		r.SpecificDate = &d
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// ClosedDate is a convenience factory for a holiday: one specific date,
// fully closed.
func ClosedDate(date time.Time) *BusinessHoursRule {
	d := DateOf(date)
	return &BusinessHoursRule{
		StartDate:    d,
		EndDate:      d,
		SpecificDate: &d,
		Closed:       true,
	}
}

// Update replaces the rule's fields and re-validates.
func (r *BusinessHoursRule) Update(startDate, endDate time.Time, specificDate *time.Time, weekday *time.Weekday, open, close *TimeOfDay, closed bool) error {
	next := *r
	next.StartDate = DateOf(startDate)
	next.EndDate = DateOf(endDate)
	next.SpecificDate = nil
	if specificDate != nil {
		d := DateOf(*specificDate)
		next.SpecificDate = &d
	}
	next.Weekday = weekday
	next.Open = open
	next.Close = close
	next.Closed = closed
	if err := next.validate(); err != nil {
		return err
	}
	*r = next
	return nil
}

func (r *BusinessHoursRule) validate() error {
	if r.StartDate.After(r.EndDate) {
		return fmt.Errorf("%w: rule start date cannot be after end date", ErrInvalid)
	}
	if r.SpecificDate == nil && r.Weekday == nil {
		return fmt.Errorf("%w: rule requires either a specific date or a weekday", ErrInvalid)
	}
	if r.SpecificDate != nil {
		if !r.StartDate.Equal(*r.SpecificDate) || !r.EndDate.Equal(*r.SpecificDate) {
			return fmt.Errorf("%w: specific-date rules must have start and end dates equal to the date", ErrInvalid)
		}
		if r.Weekday != nil {
			return fmt.Errorf("%w: specific-date rules cannot define a weekday", ErrInvalid)
		}
	}
	if r.Closed {
		if r.Open != nil || r.Close != nil {
			return fmt.Errorf("%w: closed rules cannot have open or close times", ErrInvalid)
		}
		return nil
	}
	if r.Open == nil || r.Close == nil {
		return fmt.Errorf("%w: open rules require both open and close times", ErrInvalid)
	}
	if *r.Open >= *r.Close {
		return fmt.Errorf("%w: open time must be earlier than close time", ErrInvalid)
	}
	return nil
}

// CoversDate reports whether the civil date falls inside the rule's
// inclusive [StartDate, EndDate] range.
func (r *BusinessHoursRule) CoversDate(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// MatchesDate reports whether the rule's specific date is exactly date.
func (r *BusinessHoursRule) MatchesDate(date time.Time) bool {
	return r.SpecificDate != nil && r.SpecificDate.Equal(DateOf(date))
}

// MatchesWeekday reports whether the rule recurs on the given weekday.
func (r *BusinessHoursRule) MatchesWeekday(day time.Weekday) bool {
	return r.Weekday != nil && *r.Weekday == day
}

// Allows reports whether the window [start, end] of local clock times fits
// inside the rule's open hours. Closed rules allow nothing.
func (r *BusinessHoursRule) Allows(start, end TimeOfDay) bool {
	if r.Closed || r.Open == nil || r.Close == nil {
		return false
	}
	return start >= *r.Open && end <= *r.Close
}

// DateOf truncates t to its civil date, re-anchored at UTC midnight so
// dates compare with Equal/Before/After regardless of source location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
