package service

import (
	"context"
	"time"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
)

// RuleStore is the calendar's view of rule persistence.
type RuleStore interface {
	RulesForDate(ctx context.Context, date time.Time) ([]*model.BusinessHoursRule, error)
}

// Calendar answers whether a reservation window falls inside the
// restaurant's business hours. Rules live in local civil time, so both
// instants are converted to the restaurant's zone before any rule is
// consulted.
type Calendar struct {
	rules RuleStore
	loc   *time.Location
}

// NewCalendar builds a Calendar for the given rule store and IANA zone.
func NewCalendar(rules RuleStore, loc *time.Location) *Calendar {
	if rules == nil || loc == nil {
		panic("nil dependency passed to NewCalendar")
	}
	return &Calendar{rules: rules, loc: loc}
}

// IsOpen reports whether [startsAt, endsAt) lies inside an open interval
// of the layered calendar. Ambiguity resolves to closed: windows crossing
// local midnight are rejected without querying the store, a date with no
// matching rule is implicitly closed, and a specific-date rule overrides
// any weekday rule covering the same date. A non-nil error only signals a
// storage failure.
func (c *Calendar) IsOpen(ctx context.Context, startsAt, endsAt time.Time) (bool, error) {
	startLocal := startsAt.In(c.loc)
	endLocal := endsAt.In(c.loc)

	// Cross-midnight reservations are unsupported.
	if !model.DateOf(startLocal).Equal(model.DateOf(endLocal)) {
		return false, nil
	}

	startTime := model.TimeOfDayFrom(startLocal)
	endTime := model.TimeOfDayFrom(endLocal)

	rules, err := c.rules.RulesForDate(ctx, startLocal)
	if err != nil {
		return false, err
	}

	// A rule pinned to this exact date wins over any weekday rule.
	for _, r := range rules {
		if r.MatchesDate(startLocal) {
			return r.Allows(startTime, endTime), nil
		}
	}
	for _, r := range rules {
		if r.MatchesWeekday(startLocal.Weekday()) {
			return r.Allows(startTime, endTime), nil
		}
	}
	// No rule for this day: closed.
	return false, nil
}
