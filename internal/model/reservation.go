package model

import (
	"fmt"
	"time"
)

// ReservationStatus enumerates the states of a reservation.  The state
// machine is one-way: ACTIVE -> CANCELED, with CANCELED terminal.
type ReservationStatus string

const (
	ReservationActive   ReservationStatus = "ACTIVE"
	ReservationCanceled ReservationStatus = "CANCELED"
)

// Reservation records a user's booking of a table for a half-open time
// window [StartsAt, EndsAt). For any fixed table, the windows of ACTIVE
// reservations never overlap; canceled rows are retained for history and
// drop out of the overlap invariant.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who owns the reservation.
//  TableID   – table being reserved.
//  StartsAt  – start instant (UTC, inclusive).
//  EndsAt    – end instant (UTC, exclusive).
//  Guests    – party size, 1..100.
//  Status    – ACTIVE or CANCELED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64            `json:"id"`
	UserID    uint64            `json:"user_id"`
	TableID   uint64            `json:"table_id"`
	StartsAt  time.Time         `json:"starts_at"`
	EndsAt    time.Time         `json:"ends_at"`
	Guests    GuestCount        `json:"guests"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewReservation constructs an ACTIVE reservation, failing fast when any
// invariant is violated. These are contract violations, not business
// rejections: the admission flow validates the same conditions first.
func NewReservation(userID, tableID uint64, startsAt, endsAt time.Time, guests GuestCount) (*Reservation, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: reservation requires a user id", ErrInvalid)
	}
	if tableID == 0 {
		return nil, fmt.Errorf("%w: reservation requires a table id", ErrInvalid)
	}
	if guests < 1 || guests > MaxGuests {
		return nil, fmt.Errorf("%w: guest count out of range", ErrInvalid)
	}
	if !startsAt.After(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: reservation must start in the future", ErrInvalid)
	}
	if !endsAt.After(startsAt) {
		return nil, fmt.Errorf("%w: reservation must end after it starts", ErrInvalid)
	}
	return &Reservation{
		UserID:   userID,
		TableID:  tableID,
		StartsAt: startsAt.UTC(),
		EndsAt:   endsAt.UTC(),
		Guests:   guests,
		Status:   ReservationActive,
	}, nil
}

// IsActive reports whether the reservation still participates in the
// overlap invariant.
func (r *Reservation) IsActive() bool { return r.Status == ReservationActive }

// Cancel flips the reservation to CANCELED. Canceling twice is a no-op.
func (r *Reservation) Cancel() {
	if r.Status == ReservationCanceled {
		return
	}
	r.Status = ReservationCanceled
}

// Overlaps reports whether the reservation's window intersects the
// half-open interval [startsAt, endsAt). Touching windows, e.g.
// [10:00,11:00) and [11:00,12:00), do not overlap.
func (r *Reservation) Overlaps(startsAt, endsAt time.Time) bool {
	return r.StartsAt.Before(endsAt) && r.EndsAt.After(startsAt)
}
