// Package service holds the reservation admission core: the decision
// whether a requested time window for a table may be granted, and the
// cancellation flow that reverses it. Handlers stay thin; everything that
// must be correct lives here and in the ledger.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
	"github.com/wesleysantana/restaurant-reservation/internal/repository"
)

// TableStore is the admission service's view of table persistence.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	UpdateStatus(ctx context.Context, id uint64, status model.TableStatus) error
}

// ReservationStore is the admission service's view of the reservation
// ledger. Create must be atomic with respect to concurrent bookings on
// the same table: of two overlapping attempts at most one may succeed,
// the other observing repository.ErrConflict.
type ReservationStore interface {
	IsAvailable(ctx context.Context, tableID uint64, startsAt, endsAt time.Time) (bool, error)
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Cancel(ctx context.Context, id uint64) error
	CountActiveByTable(ctx context.Context, tableID uint64) (int, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error)
}

// OpenChecker answers business-hours queries; satisfied by *Calendar.
type OpenChecker interface {
	IsOpen(ctx context.Context, startsAt, endsAt time.Time) (bool, error)
}

// Admission orchestrates calendar, table registry and reservation ledger
// to accept or reject booking requests and to process cancellations,
// updating table status as a side effect.
type Admission struct {
	calendar     OpenChecker
	tables       TableStore
	reservations ReservationStore
	now          func() time.Time
}

// NewAdmission constructs the admission service. All dependencies must be
// non-nil.
func NewAdmission(calendar OpenChecker, tables TableStore, reservations ReservationStore) *Admission {
	if calendar == nil || tables == nil || reservations == nil {
		panic("nil dependency passed to NewAdmission")
	}
	return &Admission{
		calendar:     calendar,
		tables:       tables,
		reservations: reservations,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// MakeReservation decides whether the requested window may be granted and,
// on success, records the reservation and marks the table RESERVED.
//
// The checks run in a fixed order: authentication, business hours, table
// existence and state, capacity, availability. The first four are cheap
// reads; only the availability check plus insert needs concurrency
// control, which the ledger provides (the pre-check here keeps the
// common rejection path off the lock).
func (a *Admission) MakeReservation(ctx context.Context, userID *uint64, tableID uint64, startsAt, endsAt time.Time, guests int) (*model.Reservation, error) {
	if userID == nil || *userID == 0 {
		return nil, reject(CodeUnauthorizedUser, "user not authenticated")
	}

	open, err := a.calendar.IsOpen(ctx, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, reject(CodeInvalidBusinessHours, "reservation outside business hours")
	}

	table, err := a.tables.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, reject(CodeTableUnavailable, "table not found")
		}
		return nil, err
	}
	if table.Status == model.TableInactive {
		return nil, reject(CodeTableUnavailable, "table is inactive")
	}

	guestCount, err := model.NewGuestCount(guests)
	if err != nil {
		return nil, err
	}
	if guestCount.Int() > table.Capacity.Int() {
		return nil, reject(CodeTableUnavailable, "number of guests exceeds table capacity")
	}

	available, err := a.reservations.IsAvailable(ctx, tableID, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, reject(CodeTableUnavailable, "table is not available for the selected time")
	}

	res, err := model.NewReservation(*userID, tableID, startsAt, endsAt, guestCount)
	if err != nil {
		return nil, err
	}
	if err := a.reservations.Create(ctx, res); err != nil {
		// A concurrent booking won the race between the pre-check and the
		// locked insert.
		if errors.Is(err, repository.ErrConflict) {
			return nil, reject(CodeTableUnavailable, "table is not available for the selected time")
		}
		return nil, err
	}

	if table.Status != model.TableReserved {
		if err := a.tables.UpdateStatus(ctx, tableID, model.TableReserved); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// CancelReservation cancels a reservation owned by the requesting user.
// Cancellation is a status flip, idempotent at the ledger; the table is
// freed when no other active reservation references it. It returns the
// canceled reservation and whether the table was released.
func (a *Admission) CancelReservation(ctx context.Context, userID *uint64, reservationID uint64) (*model.Reservation, bool, error) {
	res, err := a.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, false, reject(CodeReservationNotFound, "reservation not found")
		}
		return nil, false, err
	}

	if userID == nil || res.UserID != *userID {
		return nil, false, reject(CodeForbiddenReservationCancellation, "you cannot cancel a reservation that is not yours")
	}
	if !res.StartsAt.After(a.now()) {
		return nil, false, reject(CodeInvalidReservationCancellation, "cannot cancel a reservation that has already started or passed")
	}

	if err := a.reservations.Cancel(ctx, reservationID); err != nil {
		return nil, false, err
	}
	res.Cancel()

	active, err := a.reservations.CountActiveByTable(ctx, res.TableID)
	if err != nil {
		return nil, false, err
	}
	if active > 0 {
		return res, false, nil
	}
	table, err := a.tables.GetByID(ctx, res.TableID)
	if err != nil {
		// A table deleted out from under historic reservations does not
		// fail the cancellation.
		if errors.Is(err, repository.ErrTableNotFound) {
			return res, false, nil
		}
		return nil, false, err
	}
	if table.Status == model.TableReserved {
		if err := a.tables.UpdateStatus(ctx, res.TableID, model.TableAvailable); err != nil {
			return nil, false, err
		}
		return res, true, nil
	}
	return res, false, nil
}

// GetReservation returns a reservation owned by the user. Reservations
// belonging to someone else are reported as not found rather than
// revealing their existence.
func (a *Admission) GetReservation(ctx context.Context, userID *uint64, reservationID uint64) (*model.Reservation, error) {
	if userID == nil || *userID == 0 {
		return nil, reject(CodeUnauthorizedUser, "user not authenticated")
	}
	res, err := a.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, reject(CodeReservationNotFound, "reservation not found")
		}
		return nil, err
	}
	if res.UserID != *userID {
		return nil, reject(CodeReservationNotFound, "reservation not found")
	}
	return res, nil
}

// ListReservations returns every reservation the user has made, newest
// first.
func (a *Admission) ListReservations(ctx context.Context, userID *uint64) ([]*model.Reservation, error) {
	if userID == nil || *userID == 0 {
		return nil, reject(CodeUnauthorizedUser, "user not authenticated")
	}
	return a.reservations.ListByUser(ctx, *userID)
}
