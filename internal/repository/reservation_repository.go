package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
)

// ReservationRepo is the reservation ledger: it stores reservations per
// table and interval, answers availability queries and performs the
// conflict-checked insert. All timestamps are stored in UTC.
//
// The check-then-insert sequence must be atomic with respect to concurrent
// bookings of the same table. MySQL offers no range-exclusion constraint,
// so Create serializes writers per table by locking the parent tables row
// FOR UPDATE inside the insert transaction; the overlap check runs under
// that lock.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, table_id, starts_at, ends_at, guests, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var guests int
	var status string
	if err := row.Scan(&res.ID, &res.UserID, &res.TableID, &res.StartsAt, &res.EndsAt, &guests, &status, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	res.Guests = model.GuestCount(guests)
	res.Status = model.ReservationStatus(status)
	return &res, nil
}

// overlapExistsTx reports whether any ACTIVE reservation on the table
// overlaps [startsAt, endsAt) under half-open semantics: an existing row
// conflicts iff starts_at < endsAt AND ends_at > startsAt. Touching
// intervals do not conflict.
func overlapExistsTx(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, tableID uint64, startsAt, endsAt time.Time) (bool, error) {
	const query = `SELECT EXISTS(
	                   SELECT 1 FROM reservations
	                   WHERE table_id = ?
	                     AND status = 'ACTIVE'
	                     AND starts_at < ?
	                     AND ends_at > ?)`
	var exists bool
	err := q.QueryRowContext(ctx, query, tableID, endsAt.UTC(), startsAt.UTC()).Scan(&exists)
	return exists, err
}

// IsAvailable reports whether the interval [startsAt, endsAt) is free of
// active reservations on the table. This is the cheap, non-locking
// pre-check; Create repeats it under the table lock before inserting.
func (r *ReservationRepo) IsAvailable(ctx context.Context, tableID uint64, startsAt, endsAt time.Time) (bool, error) {
	exists, err := overlapExistsTx(ctx, r.db, tableID, startsAt, endsAt)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Create persists a new ACTIVE reservation. It runs inside a transaction
// that first locks the parent table row, guaranteeing that of two
// concurrent overlapping booking attempts on the same table at most one
// commits; the loser observes the winner's row and receives ErrConflict.
// Returns ErrTableNotFound when the table does not exist. On success the
// reservation's ID and timestamps are populated from the stored row.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialize bookings per table id.
	var tableID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM tables WHERE id = ? FOR UPDATE`, res.TableID).Scan(&tableID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTableNotFound
		}
		return err
	}

	exists, err := overlapExistsTx(ctx, tx, res.TableID, res.StartsAt, res.EndsAt)
	if err != nil {
		return err
	}
	if exists {
		return ErrConflict
	}

	const qInsert = `INSERT INTO reservations (user_id, table_id, starts_at, ends_at, guests, status)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, qInsert,
		res.UserID, res.TableID, res.StartsAt.UTC(), res.EndsAt.UTC(), res.Guests.Int(), string(res.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Read the row back so timestamps and defaults are populated.
	const qSelect = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	stored, err := scanReservation(tx.QueryRowContext(ctx, qSelect, res.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*res = *stored
	return nil
}

// GetByID returns a reservation by its ID, canceled ones included.
// ErrReservationNotFound is returned when no row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// Cancel transitions a reservation to CANCELED. The row is retained for
// history. Canceling an already canceled or absent reservation is a no-op,
// which makes the operation idempotent.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	const q = `UPDATE reservations SET status = 'CANCELED' WHERE id = ? AND status = 'ACTIVE'`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CountActiveByTable returns how many ACTIVE reservations reference the
// table. The admission service frees the table when the count drops to
// zero after a cancellation.
func (r *ReservationRepo) CountActiveByTable(ctx context.Context, tableID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE table_id = ? AND status = 'ACTIVE'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tableID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByUser returns all reservations created by the user, newest first.
// When none exist, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
