package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
	"github.com/wesleysantana/restaurant-reservation/internal/repository"
)

// alwaysOpen satisfies OpenChecker with a fixed answer.
type alwaysOpen struct {
	open bool
	err  error
}

func (a alwaysOpen) IsOpen(ctx context.Context, startsAt, endsAt time.Time) (bool, error) {
	return a.open, a.err
}

// memTables is an in-memory TableStore.
type memTables struct {
	items map[uint64]*model.Table
}

func newMemTables(tables ...*model.Table) *memTables {
	m := &memTables{items: map[uint64]*model.Table{}}
	for _, tb := range tables {
		m.items[tb.ID] = tb
	}
	return m
}

func (m *memTables) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	tb, ok := m.items[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	cp := *tb
	return &cp, nil
}

func (m *memTables) UpdateStatus(ctx context.Context, id uint64, status model.TableStatus) error {
	tb, ok := m.items[id]
	if !ok {
		return repository.ErrTableNotFound
	}
	tb.Status = status
	return nil
}

// memLedger is an in-memory ReservationStore enforcing the same overlap
// rule as the SQL implementation.
type memLedger struct {
	nextID uint64
	items  map[uint64]*model.Reservation

	// createErr forces the next Create to fail, simulating a lost race.
	createErr error
}

func newMemLedger() *memLedger {
	return &memLedger{items: map[uint64]*model.Reservation{}}
}

func (m *memLedger) overlaps(tableID uint64, startsAt, endsAt time.Time) bool {
	for _, r := range m.items {
		if r.TableID == tableID && r.IsActive() && r.Overlaps(startsAt, endsAt) {
			return true
		}
	}
	return false
}

func (m *memLedger) IsAvailable(ctx context.Context, tableID uint64, startsAt, endsAt time.Time) (bool, error) {
	return !m.overlaps(tableID, startsAt, endsAt), nil
}

func (m *memLedger) Create(ctx context.Context, res *model.Reservation) error {
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	if m.overlaps(res.TableID, res.StartsAt, res.EndsAt) {
		return repository.ErrConflict
	}
	m.nextID++
	res.ID = m.nextID
	cp := *res
	m.items[res.ID] = &cp
	return nil
}

func (m *memLedger) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memLedger) Cancel(ctx context.Context, id uint64) error {
	if r, ok := m.items[id]; ok {
		r.Cancel()
	}
	return nil
}

func (m *memLedger) CountActiveByTable(ctx context.Context, tableID uint64) (int, error) {
	n := 0
	for _, r := range m.items {
		if r.TableID == tableID && r.IsActive() {
			n++
		}
	}
	return n, nil
}

func (m *memLedger) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	out := []*model.Reservation{}
	for _, r := range m.items {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func table(id uint64, capacity int, status model.TableStatus) *model.Table {
	name, _ := model.NewTableName("Table " + string(rune('A'+id)))
	seats, _ := model.NewCapacity(capacity)
	return &model.Table{ID: id, Name: name, Capacity: seats, Status: status}
}

func uid(v uint64) *uint64 { return &v }

type fixture struct {
	admission *Admission
	tables    *memTables
	ledger    *memLedger
}

func newFixture(t *testing.T, open bool, tables ...*model.Table) *fixture {
	t.Helper()
	mt := newMemTables(tables...)
	ml := newMemLedger()
	return &fixture{
		admission: NewAdmission(alwaysOpen{open: open}, mt, ml),
		tables:    mt,
		ledger:    ml,
	}
}

func window(hoursFromNow, durationHours int) (time.Time, time.Time) {
	start := time.Now().UTC().Add(time.Duration(hoursFromNow) * time.Hour).Truncate(time.Minute)
	return start, start.Add(time.Duration(durationHours) * time.Hour)
}

func assertRejected(t *testing.T, err error, code Code) {
	t.Helper()
	var admErr *AdmissionError
	require.ErrorAs(t, err, &admErr)
	assert.Equal(t, code, admErr.Code)
}

func TestMakeReservationRequiresAuthentication(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	_, err := f.admission.MakeReservation(context.Background(), nil, 1, start, end, 2)
	assertRejected(t, err, CodeUnauthorizedUser)

	_, err = f.admission.MakeReservation(context.Background(), uid(0), 1, start, end, 2)
	assertRejected(t, err, CodeUnauthorizedUser)
}

func TestMakeReservationOutsideBusinessHours(t *testing.T) {
	f := newFixture(t, false, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	_, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	assertRejected(t, err, CodeInvalidBusinessHours)
	assert.Empty(t, f.ledger.items, "rejected requests must not write to the ledger")
}

func TestMakeReservationTableChecks(t *testing.T) {
	f := newFixture(t, true,
		table(1, 4, model.TableAvailable),
		table(2, 4, model.TableInactive),
	)
	start, end := window(24, 2)

	t.Run("unknown table", func(t *testing.T) {
		_, err := f.admission.MakeReservation(context.Background(), uid(7), 99, start, end, 2)
		assertRejected(t, err, CodeTableUnavailable)
	})
	t.Run("inactive table", func(t *testing.T) {
		_, err := f.admission.MakeReservation(context.Background(), uid(7), 2, start, end, 2)
		assertRejected(t, err, CodeTableUnavailable)
	})
	t.Run("party larger than the table", func(t *testing.T) {
		_, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 5)
		assertRejected(t, err, CodeTableUnavailable)
	})
	t.Run("party size out of domain range", func(t *testing.T) {
		_, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 0)
		assert.ErrorIs(t, err, model.ErrInvalid)
	})
}

func TestMakeReservationSuccess(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	res, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 3)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, uint64(7), res.UserID)
	assert.Equal(t, model.ReservationActive, res.Status)

	tb, err := f.tables.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.TableReserved, tb.Status)
}

func TestMakeReservationOverlapRejected(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	_, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	require.NoError(t, err)

	// Same window, different user.
	_, err = f.admission.MakeReservation(context.Background(), uid(8), 1, start, end, 2)
	assertRejected(t, err, CodeTableUnavailable)

	// Partially overlapping window.
	_, err = f.admission.MakeReservation(context.Background(), uid(8), 1, start.Add(time.Hour), end.Add(time.Hour), 2)
	assertRejected(t, err, CodeTableUnavailable)

	// Touching window is admitted: intervals are half-open.
	res, err := f.admission.MakeReservation(context.Background(), uid(8), 1, end, end.Add(2*time.Hour), 2)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
}

func TestMakeReservationLostRaceMapsToUnavailable(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	// The pre-check sees a free table but the locked insert loses.
	f.ledger.createErr = repository.ErrConflict
	_, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	assertRejected(t, err, CodeTableUnavailable)
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	res, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, _, err := f.admission.CancelReservation(context.Background(), uid(7), 999)
		assertRejected(t, err, CodeReservationNotFound)
	})
	t.Run("wrong owner", func(t *testing.T) {
		_, _, err := f.admission.CancelReservation(context.Background(), uid(8), res.ID)
		assertRejected(t, err, CodeForbiddenReservationCancellation)
	})
	t.Run("unauthenticated", func(t *testing.T) {
		_, _, err := f.admission.CancelReservation(context.Background(), nil, res.ID)
		assertRejected(t, err, CodeForbiddenReservationCancellation)
	})
	t.Run("owner cancels and the table is freed", func(t *testing.T) {
		canceled, freed, err := f.admission.CancelReservation(context.Background(), uid(7), res.ID)
		require.NoError(t, err)
		assert.True(t, freed)
		assert.Equal(t, model.ReservationCanceled, canceled.Status)

		tb, err := f.tables.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, model.TableAvailable, tb.Status)
	})
	t.Run("repeat cancellation is a no-op", func(t *testing.T) {
		canceled, freed, err := f.admission.CancelReservation(context.Background(), uid(7), res.ID)
		require.NoError(t, err)
		assert.False(t, freed)
		assert.Equal(t, model.ReservationCanceled, canceled.Status)
	})
}

func TestCancelReservationKeepsTableWhileOthersRemain(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	first, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	require.NoError(t, err)
	_, err = f.admission.MakeReservation(context.Background(), uid(8), 1, end, end.Add(2*time.Hour), 2)
	require.NoError(t, err)

	_, freed, err := f.admission.CancelReservation(context.Background(), uid(7), first.ID)
	require.NoError(t, err)
	assert.False(t, freed)

	tb, err := f.tables.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.TableReserved, tb.Status)
}

func TestCancelReservationAfterStartRejected(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	res, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	require.NoError(t, err)

	t.Run("already started", func(t *testing.T) {
		f.admission.now = func() time.Time { return start.Add(time.Minute) }
		_, _, err := f.admission.CancelReservation(context.Background(), uid(7), res.ID)
		assertRejected(t, err, CodeInvalidReservationCancellation)
	})
	t.Run("starting this instant", func(t *testing.T) {
		f.admission.now = func() time.Time { return start }
		_, _, err := f.admission.CancelReservation(context.Background(), uid(7), res.ID)
		assertRejected(t, err, CodeInvalidReservationCancellation)
	})
	t.Run("already over", func(t *testing.T) {
		f.admission.now = func() time.Time { return end.Add(time.Hour) }
		_, _, err := f.admission.CancelReservation(context.Background(), uid(7), res.ID)
		assertRejected(t, err, CodeInvalidReservationCancellation)
	})
}

func TestGetReservationHidesOtherUsers(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	start, end := window(24, 2)

	res, err := f.admission.MakeReservation(context.Background(), uid(7), 1, start, end, 2)
	require.NoError(t, err)

	got, err := f.admission.GetReservation(context.Background(), uid(7), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	_, err = f.admission.GetReservation(context.Background(), uid(8), res.ID)
	assertRejected(t, err, CodeReservationNotFound)
}

// TestReservationLifecycle walks one table through book, reject, cancel
// and rebook.
func TestReservationLifecycle(t *testing.T) {
	f := newFixture(t, true, table(1, 6, model.TableAvailable))
	ctx := context.Background()
	start, end := window(24, 2)

	first, err := f.admission.MakeReservation(ctx, uid(1), 1, start, end, 4)
	require.NoError(t, err)

	// A second guest cannot take the same window.
	_, err = f.admission.MakeReservation(ctx, uid(2), 1, start.Add(30*time.Minute), end.Add(30*time.Minute), 2)
	assertRejected(t, err, CodeTableUnavailable)

	// The first guest cancels; the table frees up.
	_, freed, err := f.admission.CancelReservation(ctx, uid(1), first.ID)
	require.NoError(t, err)
	assert.True(t, freed)

	// Now the second guest's window is admitted.
	res, err := f.admission.MakeReservation(ctx, uid(2), 1, start.Add(30*time.Minute), end.Add(30*time.Minute), 2)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)

	items, err := f.admission.ListReservations(ctx, uid(1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.ReservationCanceled, items[0].Status)
}

// TestNoOverlappingActiveReservations hammers one table with randomized
// windows and verifies the ledger invariant afterwards: no two ACTIVE
// reservations intersect.
func TestNoOverlappingActiveReservations(t *testing.T) {
	f := newFixture(t, true, table(1, 4, model.TableAvailable))
	ctx := context.Background()
	rng := rand.New(rand.NewSource(1))
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

	for i := 0; i < 300; i++ {
		startOffset := time.Duration(rng.Intn(48)) * 30 * time.Minute
		duration := time.Duration(1+rng.Intn(6)) * 30 * time.Minute
		start := base.Add(startOffset)
		user := uint64(1 + rng.Intn(5))

		_, err := f.admission.MakeReservation(ctx, uid(user), 1, start, start.Add(duration), 1+rng.Intn(4))
		if err != nil {
			var admErr *AdmissionError
			require.ErrorAs(t, err, &admErr, "only business rejections are acceptable")
			assert.Equal(t, CodeTableUnavailable, admErr.Code)
		}
	}

	var active []*model.Reservation
	for _, r := range f.ledger.items {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	require.NotEmpty(t, active)
	for i, a := range active {
		for _, b := range active[i+1:] {
			assert.False(t, a.Overlaps(b.StartsAt, b.EndsAt),
				"reservations %d and %d overlap: [%s,%s) vs [%s,%s)",
				a.ID, b.ID, a.StartsAt, a.EndsAt, b.StartsAt, b.EndsAt)
		}
	}
}
