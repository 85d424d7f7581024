package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureWindow(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute)
	return start, start.Add(2 * time.Hour)
}

func TestNewReservation(t *testing.T) {
	start, end := futureWindow(t)
	guests, err := NewGuestCount(4)
	require.NoError(t, err)

	res, err := NewReservation(7, 3, start, end, guests)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.UserID)
	assert.Equal(t, uint64(3), res.TableID)
	assert.Equal(t, ReservationActive, res.Status)
	assert.True(t, res.IsActive())
}

func TestNewReservationRejectsBadInput(t *testing.T) {
	start, end := futureWindow(t)
	guests, _ := NewGuestCount(2)

	cases := map[string]func() error{
		"zero user": func() error {
			_, err := NewReservation(0, 3, start, end, guests)
			return err
		},
		"zero table": func() error {
			_, err := NewReservation(7, 0, start, end, guests)
			return err
		},
		"past start": func() error {
			_, err := NewReservation(7, 3, time.Now().UTC().Add(-time.Hour), end, guests)
			return err
		},
		"end before start": func() error {
			_, err := NewReservation(7, 3, start, start.Add(-time.Minute), guests)
			return err
		},
		"zero-length window": func() error {
			_, err := NewReservation(7, 3, start, start, guests)
			return err
		},
	}
	for name, run := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, run(), ErrInvalid)
		})
	}
}

func TestReservationCancelIsIdempotent(t *testing.T) {
	start, end := futureWindow(t)
	guests, _ := NewGuestCount(2)
	res, err := NewReservation(7, 3, start, end, guests)
	require.NoError(t, err)

	res.Cancel()
	assert.Equal(t, ReservationCanceled, res.Status)
	assert.False(t, res.IsActive())

	res.Cancel()
	assert.Equal(t, ReservationCanceled, res.Status)
}

func TestReservationOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	res := &Reservation{StartsAt: base, EndsAt: base.Add(2 * time.Hour)}

	// Touching windows share a boundary instant but not a moment in time.
	assert.False(t, res.Overlaps(base.Add(-time.Hour), base))
	assert.False(t, res.Overlaps(base.Add(2*time.Hour), base.Add(3*time.Hour)))

	assert.True(t, res.Overlaps(base.Add(-time.Hour), base.Add(time.Minute)))
	assert.True(t, res.Overlaps(base.Add(time.Hour), base.Add(3*time.Hour)))
	assert.True(t, res.Overlaps(base.Add(30*time.Minute), base.Add(time.Hour)))
	assert.True(t, res.Overlaps(base.Add(-time.Hour), base.Add(3*time.Hour)))
	assert.False(t, res.Overlaps(base.Add(-2*time.Hour), base.Add(-time.Hour)))
}
