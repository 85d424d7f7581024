package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableName(t *testing.T) {
	name, err := NewTableName("  Window Booth 4  ")
	require.NoError(t, err)
	assert.Equal(t, "Window Booth 4", name.String())

	for _, raw := range []string{"", "   ", "ab", strings.Repeat("x", 256)} {
		_, err := NewTableName(raw)
		assert.ErrorIs(t, err, ErrInvalid, "raw=%q", raw)
	}
}

func TestNewCapacity(t *testing.T) {
	c, err := NewCapacity(6)
	require.NoError(t, err)
	assert.Equal(t, 6, c.Int())

	for _, v := range []int{0, -1} {
		_, err := NewCapacity(v)
		assert.ErrorIs(t, err, ErrInvalid)
	}
}

func TestNewGuestCount(t *testing.T) {
	g, err := NewGuestCount(1)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Int())

	g, err = NewGuestCount(MaxGuests)
	require.NoError(t, err)
	assert.Equal(t, MaxGuests, g.Int())

	for _, v := range []int{0, -5, MaxGuests + 1} {
		_, err := NewGuestCount(v)
		assert.ErrorIs(t, err, ErrInvalid)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), tod)
	assert.Equal(t, "09:30", tod.String())

	tod, err = ParseTimeOfDay("22:00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(22*60), tod)

	for _, raw := range []string{"", "25:00", "9h30", "12:61"} {
		_, err := ParseTimeOfDay(raw)
		assert.ErrorIs(t, err, ErrInvalid, "raw=%q", raw)
	}
}

func TestTimeOfDayFrom(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	at := time.Date(2026, 3, 10, 18, 45, 59, 0, loc)
	assert.Equal(t, TimeOfDay(18*60+45), TimeOfDayFrom(at))
}
