package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstantKnownOffset(t *testing.T) {
	i, err := ParseInstant("2025-12-03T10:00:00+08:00")
	require.NoError(t, err)
	assert.True(t, i.ZoneKnown)
	// Converts to the same instant in UTC.
	assert.Equal(t, time.Date(2025, 12, 3, 2, 0, 0, 0, time.UTC), i.UTC())
}

func TestParseInstantFloating(t *testing.T) {
	i, err := ParseInstant("2025-12-03T10:00:00")
	require.NoError(t, err)
	assert.False(t, i.ZoneKnown)
	// Wall clock is taken as already being UTC.
	assert.Equal(t, time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC), i.UTC())
}

func TestParseInstantDateOnly(t *testing.T) {
	i, err := ParseInstant("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), i.UTC())
}

func TestParseInstantInvalid(t *testing.T) {
	_, err := ParseInstant("not-a-date")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFloatingInstantIgnoresLocation(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	i := FloatingInstant(time.Date(2025, 1, 2, 3, 4, 5, 0, loc))
	// The offset is not trusted; only the wall clock survives.
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), i.UTC())
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2025, 12)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
