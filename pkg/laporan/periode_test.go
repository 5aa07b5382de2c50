package laporan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 12, 17, 10, 30, 0, 0, time.UTC)

func TestResolveNamedPeriods(t *testing.T) {
	p, err := Resolve("bulan-ini", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, 31, p.End.Day())

	p, err = Resolve("bulan-lalu", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.November, p.Start.Month())
	assert.Equal(t, 30, p.End.Day())

	p, err = Resolve("tahun-ini", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.December, p.End.Month())
}

func TestResolveExplicitRange(t *testing.T) {
	p, err := Resolve("", "2025-10-01", "2025-10-15", now)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Start.Day())
	assert.Equal(t, 15, p.End.Day())
	assert.Equal(t, 23, p.End.Hour(), "end is inclusive through end of day")
}

func TestResolveDefaultsToCurrentMonth(t *testing.T) {
	p, err := Resolve("", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.December, p.Start.Month())
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve("minggu-depan", "", "", now)
	assert.Error(t, err)
	_, err = Resolve("", "bad", "2025-10-15", now)
	assert.Error(t, err)
	_, err = Resolve("", "2025-10-15", "2025-10-01", now)
	assert.Error(t, err)
}

func TestClampMonths(t *testing.T) {
	p, err := Resolve("", "2025-01-01", "2025-12-31", now)
	require.NoError(t, err)
	clamped := p.ClampMonths(now, 3)
	// 3-month window ending December starts October 1st
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), clamped.Start)
	assert.Equal(t, 17, clamped.End.Day(), "end clamped to today")

	// ranges already inside the window pass through
	p2, err := Resolve("", "2025-11-01", "2025-11-30", now)
	require.NoError(t, err)
	assert.Equal(t, p2, p2.ClampMonths(now, 3))
}

func TestMonthsBack(t *testing.T) {
	months := MonthsBack(now, 6)
	require.Len(t, months, 6)
	assert.Equal(t, Month{2025, time.July}, months[0])
	assert.Equal(t, Month{2025, time.December}, months[5])
	assert.Equal(t, "2025-07", months[0].Label())

	// year boundary
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	months = MonthsBack(feb, 3)
	assert.Equal(t, Month{2025, time.December}, months[0])
	assert.Equal(t, Month{2026, time.February}, months[2])
}

func TestMonthRange(t *testing.T) {
	p := Month{2025, time.February}.Range(time.UTC)
	assert.Equal(t, 1, p.Start.Day())
	assert.Equal(t, 28, p.End.Day())
}
