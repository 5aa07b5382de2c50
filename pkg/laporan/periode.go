// Package laporan holds the date-range and aggregation arithmetic of the
// financial reports, kept free of the database so it can be tested flat.
package laporan

import (
	"fmt"
	"time"
)

// Periode is a half-open-ish report range; Start and End are inclusive
// calendar days (End is pushed to the last instant of its day).
type Periode struct {
	Start time.Time
	End   time.Time
}

// Resolve turns the query parameters of a report request into a concrete
// range. Named periods win over explicit dates; with nothing given the
// current month is used.
func Resolve(period, startStr, endStr string, now time.Time) (Periode, error) {
	switch period {
	case "bulan-ini":
		return monthRange(now.Year(), now.Month(), now.Location()), nil
	case "bulan-lalu":
		prev := now.AddDate(0, -1, -now.Day()+1)
		return monthRange(prev.Year(), prev.Month(), now.Location()), nil
	case "tahun-ini":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Periode{Start: start, End: endOfDay(time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()))}, nil
	case "":
	default:
		return Periode{}, fmt.Errorf("periode %q tidak dikenali", period)
	}
	if startStr == "" && endStr == "" {
		return monthRange(now.Year(), now.Month(), now.Location()), nil
	}
	start, err := time.ParseInLocation("2006-01-02", startStr, now.Location())
	if err != nil {
		return Periode{}, fmt.Errorf("tanggal mulai tidak valid (%s)", startStr)
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, now.Location())
	if err != nil {
		return Periode{}, fmt.Errorf("tanggal akhir tidak valid (%s)", endStr)
	}
	if end.Before(start) {
		return Periode{}, fmt.Errorf("tanggal akhir sebelum tanggal mulai")
	}
	return Periode{Start: start, End: endOfDay(end)}, nil
}

// ClampMonths confines the range to a trailing window of n calendar
// months ending in now's month, whatever the caller requested. Used to
// enforce the operator role's lookback limit server-side.
func (p Periode) ClampMonths(now time.Time, n int) Periode {
	minStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(n - 1), 0)
	if p.Start.Before(minStart) {
		p.Start = minStart
	}
	max := endOfDay(now)
	if p.End.After(max) {
		p.End = max
	}
	if p.End.Before(p.Start) {
		p.End = endOfDay(p.Start)
	}
	return p
}

// Month identifies one calendar month of a trend series.
type Month struct {
	Year  int
	Month time.Month
}

// Label renders the month as "2006-01".
func (m Month) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Range is the month's first day through its last instant.
func (m Month) Range(loc *time.Location) Periode {
	return monthRange(m.Year, m.Month, loc)
}

// MonthsBack lists the trailing n calendar months ending with now's
// month, oldest first, for trend charts.
func MonthsBack(now time.Time, n int) []Month {
	out := make([]Month, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		t := first.AddDate(0, i, 0)
		out = append(out, Month{Year: t.Year(), Month: t.Month()})
	}
	return out
}

func monthRange(year int, month time.Month, loc *time.Location) Periode {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Periode{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
