package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	time.RFC3339,
}

// excelEpoch is day zero of the 1900 date system (serial 1 = 1900-01-01,
// with the historical Lotus leap-year bug already folded in).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts the spreadsheet date formats seen in the wild:
// DD/MM/YYYY, DD-MM-YYYY, ISO dates, and raw excel serial numbers (cells
// formatted as General come through as the serial).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("tanggal kosong")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), nil
	}
	return time.Time{}, fmt.Errorf("format tanggal tidak dikenali")
}

var centsTailRE = regexp.MustCompile(`[.,](\d{2})$`)

// ParseAmount normalizes a money cell into a decimal. Currency markers,
// thousand separators and spaces are stripped; a trailing two-digit group
// after "." or "," is treated as cents ("1.500.000,00" -> 1500000;
// "2.500,50" -> 2500.50).
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("nominal kosong")
	}
	cents := ""
	if m := centsTailRE.FindStringSubmatch(raw); m != nil {
		cents = m[1]
		raw = raw[:len(raw)-3]
	}
	digits := onlyDigits(raw)
	if digits == "" {
		return decimal.Zero, fmt.Errorf("tidak ada angka pada %q", s)
	}
	num := digits
	if cents != "" && cents != "00" {
		num = digits + "." + cents
	}
	amt, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, fmt.Errorf("nominal %q tidak valid", s)
	}
	return amt, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
