// Package kwitansi owns receipt numbering and the kwitansi PDF document.
package kwitansi

import (
	"fmt"
	"strings"
	"time"
)

// FormatNumber substitutes the template tokens of a school's receipt
// format: {YYYY} four-digit year, {MM} two-digit month, {000} the counter
// zero-padded to three digits. Unknown text is copied through unchanged.
func FormatNumber(format string, date time.Time, counter int) string {
	out := format
	out = strings.ReplaceAll(out, "{YYYY}", fmt.Sprintf("%04d", date.Year()))
	out = strings.ReplaceAll(out, "{MM}", fmt.Sprintf("%02d", int(date.Month())))
	out = strings.ReplaceAll(out, "{000}", fmt.Sprintf("%03d", counter))
	return out
}
