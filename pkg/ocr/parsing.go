package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// amountRE matches currency-marked or separator-grouped numbers:
// "Rp 1.500.000", "IDR 250,000.00", "1.500.000,00", plain "1500000".
var amountRE = regexp.MustCompile(`(?i)(?:rp|idr)?\s*([0-9]{1,3}(?:[.,][0-9]{3})+(?:[.,][0-9]{2})?|[0-9]{4,12})`)

var centsTailRE = regexp.MustCompile(`[.,][0-9]{2}$`)

// findAmount scans OCR text for candidate amounts and keeps the largest
// plausible one. Transfer receipts list fees and balances next to the
// amount; the transfer itself is almost always the largest figure on the
// relevant lines, and implausibly large reads (misread account numbers)
// are dropped.
func findAmount(text string) (int64, string) {
	var (
		best    int64
		bestRaw string
	)
	for _, m := range amountRE.FindAllStringSubmatch(text, -1) {
		v, err := normalizeAmount(m[1])
		if err != nil {
			continue
		}
		if !plausible(v) {
			continue
		}
		if v > best {
			best = v
			bestRaw = strings.TrimSpace(m[0])
		}
	}
	return best, bestRaw
}

// normalizeAmount strips separators, dropping a trailing two-digit cents
// group ("1.500.000,00" -> 1500000).
func normalizeAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if centsTailRE.MatchString(s) {
		s = s[:len(s)-3]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	return strconv.ParseInt(digits, 10, 64)
}

// plausible bounds a school payment: a few hundred rupiah up to single-
// digit billions. Anything outside is a misread.
func plausible(v int64) bool {
	return v >= 100 && v < 10_000_000_000
}
