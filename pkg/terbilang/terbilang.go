// Package terbilang converts amounts into their Indonesian spelled-out
// form ("terbilang") and formats rupiah for display on kwitansi and
// reports.
package terbilang

import (
	"strings"

	"github.com/shopspring/decimal"
)

var satuan = []string{
	"", "satu", "dua", "tiga", "empat", "lima",
	"enam", "tujuh", "delapan", "sembilan",
}

// Words spells out a non-negative integer amount in Indonesian.
// Words(0) == "nol"; Words(1500000) == "satu juta lima ratus ribu".
// Negative input is spelled with a leading "minus".
func Words(n int64) string {
	if n == 0 {
		return "nol"
	}
	if n < 0 {
		return "minus " + Words(-n)
	}
	return strings.Join(compose(n), " ")
}

// compose builds the word list for a positive number, largest scale first.
func compose(n int64) []string {
	type scale struct {
		value int64
		name  string
	}
	scales := []scale{
		{1_000_000_000_000, "triliun"},
		{1_000_000_000, "miliar"},
		{1_000_000, "juta"},
		{1_000, "ribu"},
	}
	var out []string
	for _, s := range scales {
		if n < s.value {
			continue
		}
		group := n / s.value
		n = n % s.value
		// "seribu", never "satu ribu"
		if group == 1 && s.value == 1_000 {
			out = append(out, "seribu")
			continue
		}
		out = append(out, compose(group)...)
		out = append(out, s.name)
	}
	if n >= 100 {
		h := n / 100
		n = n % 100
		if h == 1 {
			out = append(out, "seratus")
		} else {
			out = append(out, satuan[h], "ratus")
		}
	}
	switch {
	case n == 0:
	case n < 10:
		out = append(out, satuan[n])
	case n == 10:
		out = append(out, "sepuluh")
	case n == 11:
		out = append(out, "sebelas")
	case n < 20:
		out = append(out, satuan[n-10], "belas")
	default:
		out = append(out, satuan[n/10], "puluh")
		if n%10 > 0 {
			out = append(out, satuan[n%10])
		}
	}
	return out
}

// WordsRupiah spells a decimal amount as whole rupiah, e.g.
// "satu juta lima ratus ribu rupiah". Fractions of a rupiah are dropped;
// kwitansi amounts are whole rupiah in practice.
func WordsRupiah(amount decimal.Decimal) string {
	return Words(amount.IntPart()) + " rupiah"
}

// Rupiah renders an amount for display: Rupiah(1500000) == "Rp 1.500.000".
// A fractional part, when present, is kept with a comma separator.
func Rupiah(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	abs := amount.Abs()
	whole := abs.IntPart()
	frac := abs.Sub(decimal.NewFromInt(whole))

	digits := decimal.NewFromInt(whole).String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "Rp " + b.String()
	if !frac.IsZero() {
		// "0,50" -> take everything after the decimal point
		fs := frac.StringFixed(2)
		out += "," + fs[strings.IndexByte(fs, '.')+1:]
	}
	if neg {
		out = "-" + out
	}
	return out
}
