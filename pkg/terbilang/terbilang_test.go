package terbilang

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "nol"},
		{1, "satu"},
		{10, "sepuluh"},
		{11, "sebelas"},
		{17, "tujuh belas"},
		{25, "dua puluh lima"},
		{100, "seratus"},
		{105, "seratus lima"},
		{250, "dua ratus lima puluh"},
		{1000, "seribu"},
		{1100, "seribu seratus"},
		{2000, "dua ribu"},
		{12500, "dua belas ribu lima ratus"},
		{1_000_000, "satu juta"},
		{1_500_000, "satu juta lima ratus ribu"},
		{2_000_000_000, "dua miliar"},
		{1_000_000_000_000, "satu triliun"},
		{-7, "minus tujuh"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Words(c.n), "Words(%d)", c.n)
	}
}

func TestWordsRupiah(t *testing.T) {
	amt := decimal.NewFromInt(1_500_000)
	assert.Equal(t, "satu juta lima ratus ribu rupiah", WordsRupiah(amt))
}

func TestRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", Rupiah(decimal.Zero))
	assert.Equal(t, "Rp 1.500.000", Rupiah(decimal.NewFromInt(1_500_000)))
	assert.Equal(t, "Rp 999", Rupiah(decimal.NewFromInt(999)))
	assert.Equal(t, "Rp 12.345.678", Rupiah(decimal.NewFromInt(12_345_678)))
	assert.Equal(t, "Rp 10.000,50", Rupiah(decimal.RequireFromString("10000.5")))
	assert.Equal(t, "-Rp 250.000", Rupiah(decimal.NewFromInt(-250_000)))
}
