package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"17/12/2025", "17-12-2025", "2025-12-17"} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(want), "ParseDate(%q) = %v", s, got)
	}
}

func TestParseDateExcelSerial(t *testing.T) {
	// serial 45000 is 2023-03-15 in the 1900 date system
	got, err := ParseDate("45000")
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "invalid-date", "31/02/banana", "-5"} {
		_, err := ParseDate(s)
		assert.Error(t, err, "ParseDate(%q)", s)
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"1500000":      "1500000",
		"1.500.000":    "1500000",
		"1.500.000,00": "1500000",
		"Rp 1.500.000": "1500000",
		"Rp2.500,50":   "2500.5",
		"7,500.00":     "7500",
		" 100 ":        "100",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)),
			"ParseAmount(%q) = %s, want %s", in, got, want)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "Rp"} {
		_, err := ParseAmount(s)
		assert.Error(t, err, "ParseAmount(%q)", s)
	}
}

func TestMapHeader(t *testing.T) {
	idx := mapHeader([]string{"Tanggal", "Keterangan", "Nominal", "Nama", "Akun", "Kategori", "Metode Pembayaran", "Kolom Aneh"})
	assert.Equal(t, 0, idx[colDate])
	assert.Equal(t, 1, idx[colDescription])
	assert.Equal(t, 2, idx[colAmount])
	assert.Equal(t, 3, idx[colCounterparty])
	assert.Equal(t, 4, idx[colCoa])
	assert.Equal(t, 5, idx[colCategory])
	assert.Equal(t, 6, idx[colPayment])
	assert.Len(t, idx, 7, "unrecognized columns are ignored")

	english := mapHeader([]string{"Date", "Description", "Amount"})
	assert.Equal(t, 0, english[colDate])
	assert.Equal(t, 1, english[colDescription])
	assert.Equal(t, 2, english[colAmount])
}
