package kwitansi

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	date := time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "KW/2025/12/007", FormatNumber("KW/{YYYY}/{MM}/{000}", date, 7))
	assert.Equal(t, "KW/2025/12/123", FormatNumber("KW/{YYYY}/{MM}/{000}", date, 123))
	// counters past 999 widen instead of wrapping
	assert.Equal(t, "KW/2025/12/1024", FormatNumber("KW/{YYYY}/{MM}/{000}", date, 1024))
	// templates without tokens pass through
	assert.Equal(t, "STATIC", FormatNumber("STATIC", date, 5))
	assert.Equal(t, "042-2025", FormatNumber("{000}-{YYYY}", date, 42))
}

func TestBuildPDF(t *testing.T) {
	var buf bytes.Buffer
	err := BuildPDF(&buf, Data{
		SchoolName:    "SD Harapan Bangsa",
		SchoolAddress: "Jl. Merdeka No. 10, Bandung",
		ReceiptNumber: "KW/2025/12/001",
		Date:          time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC),
		Counterparty:  "Budi Santoso",
		Description:   "Pembayaran SPP Desember",
		CategoryName:  "SPP",
		Amount:        decimal.NewFromInt(1_500_000),
		PaymentMethod: "BANK_TRANSFER",
		Type:          "INCOME",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should be a PDF document")
}
