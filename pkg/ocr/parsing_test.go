package ocr

import "testing"

func TestFindAmountCurrencyMarked(t *testing.T) {
	amt, raw := findAmount("Transfer Berhasil\nRp 1.500.000\nBiaya admin Rp 2.500")
	if amt != 1500000 {
		t.Fatalf("expected 1500000 got %d (raw %q)", amt, raw)
	}
}

func TestFindAmountCentsTailDropped(t *testing.T) {
	amt, _ := findAmount("Jumlah: 10.000,00")
	if amt != 10000 {
		t.Fatalf("expected 10000 got %d", amt)
	}
	amt, _ = findAmount("Total IDR 7,500.00")
	if amt != 7500 {
		t.Fatalf("expected 7500 got %d", amt)
	}
}

func TestFindAmountNone(t *testing.T) {
	amt, raw := findAmount("tidak ada angka di sini")
	if amt != 0 || raw != "" {
		t.Fatalf("expected no match, got %d %q", amt, raw)
	}
}

func TestFindAmountImplausibleSkipped(t *testing.T) {
	// a bare account number must not be read as the amount
	amt, _ := findAmount("No. rekening 1234567890123456\nRp 250.000")
	if amt != 250000 {
		t.Fatalf("expected 250000 got %d", amt)
	}
}

func TestNormalizeAmount(t *testing.T) {
	amt, err := normalizeAmount("1.500.000,00")
	if err != nil || amt != 1500000 {
		t.Fatalf("expected 1500000 got %d err=%v", amt, err)
	}
}
