package importer

import "strings"

// Logical columns of an import sheet. Header cells are matched against
// alias lists case-insensitively; unrecognized columns are ignored.
const (
	colDate         = "date"
	colDescription  = "description"
	colAmount       = "amount"
	colCounterparty = "counterparty"
	colCoa          = "coa"
	colCategory     = "category"
	colPayment      = "payment"
)

var columnAliases = map[string][]string{
	colDate:         {"tanggal", "tgl", "date"},
	colDescription:  {"keterangan", "deskripsi", "uraian", "description"},
	colAmount:       {"nominal", "jumlah", "nilai", "amount"},
	colCounterparty: {"nama", "pembayar", "penerima", "name", "counterparty"},
	colCoa:          {"akun", "kode akun", "akun coa", "account", "coa"},
	colCategory:     {"kategori", "category"},
	colPayment:      {"metode", "metode pembayaran", "pembayaran", "payment", "payment method"},
}

// mapHeader resolves a header row into logical-column -> cell-index.
// First matching alias wins so duplicate headers keep the leftmost column.
func mapHeader(cells []string) map[string]int {
	out := make(map[string]int, len(columnAliases))
	for i, cell := range cells {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		for col, aliases := range columnAliases {
			if _, taken := out[col]; taken {
				continue
			}
			for _, a := range aliases {
				if name == a {
					out[col] = i
					break
				}
			}
		}
	}
	return out
}

// cellAt returns the trimmed cell at idx, tolerating short rows (excelize
// drops trailing empty cells from GetRows).
func cellAt(cells []string, idx int, ok bool) string {
	if !ok || idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
