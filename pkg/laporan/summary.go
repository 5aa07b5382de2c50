package laporan

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary is the headline block of a report: PAID totals per type.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_pemasukan"`
	TotalExpense decimal.Decimal `json:"total_pengeluaran"`
	CountIncome  int64           `json:"jumlah_pemasukan"`
	CountExpense int64           `json:"jumlah_pengeluaran"`
}

// Balance is income minus expense.
func (s Summary) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// BreakdownRow is one line of a per-category or per-COA-account
// breakdown.
type BreakdownRow struct {
	Name  string          `json:"nama"`
	Code  string          `json:"kode,omitempty"`
	Type  string          `json:"tipe"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"jumlah"`
}

// SortBreakdown orders rows by amount descending; equal amounts fall back
// to name so the order is deterministic regardless of query order.
func SortBreakdown(rows []BreakdownRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].Name < rows[j].Name
	})
}

// SumBreakdown totals the rows of one type; reports use it to check that
// breakdowns reconcile with the headline totals.
func SumBreakdown(rows []BreakdownRow, txType string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if r.Type == txType {
			total = total.Add(r.Total)
		}
	}
	return total
}

// TrendPoint is one month of the trailing trend series.
type TrendPoint struct {
	Month   string          `json:"bulan"`
	Income  decimal.Decimal `json:"pemasukan"`
	Expense decimal.Decimal `json:"pengeluaran"`
	Balance decimal.Decimal `json:"saldo"`
}
