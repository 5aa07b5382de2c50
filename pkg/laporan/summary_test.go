package laporan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestBalance(t *testing.T) {
	s := Summary{TotalIncome: d(5_000_000), TotalExpense: d(1_250_000)}
	assert.True(t, s.Balance().Equal(d(3_750_000)))

	neg := Summary{TotalIncome: d(100), TotalExpense: d(500)}
	assert.True(t, neg.Balance().Equal(d(-400)))
}

func TestSortBreakdown(t *testing.T) {
	rows := []BreakdownRow{
		{Name: "ATK", Type: "EXPENSE", Total: d(50_000)},
		{Name: "SPP", Type: "INCOME", Total: d(3_000_000)},
		{Name: "Donasi", Type: "INCOME", Total: d(200_000)},
		{Name: "Aqua", Type: "EXPENSE", Total: d(50_000)},
	}
	SortBreakdown(rows)
	assert.Equal(t, "SPP", rows[0].Name)
	assert.Equal(t, "Donasi", rows[1].Name)
	// equal totals tie-break on name
	assert.Equal(t, "ATK", rows[2].Name)
	assert.Equal(t, "Aqua", rows[3].Name)
}

func TestSumBreakdownReconcilesWithTotals(t *testing.T) {
	rows := []BreakdownRow{
		{Name: "SPP", Type: "INCOME", Total: d(3_000_000)},
		{Name: "Donasi", Type: "INCOME", Total: d(200_000)},
		{Name: "Gaji", Type: "EXPENSE", Total: d(1_000_000)},
	}
	s := Summary{TotalIncome: d(3_200_000), TotalExpense: d(1_000_000)}
	assert.True(t, SumBreakdown(rows, "INCOME").Equal(s.TotalIncome))
	assert.True(t, SumBreakdown(rows, "EXPENSE").Equal(s.TotalExpense))
}
