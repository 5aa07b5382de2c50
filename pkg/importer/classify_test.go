package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sikeu/models"
)

func TestClassifyCoaHintWinsOverKeywords(t *testing.T) {
	// label says expense, COA says revenue: the hint has precedence
	coa := &CoaRef{ID: 1, Code: "4.1.1", Name: "SPP", RootType: models.CoaRevenue}
	assert.Equal(t, models.TypeIncome, Classify("biaya operasional", coa))

	coa.RootType = models.CoaExpense
	assert.Equal(t, models.TypeExpense, Classify("pendapatan spp", coa))
}

func TestClassifyCoaNonOperatingTypeFallsThrough(t *testing.T) {
	// an ASSET account gives no hint, keywords decide
	coa := &CoaRef{ID: 2, Code: "1.1.1", Name: "Kas", RootType: models.CoaAsset}
	assert.Equal(t, models.TypeIncome, Classify("penerimaan donasi", coa))
}

func TestClassifyKeywords(t *testing.T) {
	cases := map[string]string{
		"Pendapatan SPP":       models.TypeIncome,
		"uang sekolah kelas 1": models.TypeIncome,
		"Donasi alumni":        models.TypeIncome,
		"Gaji guru honorer":    models.TypeExpense,
		"Belanja ATK":          models.TypeExpense,
		"beban listrik":        models.TypeExpense,
		"sesuatu tak terduga":  models.TypeExpense, // default
		"":                     models.TypeExpense, // default
	}
	for label, want := range cases {
		assert.Equal(t, want, Classify(label, nil), "label %q", label)
	}
}

func TestClassifyIncomeBeforeExpense(t *testing.T) {
	// both keyword sets match; income is checked first and wins
	assert.Equal(t, models.TypeIncome, Classify("pendapatan dari biaya pendaftaran", nil))
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify("Pemasukan kantin", nil)
	b := Classify("Pemasukan kantin", nil)
	assert.Equal(t, a, b)
}

func TestPaymentMethod(t *testing.T) {
	assert.Equal(t, models.PayBankTransfer, PaymentMethod("Transfer BCA"))
	assert.Equal(t, models.PayBankTransfer, PaymentMethod("bank mandiri"))
	assert.Equal(t, models.PayQris, PaymentMethod("QRIS"))
	assert.Equal(t, models.PayQris, PaymentMethod("bayar via qr"))
	assert.Equal(t, models.PayCash, PaymentMethod("tunai"))
	assert.Equal(t, models.PayCash, PaymentMethod(""))
}
