package importer

import (
	"strings"

	"sikeu/models"
)

// CoaRef is the slice of a resolved COA account the importer cares about:
// identity for linking plus the root accounting type as a classification
// hint.
type CoaRef struct {
	ID       uint
	Code     string
	Name     string
	RootType string
}

var incomeKeywords = []string{
	"pendapatan", "pemasukan", "penerimaan", "income", "revenue",
	"spp", "uang sekolah", "donasi", "bantuan",
}

var expenseKeywords = []string{
	"pengeluaran", "biaya", "belanja", "expense", "beban",
	"operasional", "gaji", "honor",
}

// classifyRule is one (predicate, outcome) pair. Rules run in order and
// the first hit wins, which makes the precedence explicit: COA hint, then
// income keywords, then expense keywords, then the EXPENSE default.
type classifyRule struct {
	name  string
	apply func(label string, coa *CoaRef) (string, bool)
}

var classifyRules = []classifyRule{
	{"coa-hint", func(_ string, coa *CoaRef) (string, bool) {
		if coa == nil {
			return "", false
		}
		switch coa.RootType {
		case models.CoaRevenue:
			return models.TypeIncome, true
		case models.CoaExpense:
			return models.TypeExpense, true
		}
		return "", false
	}},
	{"income-keywords", func(label string, _ *CoaRef) (string, bool) {
		return models.TypeIncome, containsAny(label, incomeKeywords)
	}},
	{"expense-keywords", func(label string, _ *CoaRef) (string, bool) {
		return models.TypeExpense, containsAny(label, expenseKeywords)
	}},
	{"default-expense", func(string, *CoaRef) (string, bool) {
		return models.TypeExpense, true
	}},
}

// Classify decides INCOME or EXPENSE for a row. Pure: same inputs, same
// answer. It always returns a value because the last rule always matches.
func Classify(label string, coa *CoaRef) string {
	lower := strings.ToLower(label)
	for _, r := range classifyRules {
		if out, ok := r.apply(lower, coa); ok {
			return out
		}
	}
	return models.TypeExpense // unreachable, the default rule matches
}

// PaymentMethod maps a free-text cell onto a payment method constant.
func PaymentMethod(label string) string {
	lower := strings.ToLower(label)
	switch {
	case containsAny(lower, []string{"transfer", "bank"}):
		return models.PayBankTransfer
	case containsAny(lower, []string{"qris", "qr"}):
		return models.PayQris
	default:
		return models.PayCash
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
