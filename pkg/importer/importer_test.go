package importer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sikeu/models"
)

// fakeStore records created rows in memory and issues KW/<n> numbers.
type fakeStore struct {
	coa        map[string]*CoaRef
	categories map[string]uint
	created    []NewTransaction
	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{coa: map[string]*CoaRef{}, categories: map[string]uint{}}
}

func (s *fakeStore) ResolveCoa(term string) (*CoaRef, error) {
	return s.coa[strings.ToLower(term)], nil
}

func (s *fakeStore) GetOrCreateCategory(name, txType string, schoolID uint) (uint, error) {
	key := fmt.Sprintf("%s|%s|%d", strings.ToLower(name), txType, schoolID)
	if id, ok := s.categories[key]; ok {
		return id, nil
	}
	id := uint(len(s.categories) + 1)
	s.categories[key] = id
	return id, nil
}

func (s *fakeStore) CreateTransaction(row *NewTransaction) (uint, string, error) {
	if s.failCreate {
		return 0, "", fmt.Errorf("db down")
	}
	s.created = append(s.created, *row)
	id := uint(len(s.created))
	return id, fmt.Sprintf("KW/%03d", id), nil
}

func sheetBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportTwoRowsOneInvalidDate(t *testing.T) {
	store := newFakeStore()
	im := &Importer{Store: store}

	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal"},
		{"17/12/2025", "Pendapatan SPP", "1500000"},
		{"invalid-date", "X", "100"},
	})
	res, err := im.ImportXLSX(buf, 1, 9)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Baris 3: Format tanggal tidak valid (invalid-date)", res.Errors[0])

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, models.TypeIncome, created.Type)
	assert.Equal(t, "1500000", created.Amount.String())
	assert.Equal(t, "Pendapatan SPP", created.Description)
	assert.Equal(t, uint(1), created.SchoolID)
	assert.Equal(t, uint(9), created.CreatedBy)
}

func TestImportMissingRequiredFields(t *testing.T) {
	store := newFakeStore()
	im := &Importer{Store: store}

	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal"},
		{"17/12/2025", "", "5000"},   // no description
		{"", "Belanja ATK", "5000"},  // no date
		{"18/12/2025", "Donasi", ""}, // no amount
		{"19/12/2025", "Gaji guru", "250000"},
	})
	res, err := im.ImportXLSX(buf, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 3, res.Failed)
	assert.Len(t, res.Errors, 3)
	for _, e := range res.Errors {
		assert.Contains(t, e, "kolom wajib tidak lengkap")
	}
	// later rows still processed after failures
	require.Len(t, store.created, 1)
	assert.Equal(t, models.TypeExpense, store.created[0].Type)
}

func TestImportZeroAmountRejected(t *testing.T) {
	store := newFakeStore()
	im := &Importer{Store: store}

	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal"},
		{"17/12/2025", "Pendapatan SPP", "0"},
	})
	res, err := im.ImportXLSX(buf, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Nominal harus lebih dari 0")
	assert.Empty(t, store.created)
}

func TestImportUsesCoaAndCategoryColumns(t *testing.T) {
	store := newFakeStore()
	store.coa["4.1.1"] = &CoaRef{ID: 41, Code: "4.1.1", Name: "Pendapatan SPP", RootType: models.CoaRevenue}
	im := &Importer{Store: store}

	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal", "Akun", "Kategori", "Metode"},
		{"17/12/2025", "SPP Januari kelas 2", "750000", "4.1.1", "SPP", "Transfer BRI"},
	})
	res, err := im.ImportXLSX(buf, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, models.TypeIncome, created.Type)
	require.NotNil(t, created.CoaAccountID)
	assert.Equal(t, uint(41), *created.CoaAccountID)
	assert.Equal(t, models.PayBankTransfer, created.PaymentMethod)

	// category upserted under the INCOME type for school 3
	_, ok := store.categories["spp|INCOME|3"]
	assert.True(t, ok, "categories: %v", store.categories)
}

func TestImportAfterCreateFailureIsWarning(t *testing.T) {
	store := newFakeStore()
	im := &Importer{
		Store: store,
		AfterCreate: func(RowSummary) error {
			return fmt.Errorf("printer on fire")
		},
	}
	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal"},
		{"17/12/2025", "Donasi alumni", "200000"},
	})
	res, err := im.ImportXLSX(buf, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Zero(t, res.Failed)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "printer on fire")
}

func TestImportCreateFailureIsRowError(t *testing.T) {
	store := newFakeStore()
	store.failCreate = true
	im := &Importer{Store: store}
	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal"},
		{"17/12/2025", "Donasi alumni", "200000"},
	})
	res, err := im.ImportXLSX(buf, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "gagal menyimpan transaksi")
}

func TestImportBlankRowsSkipped(t *testing.T) {
	store := newFakeStore()
	im := &Importer{Store: store}
	buf := sheetBytes(t, [][]interface{}{
		{"Tanggal", "Keterangan", "Nominal"},
		{"17/12/2025", "Donasi", "200000"},
		{"", "", ""},
		{"18/12/2025", "Donasi lagi", "100000"},
	})
	res, err := im.ImportXLSX(buf, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Success)
}
