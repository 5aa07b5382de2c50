// Package importer turns an uploaded spreadsheet into transactions, one
// row at a time. A row failure is recorded and never aborts the batch;
// committed rows stay committed (append-only, best-effort import).
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// NewTransaction is what the importer asks the store to persist. The
// receipt number is issued by the store inside the same database
// transaction as the insert, so the pair cannot come apart.
type NewTransaction struct {
	SchoolID      uint
	CreatedBy     uint
	Type          string
	Date          time.Time
	Amount        decimal.Decimal
	Description   string
	Counterparty  string
	CategoryID    uint
	CoaAccountID  *uint
	PaymentMethod string
}

// Store is the persistence boundary of the importer.
type Store interface {
	// ResolveCoa matches a free-text code/name against active COA
	// accounts; nil means no match (blank input must not query).
	ResolveCoa(term string) (*CoaRef, error)
	// GetOrCreateCategory upserts by (name, type, school) natural key.
	GetOrCreateCategory(name, txType string, schoolID uint) (uint, error)
	// CreateTransaction persists the row and returns its id and the
	// receipt number issued for it.
	CreateTransaction(row *NewTransaction) (uint, string, error)
}

// RowSummary describes one successfully imported row.
type RowSummary struct {
	Row           int             `json:"baris"`
	TransactionID uint            `json:"transaksi_id"`
	ReceiptNumber string          `json:"no_kwitansi"`
	Type          string          `json:"tipe"`
	Amount        decimal.Decimal `json:"nominal"`
	Description   string          `json:"keterangan"`
}

// Result is the per-upload outcome returned once to the caller.
type Result struct {
	BatchID  string       `json:"batch_id"`
	Total    int          `json:"total"`
	Success  int          `json:"berhasil"`
	Failed   int          `json:"gagal"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
	Created  []RowSummary `json:"created"`
}

// Importer orchestrates one spreadsheet import. AfterCreate, when set,
// runs per created transaction (kwitansi PDF generation); its error is a
// warning on the result, never a row failure.
type Importer struct {
	Store       Store
	AfterCreate func(summary RowSummary) error
}

// ImportXLSX reads the first worksheet and processes its data rows in
// sheet order. Row numbers in messages are sheet rows, so the first data
// row under the header is "Baris 2".
func (im *Importer) ImportXLSX(r io.Reader, schoolID, actorID uint) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("file excel tidak dapat dibaca: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("baca sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q tidak memiliki baris data", sheet)
	}

	header := mapHeader(rows[0])
	res := &Result{BatchID: uuid.NewString()}
	for i, cells := range rows[1:] {
		rowNum := i + 2
		if blankRow(cells) {
			continue
		}
		res.Total++
		summary, err := im.importRow(header, cells, rowNum, schoolID, actorID)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Baris %d: %s", rowNum, err))
			continue
		}
		res.Success++
		res.Created = append(res.Created, *summary)
		if im.AfterCreate != nil {
			if err := im.AfterCreate(*summary); err != nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("Baris %d: kwitansi PDF gagal dibuat: %v", rowNum, err))
			}
		}
	}
	return res, nil
}

func (im *Importer) importRow(header map[string]int, cells []string, rowNum int, schoolID, actorID uint) (*RowSummary, error) {
	get := func(col string) string {
		idx, ok := header[col]
		return cellAt(cells, idx, ok)
	}

	dateStr := get(colDate)
	description := get(colDescription)
	amountStr := get(colAmount)
	if dateStr == "" || description == "" || amountStr == "" {
		return nil, fmt.Errorf("kolom wajib tidak lengkap (tanggal, keterangan, nominal)")
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("Format tanggal tidak valid (%s)", dateStr)
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return nil, fmt.Errorf("Nominal tidak valid (%s)", amountStr)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("Nominal harus lebih dari 0 (%s)", amountStr)
	}

	var coa *CoaRef
	if term := get(colCoa); term != "" {
		coa, err = im.Store.ResolveCoa(term)
		if err != nil {
			return nil, fmt.Errorf("gagal mencari akun COA %q: %v", term, err)
		}
	}

	// Classification looks at the explicit category cell first, falling
	// back to the description when the sheet has no category column.
	label := get(colCategory)
	if label == "" {
		label = description
	}
	txType := Classify(label, coa)

	categoryName := get(colCategory)
	if categoryName == "" {
		if coa != nil {
			categoryName = coa.Name
		} else {
			categoryName = "Lain-lain"
		}
	}
	categoryID, err := im.Store.GetOrCreateCategory(categoryName, txType, schoolID)
	if err != nil {
		return nil, fmt.Errorf("gagal menyiapkan kategori %q: %v", categoryName, err)
	}

	row := &NewTransaction{
		SchoolID:      schoolID,
		CreatedBy:     actorID,
		Type:          txType,
		Date:          date,
		Amount:        amount,
		Description:   description,
		Counterparty:  get(colCounterparty),
		CategoryID:    categoryID,
		PaymentMethod: PaymentMethod(get(colPayment)),
	}
	if coa != nil {
		id := coa.ID
		row.CoaAccountID = &id
	}
	txID, receiptNumber, err := im.Store.CreateTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("gagal menyimpan transaksi: %v", err)
	}
	return &RowSummary{
		Row:           rowNum,
		TransactionID: txID,
		ReceiptNumber: receiptNumber,
		Type:          txType,
		Amount:        amount,
		Description:   description,
	}, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
