package main

import (
	"fmt"
	"net/http"
	"time"

	"sikeu/models"
	"sikeu/pkg/laporan"
	"sikeu/pkg/terbilang"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	trendMonthsAdmin    = 6
	trendMonthsOperator = 3
	operatorMaxMonths   = 3
)

// laporanReport is the assembled report shared by the JSON, Excel and PDF
// endpoints.
type laporanReport struct {
	SchoolName  string                 `json:"sekolah"`
	PeriodStart string                 `json:"periode_mulai"`
	PeriodEnd   string                 `json:"periode_akhir"`
	Summary     laporan.Summary        `json:"ringkasan"`
	Balance     decimal.Decimal        `json:"saldo"`
	PerKategori []laporan.BreakdownRow `json:"per_kategori"`
	PerCoa      []laporan.BreakdownRow `json:"per_coa"`
	Trend       []laporan.TrendPoint   `json:"tren"`
}

// resolveLaporan parses the period query parameters and applies the
// operator lookback clamp. Administrators report over any range.
func resolveLaporan(c *gin.Context) (*gormScope, laporan.Periode, int, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, laporan.Periode{}, 0, false
	}
	scope, ok := scopeSchool(c, user)
	if !ok {
		return nil, laporan.Periode{}, 0, false
	}
	now := time.Now()
	p, err := laporan.Resolve(c.Query("period"), c.Query("start"), c.Query("end"), now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, laporan.Periode{}, 0, false
	}
	trendMonths := trendMonthsAdmin
	if !isAdministrator(c) {
		p = p.ClampMonths(now, operatorMaxMonths)
		trendMonths = trendMonthsOperator
	}
	return scope, p, trendMonths, true
}

func scopedPaid(scope *gormScope) *gorm.DB {
	q := db.Model(&models.Transaction{}).Where("status = ?", models.StatusPaid)
	if scope.SchoolID != nil {
		q = q.Where("school_id = ?", *scope.SchoolID)
	}
	return q
}

func summaryFor(scope *gormScope, p laporan.Periode) (laporan.Summary, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
		Count int64
	}
	err := scopedPaid(scope).
		Where("date BETWEEN ? AND ?", p.Start, p.End).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return laporan.Summary{}, err
	}
	var s laporan.Summary
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			s.TotalIncome = r.Total
			s.CountIncome = r.Count
		case models.TypeExpense:
			s.TotalExpense = r.Total
			s.CountExpense = r.Count
		}
	}
	return s, nil
}

func breakdownPerKategori(scope *gormScope, p laporan.Periode) ([]laporan.BreakdownRow, error) {
	var rows []laporan.BreakdownRow
	err := scopedPaid(scope).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.date BETWEEN ? AND ?", p.Start, p.End).
		Select("categories.name AS name, transactions.type AS type, COALESCE(SUM(transactions.amount), 0) AS total, COUNT(*) AS count").
		Group("categories.name, transactions.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	laporan.SortBreakdown(rows)
	return rows, nil
}

func breakdownPerCoa(scope *gormScope, p laporan.Periode) ([]laporan.BreakdownRow, error) {
	var rows []laporan.BreakdownRow
	err := scopedPaid(scope).
		Joins("JOIN coa_accounts ON coa_accounts.id = transactions.coa_account_id").
		Where("transactions.date BETWEEN ? AND ?", p.Start, p.End).
		Select("coa_accounts.name AS name, coa_accounts.code AS code, transactions.type AS type, COALESCE(SUM(transactions.amount), 0) AS total, COUNT(*) AS count").
		Group("coa_accounts.name, coa_accounts.code, transactions.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	laporan.SortBreakdown(rows)
	return rows, nil
}

func trendFor(scope *gormScope, now time.Time, months int) ([]laporan.TrendPoint, error) {
	out := make([]laporan.TrendPoint, 0, months)
	for _, m := range laporan.MonthsBack(now, months) {
		s, err := summaryFor(scope, m.Range(now.Location()))
		if err != nil {
			return nil, err
		}
		out = append(out, laporan.TrendPoint{
			Month:   m.Label(),
			Income:  s.TotalIncome,
			Expense: s.TotalExpense,
			Balance: s.Balance(),
		})
	}
	return out, nil
}

func buildLaporan(scope *gormScope, p laporan.Periode, trendMonths int) (*laporanReport, error) {
	summary, err := summaryFor(scope, p)
	if err != nil {
		return nil, err
	}
	perKategori, err := breakdownPerKategori(scope, p)
	if err != nil {
		return nil, err
	}
	perCoa, err := breakdownPerCoa(scope, p)
	if err != nil {
		return nil, err
	}
	trend, err := trendFor(scope, time.Now(), trendMonths)
	if err != nil {
		return nil, err
	}
	schoolName := "Semua Sekolah"
	if scope.SchoolID != nil {
		var school models.School
		if err := db.First(&school, *scope.SchoolID).Error; err == nil {
			schoolName = school.Name
		}
	}
	return &laporanReport{
		SchoolName:  schoolName,
		PeriodStart: p.Start.Format("2006-01-02"),
		PeriodEnd:   p.End.Format("2006-01-02"),
		Summary:     summary,
		Balance:     summary.Balance(),
		PerKategori: perKategori,
		PerCoa:      perCoa,
		Trend:       trend,
	}, nil
}

func laporanHandler(c *gin.Context) {
	scope, p, trendMonths, ok := resolveLaporan(c)
	if !ok {
		return
	}
	rep, err := buildLaporan(scope, p, trendMonths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyusun laporan"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// laporanDetail lists the PAID transactions behind a report, newest first.
func laporanDetail(scope *gormScope, p laporan.Periode) ([]models.Transaction, error) {
	var items []models.Transaction
	q := db.Preload("Category").Where("status = ?", models.StatusPaid)
	if scope.SchoolID != nil {
		q = q.Where("school_id = ?", *scope.SchoolID)
	}
	err := q.Where("date BETWEEN ? AND ?", p.Start, p.End).
		Order("date asc, id asc").
		Find(&items).Error
	return items, err
}

func laporanExcelHandler(c *gin.Context) {
	scope, p, trendMonths, ok := resolveLaporan(c)
	if !ok {
		return
	}
	rep, err := buildLaporan(scope, p, trendMonths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyusun laporan"})
		return
	}
	detail, err := laporanDetail(scope, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal memuat detail"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ringkasan"
	f.SetSheetName("Sheet1", sheet)
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheet, "A1", "Laporan Keuangan")
	f.SetCellValue(sheet, "A2", rep.SchoolName)
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Periode %s s/d %s", rep.PeriodStart, rep.PeriodEnd))
	f.SetCellStyle(sheet, "A1", "A1", bold)

	f.SetCellValue(sheet, "A5", "Total Pemasukan")
	f.SetCellValue(sheet, "B5", rep.Summary.TotalIncome.InexactFloat64())
	f.SetCellValue(sheet, "A6", "Total Pengeluaran")
	f.SetCellValue(sheet, "B6", rep.Summary.TotalExpense.InexactFloat64())
	f.SetCellValue(sheet, "A7", "Saldo")
	f.SetCellValue(sheet, "B7", rep.Balance.InexactFloat64())
	f.SetCellStyle(sheet, "A7", "B7", bold)

	row := 9
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Per Kategori")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++
	for _, col := range []struct{ cell, label string }{
		{"A", "Kategori"}, {"B", "Tipe"}, {"C", "Jumlah Transaksi"}, {"D", "Total"},
	} {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", col.cell, row), col.label)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), bold)
	row++
	for _, r := range rep.PerKategori {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Type)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Count)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Total.InexactFloat64())
		row++
	}

	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Per Akun COA")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++
	for _, col := range []struct{ cell, label string }{
		{"A", "Kode"}, {"B", "Akun"}, {"C", "Tipe"}, {"D", "Jumlah Transaksi"}, {"E", "Total"},
	} {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", col.cell, row), col.label)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), bold)
	row++
	for _, r := range rep.PerCoa {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Type)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Count)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Total.InexactFloat64())
		row++
	}

	detailSheet := "Detail"
	f.NewSheet(detailSheet)
	headers := []string{"Tanggal", "No. Kwitansi", "Keterangan", "Pihak", "Kategori", "Tipe", "Metode", "Nominal"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(detailSheet, cell, h)
	}
	f.SetCellStyle(detailSheet, "A1", "H1", bold)
	for i, t := range detail {
		values := []interface{}{
			t.Date.Format("2006-01-02"),
			t.ReceiptNumber,
			t.Description,
			t.Counterparty,
			t.Category.Name,
			t.Type,
			t.PaymentMethod,
			t.Amount.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(detailSheet, cell, v)
		}
	}

	filename := fmt.Sprintf("laporan_%s_%s.xlsx", rep.PeriodStart, rep.PeriodEnd)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func laporanPdfHandler(c *gin.Context) {
	scope, p, trendMonths, ok := resolveLaporan(c)
	if !ok {
		return
	}
	rep, err := buildLaporan(scope, p, trendMonths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyusun laporan"})
		return
	}
	detail, err := laporanDetail(scope, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal memuat detail"})
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "Laporan Keuangan", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, rep.SchoolName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Periode %s s/d %s", rep.PeriodStart, rep.PeriodEnd), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 7, "Total Pemasukan", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 7, "Total Pengeluaran", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 7, "Saldo", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(90, 7, terbilang.Rupiah(rep.Summary.TotalIncome), "1", 0, "R", false, 0, "")
	pdf.CellFormat(90, 7, terbilang.Rupiah(rep.Summary.TotalExpense), "1", 0, "R", false, 0, "")
	pdf.CellFormat(90, 7, terbilang.Rupiah(rep.Balance), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Rekap per Kategori", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 6, "Kategori", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Tipe", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Jumlah", "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 6, "Total", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rep.PerKategori {
		pdf.CellFormat(100, 6, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, r.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", r.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 6, terbilang.Rupiah(r.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	if len(rep.PerCoa) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Rekap per Akun COA", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(30, 6, "Kode", "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, "Akun", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, "Tipe", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, "Jumlah", "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 6, "Total", "1", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, r := range rep.PerCoa {
			pdf.CellFormat(30, 6, r.Code, "1", 0, "L", false, 0, "")
			pdf.CellFormat(90, 6, r.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, r.Type, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%d", r.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(60, 6, terbilang.Rupiah(r.Total), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Rincian Transaksi", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(24, 6, "Tanggal", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "No. Kwitansi", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 6, "Keterangan", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, "Kategori", "1", 0, "L", false, 0, "")
	pdf.CellFormat(24, 6, "Tipe", "1", 0, "L", false, 0, "")
	pdf.CellFormat(42, 6, "Nominal", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, t := range detail {
		desc := t.Description
		if len(desc) > 55 {
			desc = desc[:52] + "..."
		}
		pdf.CellFormat(24, 6, t.Date.Format("02/01/2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, t.ReceiptNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, t.Category.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, t.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(42, 6, terbilang.Rupiah(t.Amount), "1", 1, "R", false, 0, "")
	}

	filename := fmt.Sprintf("laporan_%s_%s.pdf", rep.PeriodStart, rep.PeriodEnd)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := pdf.Output(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
