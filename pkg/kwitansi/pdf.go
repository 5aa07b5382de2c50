package kwitansi

import (
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"sikeu/pkg/terbilang"
)

// Data carries everything the kwitansi PDF needs; callers assemble it from
// the transaction and its school so this package stays free of the ORM.
type Data struct {
	SchoolName    string
	SchoolAddress string
	SchoolPhone   string
	LogoPath      string
	ReceiptNumber string
	Date          time.Time
	Counterparty  string
	Description   string
	CategoryName  string
	Amount        decimal.Decimal
	PaymentMethod string
	Type          string
}

var paymentLabels = map[string]string{
	"CASH":          "Tunai",
	"BANK_TRANSFER": "Transfer Bank",
	"QRIS":          "QRIS",
}

// BuildPDF renders a single-page A4 kwitansi. A missing or unreadable logo
// degrades to a text-only header instead of failing the render.
func BuildPDF(w io.Writer, d Data) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 18, 20)
	pdf.AddPage()

	// Header: logo (best effort) + school identity.
	textX := 20.0
	if d.LogoPath != "" {
		if _, err := os.Stat(d.LogoPath); err == nil {
			pdf.Image(d.LogoPath, 20, 16, 22, 0, false, "", 0, "")
			textX = 46
		}
	}
	pdf.SetXY(textX, 18)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(0, 7, d.SchoolName, "", 1, "L", false, 0, "")
	pdf.SetX(textX)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 4.5, d.SchoolAddress, "", 1, "L", false, 0, "")
	if d.SchoolPhone != "" {
		pdf.SetX(textX)
		pdf.CellFormat(0, 4.5, "Telp. "+d.SchoolPhone, "", 1, "L", false, 0, "")
	}
	pdf.SetLineWidth(0.6)
	pdf.Line(20, 40, 190, 40)

	// Title block.
	pdf.SetY(46)
	pdf.SetFont("Helvetica", "B", 14)
	title := "KWITANSI"
	if d.Type == "EXPENSE" {
		title = "BUKTI PENGELUARAN"
	}
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "No. "+d.ReceiptNumber, "", 1, "C", false, 0, "")

	// Field table, fixed positions.
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(5, 8, ":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	pdf.SetY(64)
	label := "Telah diterima dari"
	if d.Type == "EXPENSE" {
		label = "Telah dibayarkan kepada"
	}
	row("Tanggal", d.Date.Format("02/01/2006"))
	row(label, d.Counterparty)
	row("Untuk pembayaran", d.Description)
	if d.CategoryName != "" {
		row("Kategori", d.CategoryName)
	}
	if m, ok := paymentLabels[d.PaymentMethod]; ok {
		row("Metode pembayaran", m)
	}

	// Amount box with terbilang line.
	pdf.SetY(pdf.GetY() + 6)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 12, terbilang.Rupiah(d.Amount), "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Terbilang: "+terbilang.WordsRupiah(d.Amount), "", 1, "C", false, 0, "")

	// Signature area.
	pdf.SetY(pdf.GetY() + 16)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(120)
	pdf.CellFormat(70, 6, d.Date.Format("02 January 2006"), "", 1, "C", false, 0, "")
	pdf.SetX(120)
	pdf.CellFormat(70, 6, "Bendahara,", "", 1, "C", false, 0, "")
	pdf.SetY(pdf.GetY() + 22)
	pdf.SetX(120)
	pdf.CellFormat(70, 6, "( __________________ )", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
