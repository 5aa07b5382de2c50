package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sikeu/models"
	"sikeu/pkg/importer"
	"sikeu/pkg/kwitansi"

	"github.com/gin-gonic/gin"
)

// importTransaksiHandler accepts an .xlsx upload and imports its rows as
// transactions. Row failures are collected into the response; rows that
// were committed stay committed.
func importTransaksiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hanya file .xlsx yang didukung"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membuka file"})
		return
	}
	defer src.Close()

	im := &importer.Importer{
		Store:       importer.NewGormStore(db),
		AfterCreate: writeKwitansiPDF,
	}
	res, err := im.ImportXLSX(src, schoolID, user.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeKwitansiPDF renders the kwitansi for a freshly imported transaction
// to disk. Failures surface as import warnings, not row failures.
func writeKwitansiPDF(summary importer.RowSummary) error {
	var trx models.Transaction
	if err := db.Preload("Category").First(&trx, summary.TransactionID).Error; err != nil {
		return err
	}
	var school models.School
	if err := db.First(&school, trx.SchoolID).Error; err != nil {
		return err
	}
	dir := filepath.Join(uploadBaseDir(), "kwitansi", fmt.Sprintf("%d", trx.SchoolID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	name := strings.ReplaceAll(trx.ReceiptNumber, "/", "-") + ".pdf"
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer out.Close()
	return kwitansi.BuildPDF(out, kwitansi.Data{
		SchoolName:    school.Name,
		SchoolAddress: school.Address,
		SchoolPhone:   school.Phone,
		LogoPath:      school.LogoPath,
		ReceiptNumber: trx.ReceiptNumber,
		Date:          trx.Date,
		Counterparty:  trx.Counterparty,
		Description:   trx.Description,
		CategoryName:  trx.Category.Name,
		Amount:        trx.Amount,
		PaymentMethod: trx.PaymentMethod,
		Type:          trx.Type,
	})
}
