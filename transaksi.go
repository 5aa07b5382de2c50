package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"sikeu/models"
	"sikeu/pkg/importer"
	"sikeu/pkg/kwitansi"
	"sikeu/pkg/ocr"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func parseTransaksiDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return importer.ParseDate(s)
}

// createTransaksiHandler records a single transaction. The receipt number
// is issued inside the same database transaction as the insert (shared
// with the import path through importer.GormStore).
func createTransaksiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	schoolID, ok := requireSchool(c, user)
	if !ok {
		return
	}
	var req struct {
		Type          string          `json:"type" binding:"required"`
		Date          string          `json:"date" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Description   string          `json:"description" binding:"required"`
		Counterparty  string          `json:"counterparty"`
		CategoryID    uint            `json:"category_id" binding:"required"`
		CoaAccountID  *uint           `json:"coa_account_id"`
		PaymentMethod string          `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != models.TypeIncome && req.Type != models.TypeExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type harus INCOME atau EXPENSE"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount harus lebih dari 0"})
		return
	}
	date, err := parseTransaksiDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("format tanggal tidak valid (%s)", req.Date)})
		return
	}
	var cat models.Category
	if err := db.Where("id = ? AND school_id = ?", req.CategoryID, schoolID).First(&cat).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kategori tidak ditemukan"})
		return
	}
	if cat.Type != req.Type {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipe kategori tidak cocok dengan tipe transaksi"})
		return
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PayCash
	}
	if method != models.PayCash && method != models.PayBankTransfer && method != models.PayQris {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method tidak dikenali"})
		return
	}

	store := importer.NewGormStore(db)
	id, number, err := store.CreateTransaction(&importer.NewTransaction{
		SchoolID:      schoolID,
		CreatedBy:     user.ID,
		Type:          req.Type,
		Date:          date,
		Amount:        req.Amount,
		Description:   req.Description,
		Counterparty:  req.Counterparty,
		CategoryID:    cat.ID,
		CoaAccountID:  req.CoaAccountID,
		PaymentMethod: method,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan transaksi"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "receipt_number": number})
}

func listTransaksiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	scope, ok := scopeSchool(c, user)
	if !ok {
		return
	}
	q := db.Model(&models.Transaction{}).Preload("Category")
	if scope.SchoolID != nil {
		q = q.Where("school_id = ?", *scope.SchoolID)
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if cid := c.Query("category_id"); cid != "" {
		q = q.Where("category_id = ?", cid)
	}
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			q = q.Where("date >= ?", t)
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			q = q.Where("date < ?", t.AddDate(0, 0, 1))
		}
	}
	var items []models.Transaction
	if err := q.Order("date desc, id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// loadScopedTransaksi fetches a transaction the caller may touch.
func loadScopedTransaksi(c *gin.Context, user *models.User) (*models.Transaction, bool) {
	var trx models.Transaction
	if err := db.Preload("Category").First(&trx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaksi tidak ditemukan"})
		return nil, false
	}
	if !isAdministrator(c) && (user.SchoolID == nil || trx.SchoolID != *user.SchoolID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &trx, true
}

func getTransaksiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	trx, ok := loadScopedTransaksi(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, trx)
}

func updateTransaksiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	trx, ok := loadScopedTransaksi(c, user)
	if !ok {
		return
	}
	if trx.Status == models.StatusVoid {
		c.JSON(http.StatusConflict, gin.H{"error": "transaksi sudah dibatalkan"})
		return
	}
	var req struct {
		Date          string           `json:"date"`
		Amount        *decimal.Decimal `json:"amount"`
		Description   string           `json:"description"`
		Counterparty  string           `json:"counterparty"`
		CategoryID    *uint            `json:"category_id"`
		CoaAccountID  *uint            `json:"coa_account_id"`
		PaymentMethod string           `json:"payment_method"`
		Status        string           `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date != "" {
		date, err := parseTransaksiDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format tanggal tidak valid"})
			return
		}
		trx.Date = date
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount harus lebih dari 0"})
			return
		}
		trx.Amount = *req.Amount
	}
	if req.Description != "" {
		trx.Description = req.Description
	}
	if req.Counterparty != "" {
		trx.Counterparty = req.Counterparty
	}
	if req.CategoryID != nil {
		var cat models.Category
		if err := db.Where("id = ? AND school_id = ?", *req.CategoryID, trx.SchoolID).First(&cat).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kategori tidak ditemukan"})
			return
		}
		// the type follows the category on an explicit recategorization;
		// it is never changed implicitly
		trx.CategoryID = cat.ID
		trx.Type = cat.Type
	}
	if req.CoaAccountID != nil {
		trx.CoaAccountID = req.CoaAccountID
	}
	if req.PaymentMethod != "" {
		if req.PaymentMethod != models.PayCash && req.PaymentMethod != models.PayBankTransfer && req.PaymentMethod != models.PayQris {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method tidak dikenali"})
			return
		}
		trx.PaymentMethod = req.PaymentMethod
	}
	if req.Status != "" {
		if req.Status != models.StatusPaid && req.Status != models.StatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status harus PAID atau PENDING (gunakan /void untuk membatalkan)"})
			return
		}
		trx.Status = req.Status
	}
	if err := db.Save(trx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal menyimpan transaksi"})
		return
	}
	c.JSON(http.StatusOK, trx)
}

// voidTransaksiHandler cancels a transaction without deleting it; voided
// rows keep their receipt number but drop out of every report.
func voidTransaksiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	trx, ok := loadScopedTransaksi(c, user)
	if !ok {
		return
	}
	if trx.Status == models.StatusVoid {
		c.JSON(http.StatusConflict, gin.H{"error": "transaksi sudah dibatalkan"})
		return
	}
	trx.Status = models.StatusVoid
	if err := db.Save(trx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membatalkan transaksi"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaksi dibatalkan", "id": trx.ID})
}

// kwitansiPdfHandler streams the kwitansi PDF for one transaction.
func kwitansiPdfHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	trx, ok := loadScopedTransaksi(c, user)
	if !ok {
		return
	}
	var school models.School
	if err := db.First(&school, trx.SchoolID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sekolah tidak ditemukan"})
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=kwitansi_%d.pdf", trx.ID))
	if err := kwitansi.BuildPDF(c.Writer, kwitansi.Data{
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
	}); err != nil {
		log.Printf("kwitansi pdf for transaksi %d failed: %v", trx.ID, err)
	}
}

// uploadBuktiHandler attaches a proof-of-payment image to a transaction
// and cross-checks the OCR-detected amount. OCR problems degrade to a
// warning; the upload itself still succeeds.
func uploadBuktiHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	trx, ok := loadScopedTransaksi(c, user)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	dir := filepath.Join(uploadBaseDir(), "bukti", fmt.Sprintf("%d", trx.SchoolID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	fullPath := filepath.Join(dir, fmt.Sprintf("%d_%s", trx.ID, filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	trx.ProofPath = fullPath

	resp := gin.H{"id": trx.ID, "proof_path": fullPath}
	if amt, raw, err := ocr.ExtractAmount(fullPath); err != nil {
		log.Printf("bukti OCR for transaksi %d failed: %v", trx.ID, err)
		resp["warning"] = "OCR gagal membaca nominal bukti"
	} else if amt > 0 {
		detected := decimal.NewFromInt(amt)
		trx.ProofAmount = &detected
		resp["ocr_amount"] = detected
		resp["ocr_raw"] = raw
		if !detected.Equal(trx.Amount) {
			resp["warning"] = fmt.Sprintf("nominal bukti (%s) berbeda dengan transaksi (%s)", detected, trx.Amount)
		}
	}
	if err := db.Save(trx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
