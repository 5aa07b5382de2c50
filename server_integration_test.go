package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"sikeu/models"
	"sikeu/pkg/importer"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	_ = os.Setenv("UPLOAD_BASE", t.TempDir())
	initDB()
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login %s failed status=%d body=%s", username, resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	token := loginAs(t, r, "admin", "admin123")

	// 1. Seeded school is visible
	resp := performRequest(r, http.MethodGet, "/sekolah", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get sekolah failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var school map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &school)
	schoolID := int(school["ID"].(float64))

	// 2. Register an operator bound to the school
	regBody, _ := json.Marshal(map[string]any{"username": "op1", "password": "pass01", "school_id": schoolID})
	resp = performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	opToken := loginAs(t, r, "op1", "pass01")

	// 3. Create a category
	catBody, _ := json.Marshal(map[string]string{"name": "SPP Integrasi", "type": "INCOME"})
	resp = performRequest(r, http.MethodPost, "/kategori", bytes.NewBuffer(catBody), opToken, "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("create kategori failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/kategori?type=INCOME", nil, opToken, "")
	if resp.Code != 200 {
		t.Fatalf("list kategori failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var cats []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &cats)
	var catID int
	for _, c := range cats {
		if c["Name"] == "SPP Integrasi" {
			catID = int(c["ID"].(float64))
		}
	}
	if catID == 0 {
		t.Fatalf("created category not listed: %s", resp.Body.String())
	}

	// 4. Record a transaction, receipt number comes back with it
	trxBody, _ := json.Marshal(map[string]any{
		"type":        "INCOME",
		"date":        time.Now().Format("2006-01-02"),
		"amount":      "150000",
		"description": "SPP Agustus integrasi",
		"category_id": catID,
	})
	resp = performRequest(r, http.MethodPost, "/transaksi", bytes.NewBuffer(trxBody), opToken, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create transaksi failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	trxID := int(created["id"].(float64))
	if created["receipt_number"] == "" {
		t.Fatalf("no receipt number issued: %+v", created)
	}

	// 5. Kwitansi PDF streams
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/transaksi/%d/kwitansi", trxID), nil, opToken, "")
	if resp.Code != 200 || resp.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("kwitansi pdf failed status=%d content-type=%s", resp.Code, resp.Header().Get("Content-Type"))
	}

	// 6. Import a two-row sheet with one broken date; the good row lands
	xf := excelize.NewFile()
	sheet := xf.GetSheetName(0)
	_ = xf.SetSheetRow(sheet, "A1", &[]string{"Tanggal", "Keterangan", "Nominal"})
	_ = xf.SetSheetRow(sheet, "A2", &[]string{"15/08/2026", "Pembayaran SPP kelas 7", "250000"})
	_ = xf.SetSheetRow(sheet, "A3", &[]string{"bukan-tanggal", "Baris rusak", "10000"})
	var sheetBuf bytes.Buffer
	_ = xf.Write(&sheetBuf)

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, _ := mw.CreateFormFile("file", "import.xlsx")
	_, _ = fw.Write(sheetBuf.Bytes())
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/import/transaksi", buf, opToken, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("import failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var importRes map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &importRes)
	if importRes["berhasil"].(float64) != 1 || importRes["gagal"].(float64) != 1 {
		t.Fatalf("unexpected import result: %s", resp.Body.String())
	}

	// 7. Report reflects the PAID rows
	resp = performRequest(r, http.MethodGet, "/laporan?period=bulan-ini", nil, opToken, "")
	if resp.Code != 200 {
		t.Fatalf("laporan failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Exports stream with attachment headers
	resp = performRequest(r, http.MethodGet, "/laporan/export/excel", nil, opToken, "")
	if resp.Code != 200 {
		t.Fatalf("laporan excel failed status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/laporan/export/pdf", nil, opToken, "")
	if resp.Code != 200 {
		t.Fatalf("laporan pdf failed status=%d", resp.Code)
	}

	// 9. Void drops the transaction from reports but keeps the row
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/transaksi/%d/void", trxID), nil, opToken, "")
	if resp.Code != 200 {
		t.Fatalf("void failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/transaksi/%d", trxID), nil, opToken, "")
	if resp.Code != 200 {
		t.Fatalf("get voided transaksi failed status=%d", resp.Code)
	}
	var voided map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &voided)
	if voided["Status"] != "VOID" {
		t.Fatalf("expected VOID status, got %v", voided["Status"])
	}

	// 10. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/transaksi", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list transaksi got %d", unauth.Code)
	}
}

// TestReceiptMonthlyReset records transactions in two different months
// for a fresh school and checks the counter restarts at 001 on the month
// change while staying sequential within a month.
func TestReceiptMonthlyReset(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
	school := models.School{
		Name:           "SMP Reset Bulanan",
		ReceiptFormat:  models.DefaultReceiptFormat,
		ReceiptCounter: 1,
		ReceiptReset:   models.ResetMonthly,
	}
	if err := db.Create(&school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	cat := models.Category{Name: "SPP Reset", Type: models.TypeIncome, SchoolID: school.ID}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	store := importer.NewGormStore(db)
	record := func(dateStr string) string {
		t.Helper()
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			t.Fatalf("parse %s: %v", dateStr, err)
		}
		_, number, err := store.CreateTransaction(&importer.NewTransaction{
			SchoolID:      school.ID,
			Type:          models.TypeIncome,
			Date:          date,
			Amount:        decimal.NewFromInt(100000),
			Description:   "SPP " + dateStr,
			CategoryID:    cat.ID,
			PaymentMethod: models.PayCash,
		})
		if err != nil {
			t.Fatalf("create transaction %s: %v", dateStr, err)
		}
		return number
	}

	if n := record("2026-07-10"); !strings.HasSuffix(n, "/001") {
		t.Fatalf("first receipt of the month should end /001, got %s", n)
	}
	if n := record("2026-07-20"); !strings.HasSuffix(n, "/002") {
		t.Fatalf("second receipt in the same month should end /002, got %s", n)
	}
	if n := record("2026-08-02"); !strings.HasSuffix(n, "/001") {
		t.Fatalf("month change should reset the counter to /001, got %s", n)
	}
}

// TestCategoryUpsertIdempotent runs the same (name, type, school) upsert
// twice, case varied, and expects one row and one id back.
func TestCategoryUpsertIdempotent(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
	school := models.School{Name: "SMP Upsert", ReceiptFormat: models.DefaultReceiptFormat, ReceiptCounter: 1, ReceiptReset: models.ResetNever}
	if err := db.Create(&school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}

	store := importer.NewGormStore(db)
	id1, err := store.GetOrCreateCategory("Dana BOS", models.TypeIncome, school.ID)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	id2, err := store.GetOrCreateCategory("dana bos", models.TypeIncome, school.ID)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("upsert not idempotent: got ids %d and %d", id1, id2)
	}
	var cnt int64
	db.Model(&models.Category{}).Where("school_id = ?", school.ID).Count(&cnt)
	if cnt != 1 {
		t.Fatalf("expected 1 category row for the school, got %d", cnt)
	}
	// same name under the other type is a different category
	id3, err := store.GetOrCreateCategory("Dana BOS", models.TypeExpense, school.ID)
	if err != nil {
		t.Fatalf("expense upsert: %v", err)
	}
	if id3 == id1 {
		t.Fatalf("EXPENSE category should not reuse the INCOME id %d", id1)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
