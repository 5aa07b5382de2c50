package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"sikeu/models"
	"sikeu/pkg/kwitansi"
)

// GormStore backs the importer with the application database. It is also
// used by the manual transaction-entry handler and the import inbox
// watcher, so every write path shares one numbering/upsert implementation.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// ResolveCoa matches term against active accounts: exact code first, then
// name substring, both case-insensitive. Ties break on lowest code so the
// answer never depends on storage order.
func (s *GormStore) ResolveCoa(term string) (*CoaRef, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	var acc models.CoaAccount
	err := s.DB.
		Preload("CoaSubCategory.CoaCategory").
		Where("is_active = ?", true).
		Where("LOWER(code) = LOWER(?) OR LOWER(name) LIKE LOWER(?)", term, "%"+term+"%").
		Order("code ASC").
		First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &CoaRef{
		ID:       acc.ID,
		Code:     acc.Code,
		Name:     acc.Name,
		RootType: acc.CoaSubCategory.CoaCategory.Type,
	}, nil
}

// GetOrCreateCategory looks up the natural key case-insensitively and
// creates the category when absent. Lookup-then-create is not atomic, so
// a duplicate-key error from a concurrent creator is retried as a lookup.
func (s *GormStore) GetOrCreateCategory(name, txType string, schoolID uint) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("nama kategori kosong")
	}
	find := func() (uint, error) {
		var cat models.Category
		err := s.DB.
			Where("LOWER(name) = LOWER(?) AND type = ? AND school_id = ?", name, txType, schoolID).
			First(&cat).Error
		if err != nil {
			return 0, err
		}
		return cat.ID, nil
	}
	if id, err := find(); err == nil {
		return id, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	cat := models.Category{
		Name:        name,
		Type:        txType,
		SchoolID:    schoolID,
		Description: "Dibuat otomatis saat impor transaksi",
		AutoCreated: true,
	}
	if err := s.DB.Create(&cat).Error; err != nil {
		if isUniqueViolation(err) {
			return find()
		}
		return 0, err
	}
	return cat.ID, nil
}

// CreateTransaction issues the receipt number and inserts the row in one
// database transaction, so the counter bump and the insert commit or roll
// back together.
func (s *GormStore) CreateTransaction(row *NewTransaction) (uint, string, error) {
	var (
		id     uint
		number string
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := kwitansi.Issue(tx, row.SchoolID, row.Date)
		if err != nil {
			return err
		}
		trx := models.Transaction{
			Type:          row.Type,
			Date:          row.Date,
			Amount:        row.Amount,
			Description:   row.Description,
			Counterparty:  row.Counterparty,
			CategoryID:    row.CategoryID,
			CoaAccountID:  row.CoaAccountID,
			PaymentMethod: row.PaymentMethod,
			Status:        models.StatusPaid,
			ReceiptNumber: n,
			SchoolID:      row.SchoolID,
			CreatedBy:     row.CreatedBy,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}
		id = trx.ID
		number = n
		return nil
	})
	if err != nil {
		return 0, "", err
	}
	return id, number, nil
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error
// (SQLSTATE 23505), with a message sniff as fallback for other drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint")
}
