package models

import "time"

// Transaction/category types.
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Category is a per-school transaction category. The natural key is
// (name, type, school); import auto-creates missing categories, so the
// unique index is what keeps concurrent upserts from duplicating.
type Category struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:255;not null;uniqueIndex:idx_category_natural"`
	Type        string `gorm:"size:16;not null;uniqueIndex:idx_category_natural"`
	SchoolID    uint   `gorm:"not null;uniqueIndex:idx_category_natural;index"`
	School      School `gorm:"foreignKey:SchoolID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Description string `gorm:"size:512"`
	AutoCreated bool   `gorm:"default:false"`
}
