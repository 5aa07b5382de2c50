package models

import "time"

// Accounting types of a COA root category.
const (
	CoaAsset     = "ASSET"
	CoaLiability = "LIABILITY"
	CoaEquity    = "EQUITY"
	CoaRevenue   = "REVENUE"
	CoaExpense   = "EXPENSE"
)

// CoaCategory is the root of the chart-of-accounts tree and carries the
// accounting type used as a classification hint during import.
type CoaCategory struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Code      string `gorm:"size:16;not null;uniqueIndex"`
	Name      string `gorm:"size:255;not null"`
	Type      string `gorm:"size:16;not null"`
}

// CoaSubCategory groups accounts under a root category.
type CoaSubCategory struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Code          string      `gorm:"size:16;not null;uniqueIndex"`
	Name          string      `gorm:"size:255;not null"`
	CoaCategoryID uint        `gorm:"not null;index"`
	CoaCategory   CoaCategory `gorm:"foreignKey:CoaCategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CoaAccount is the leaf transactions point at. Never mutated by imports.
type CoaAccount struct {
	ID               uint `gorm:"primaryKey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Code             string         `gorm:"size:16;not null;uniqueIndex"`
	Name             string         `gorm:"size:255;not null"`
	CoaSubCategoryID uint           `gorm:"not null;index"`
	CoaSubCategory   CoaSubCategory `gorm:"foreignKey:CoaSubCategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	IsActive         bool           `gorm:"default:true;not null;index"`
}
