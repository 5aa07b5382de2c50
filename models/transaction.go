package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods.
const (
	PayCash         = "CASH"
	PayBankTransfer = "BANK_TRANSFER"
	PayQris         = "QRIS"
)

// Transaction statuses.
const (
	StatusPaid    = "PAID"
	StatusPending = "PENDING"
	StatusVoid    = "VOID"
)

// Transaction is a single income or expense entry of a school.
// Amount is always positive; the direction lives in Type, which is fixed
// at creation and only changed by an explicit update.
type Transaction struct {
	ID            uint            `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Type          string          `gorm:"size:16;not null;index"`
	Date          time.Time       `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description   string          `gorm:"size:512;not null"`
	Counterparty  string          `gorm:"size:255"`
	CategoryID    uint            `gorm:"not null;index"`
	Category      Category        `gorm:"foreignKey:CategoryID;references:ID"`
	CoaAccountID  *uint           `gorm:"index"`
	CoaAccount    *CoaAccount     `gorm:"foreignKey:CoaAccountID;references:ID"`
	PaymentMethod string          `gorm:"size:16;not null;default:'CASH'"`
	Status        string          `gorm:"size:16;not null;default:'PAID';index"`
	// ReceiptNumber is unique within one school, not globally.
	ReceiptNumber string `gorm:"size:64;not null;uniqueIndex:idx_receipt_school"`
	SchoolID      uint   `gorm:"not null;uniqueIndex:idx_receipt_school;index"`
	School        School `gorm:"foreignKey:SchoolID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedBy     uint   `gorm:"index"`
	// Proof-of-payment attachment (optional). ProofAmount is the amount the
	// OCR pass read from the image, kept for the treasurer to review.
	ProofPath   string           `gorm:"size:512"`
	ProofAmount *decimal.Decimal `gorm:"type:numeric(18,2)"`
}
