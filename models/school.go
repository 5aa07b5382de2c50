package models

import "time"

// Receipt counter reset policies.
const (
	ResetNever   = "NEVER"
	ResetMonthly = "MONTHLY"
)

// DefaultReceiptFormat is applied to schools created without an explicit
// format. Tokens: {YYYY} year, {MM} month, {000} zero-padded counter.
const DefaultReceiptFormat = "KW/{YYYY}/{MM}/{000}"

// School is the tenant of the system. Every financial record belongs to
// exactly one school, and the school owns the kwitansi numbering state.
type School struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:255;not null"`
	Address   string `gorm:"size:512"`
	Phone     string `gorm:"size:64"`
	Email     string `gorm:"size:255"`
	// LogoPath is a local path under the upload base; rendering degrades
	// gracefully when the file is missing.
	LogoPath string `gorm:"size:512"`
	// ReceiptFormat holds the kwitansi number template.
	ReceiptFormat string `gorm:"size:64;not null;default:'KW/{YYYY}/{MM}/{000}'"`
	// ReceiptCounter is the next counter value to emit. Read and bumped
	// under a row lock, see kwitansi.Issue.
	ReceiptCounter int    `gorm:"not null;default:1"`
	ReceiptReset   string `gorm:"size:16;not null;default:'MONTHLY'"`
}
