package kwitansi

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sikeu/models"
)

// nextCounter decides the counter to stamp on a receipt. With a MONTHLY
// reset policy the count restarts at 1 when the school's most recent
// transaction falls in a different month than the issuance date
// (reset-on-read; the stored counter is ignored on a month change).
// A school with no transactions yet keeps its stored counter.
func nextCounter(policy string, stored int, lastDate time.Time, hasLast bool, date time.Time) int {
	if stored < 1 {
		stored = 1
	}
	if policy == models.ResetMonthly && hasLast &&
		(lastDate.Month() != date.Month() || lastDate.Year() != date.Year()) {
		return 1
	}
	return stored
}

// Issue generates the next receipt number for a school and bumps its
// counter. It must run inside the same gorm transaction that inserts the
// transaction row: the school row is locked FOR UPDATE so concurrent
// issuance for one school serializes at the database and numbers can
// neither gap nor duplicate.
func Issue(tx *gorm.DB, schoolID uint, date time.Time) (string, error) {
	var school models.School
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&school, schoolID).Error; err != nil {
		return "", fmt.Errorf("load school %d: %w", schoolID, err)
	}
	var (
		lastDate time.Time
		hasLast  bool
	)
	if school.ReceiptReset == models.ResetMonthly {
		var last models.Transaction
		err := tx.Where("school_id = ?", schoolID).
			Order("created_at DESC").Limit(1).First(&last).Error
		switch {
		case err == nil:
			lastDate, hasLast = last.Date, true
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first transaction of the school, nothing to compare against
		default:
			return "", fmt.Errorf("load latest transaction of school %d: %w", schoolID, err)
		}
	}
	counter := nextCounter(school.ReceiptReset, school.ReceiptCounter, lastDate, hasLast, date)
	number := FormatNumber(school.ReceiptFormat, date, counter)
	if err := tx.Model(&models.School{}).Where("id = ?", school.ID).
		Update("receipt_counter", counter+1).Error; err != nil {
		return "", fmt.Errorf("bump receipt counter: %w", err)
	}
	return number, nil
}
