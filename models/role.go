package models

import "time"

// Role names used across the app. Administrators manage every school;
// operators are confined to their own school and a short report window.
const (
	RoleAdministrator = "administrator"
	RoleOperator      = "operator"
)

// Role represents user roles with numeric primary key
type Role struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:32;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
}
