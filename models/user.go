package models

import (
	"time"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Username       string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null"`
	RoleID         *uint      `gorm:"index"`
	Role           Role       `gorm:"foreignKey:RoleID;references:ID"`
	// SchoolID scopes the user to one school. Administrators may have no
	// school and see every tenant.
	SchoolID *uint   `gorm:"index"`
	School   *School `gorm:"foreignKey:SchoolID;references:ID"`
}
