package models

import "gorm.io/gorm"

// User represents a bartender account allowed to change the catalog.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
}
