package models

import "gorm.io/gorm"

// Ingredient is a named component shared by many drinks.
type Ingredient struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
