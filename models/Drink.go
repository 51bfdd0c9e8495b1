package models

import "time"

// Drink is a catalog entry. Rows are removed outright, so there is no soft-delete column.
type Drink struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Name             string            `gorm:"not null" json:"name"`
	Instructions     string            `gorm:"type:text" json:"instructions"`
	Glass            string            `json:"glass"`
	Notes            string            `gorm:"type:text" json:"notes"`
	Version          int               `gorm:"not null;default:1" json:"version"`
	DrinkIngredients []DrinkIngredient `gorm:"foreignKey:DrinkID" json:"drink_ingredients"`
}
