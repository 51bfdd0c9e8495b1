package models

import "time"

type DrinkIngredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// A drink holds at most one line per ingredient.
	DrinkID      uint `gorm:"not null;uniqueIndex:idx_drink_ingredient_pair" json:"drink_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_drink_ingredient_pair;index" json:"ingredient_id"`

	Amount string `json:"amount"`
	Brand  string `json:"brand"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// IngredientName returns the preloaded ingredient's name, or an empty string.
func (di DrinkIngredient) IngredientName() string {
	if di.Ingredient == nil {
		return ""
	}
	return di.Ingredient.Name
}
