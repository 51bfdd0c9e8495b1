package handlers

import (
	"errors"
	"net/http"
	"time"

	"drinkdb/internal/db"
	applog "drinkdb/internal/log"
	"drinkdb/internal/views/pages"
	"drinkdb/models"
)

type drinkIngredientResponse struct {
	ID           uint   `json:"id"`
	IngredientID uint   `json:"ingredient_id"`
	Ingredient   string `json:"ingredient"`
	Amount       string `json:"amount"`
	Brand        string `json:"brand"`
}

type drinkResponse struct {
	ID           uint                      `json:"id"`
	Name         string                    `json:"name"`
	Instructions string                    `json:"instructions"`
	Glass        string                    `json:"glass"`
	Notes        string                    `json:"notes"`
	Version      int                       `json:"version"`
	Ingredients  []drinkIngredientResponse `json:"ingredients"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// APIDrinks returns every drink with its ingredient lines as JSON.
func APIDrinks(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	drinks, err := database.ListDrinksWithIngredients(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to list drinks for api", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load drinks")
		return
	}
	responses := make([]drinkResponse, 0, len(drinks))
	for _, drink := range drinks {
		responses = append(responses, projectDrink(drink))
	}
	writeJSON(w, http.StatusOK, responses)
}

// APIDrink returns one drink as JSON.
func APIDrink(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	id := pages.ParseUint(r.PathValue("id"))
	if id == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid drink id")
		return
	}
	drink, err := database.FindDrinkWithIngredients(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "drink not found")
			return
		}
		applog.Error(r.Context(), "failed to load drink for api", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to load drink")
		return
	}
	writeJSON(w, http.StatusOK, projectDrink(*drink))
}

func projectDrink(drink models.Drink) drinkResponse {
	lines := make([]drinkIngredientResponse, 0, len(drink.DrinkIngredients))
	for _, line := range drink.DrinkIngredients {
		lines = append(lines, drinkIngredientResponse{
			ID:           line.ID,
			IngredientID: line.IngredientID,
			Ingredient:   line.IngredientName(),
			Amount:       line.Amount,
			Brand:        line.Brand,
		})
	}
	return drinkResponse{
		ID:           drink.ID,
		Name:         drink.Name,
		Instructions: drink.Instructions,
		Glass:        drink.Glass,
		Notes:        drink.Notes,
		Version:      drink.Version,
		Ingredients:  lines,
		CreatedAt:    drink.CreatedAt,
		UpdatedAt:    drink.UpdatedAt,
	}
}
