package handlers

import (
	"fmt"
	"net/http"

	applog "drinkdb/internal/log"
	"drinkdb/internal/views/pages"
)

// AddIngredient offers the ingredient picker for a drink and links the chosen ingredient.
// A drink may list each ingredient once; a second attempt answers 409.
func AddIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !requireDatabase(w, r) {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		drink, err := database.FindDrink(ctx, id)
		if err != nil {
			respondStoreError(w, r, "load drink for add ingredient", err)
			return
		}
		ingredients, err := database.ListIngredients(ctx)
		if err != nil {
			respondStoreError(w, r, "list ingredients", err)
			return
		}
		renderComponent(w, r, pages.AddIngredient(*drink, ingredients, navFor(r)))
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			applog.Debug(ctx, "failed to parse add ingredient form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		ingredientID := pages.ParseUint(r.PostForm.Get("ingredient_id"))
		if ingredientID == 0 {
			applog.Debug(ctx, "add ingredient without ingredient id", "drinkID", id)
			http.NotFound(w, r)
			return
		}
		line, err := database.AddDrinkIngredient(ctx, id, ingredientID)
		if err != nil {
			respondStoreError(w, r, "add ingredient", err)
			return
		}
		applog.Info(ctx, "ingredient added to drink", "drinkID", id, "ingredientID", ingredientID, "lineID", line.ID)
		http.Redirect(w, r, fmt.Sprintf("/drinks/edit/%d", id), http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// DrinkIngredientDetails renders the read-only fragment for one line.
func DrinkIngredientDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !requireDatabase(w, r) {
		return
	}
	line, err := database.FindDrinkIngredient(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, "load drink ingredient", err)
		return
	}
	ingredient, err := database.FindIngredient(r.Context(), line.IngredientID)
	if err != nil {
		respondStoreError(w, r, "load ingredient of line", err)
		return
	}
	renderComponent(w, r, pages.DrinkIngredientDetail(*line, ingredient.Name))
}

// DrinkIngredientEdit renders the inline editor for one line with its ingredient pre-selected.
func DrinkIngredientEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !requireDatabase(w, r) {
		return
	}
	ctx := r.Context()
	line, err := database.FindDrinkIngredient(ctx, id)
	if err != nil {
		respondStoreError(w, r, "load drink ingredient", err)
		return
	}
	ingredient, err := database.FindIngredient(ctx, line.IngredientID)
	if err != nil {
		respondStoreError(w, r, "load ingredient of line", err)
		return
	}
	line.Ingredient = ingredient
	ingredients, err := database.ListIngredients(ctx)
	if err != nil {
		respondStoreError(w, r, "list ingredients", err)
		return
	}
	renderComponent(w, r, pages.DrinkIngredientEdit(*line, ingredients))
}
