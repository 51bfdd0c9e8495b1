package handlers

import (
	"errors"
	"net/http"

	"drinkdb/internal/db"
	applog "drinkdb/internal/log"
	"drinkdb/internal/views/pages"
	"drinkdb/models"
)

// Ingredients lists the ingredient catalog and adds new entries to it.
func Ingredients(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderIngredients(w, r, pages.IngredientFields{}, nil)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			applog.Debug(ctx, "failed to parse ingredient form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		fields := pages.IngredientFieldsFromForm(r.PostForm)
		if errs := fields.Validate(); errs.Any() {
			renderIngredients(w, r, fields, errs)
			return
		}

		ingredient := &models.Ingredient{Name: fields.Name}
		if err := database.CreateIngredient(ctx, ingredient); err != nil {
			if errors.Is(err, db.ErrConflict) {
				applog.Debug(ctx, "duplicate ingredient name", "name", fields.Name)
				renderIngredients(w, r, fields, pages.FieldErrors{"name": "An ingredient with that name already exists."})
				return
			}
			respondStoreError(w, r, "create ingredient", err)
			return
		}
		applog.Info(ctx, "ingredient created", "ingredientID", ingredient.ID, "name", ingredient.Name)
		http.Redirect(w, r, "/ingredients", http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderIngredients(w http.ResponseWriter, r *http.Request, fields pages.IngredientFields, errs pages.FieldErrors) {
	ingredients, err := database.ListIngredients(r.Context())
	if err != nil {
		respondStoreError(w, r, "list ingredients", err)
		return
	}
	renderComponent(w, r, pages.IngredientIndex(ingredients, fields, errs, navFor(r)))
}
