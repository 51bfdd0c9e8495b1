package handlers

import (
	"context"
	"net/http"

	"drinkdb/internal/db"
	applog "drinkdb/internal/log"
	"drinkdb/internal/views/pages"
	"drinkdb/models"
)

// DrinkIndex lists every drink.
func DrinkIndex(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}
	drinks, err := database.ListDrinks(r.Context())
	if err != nil {
		respondStoreError(w, r, "list drinks", err)
		return
	}
	applog.Debug(r.Context(), "listing drinks", "count", len(drinks))
	renderComponent(w, r, pages.DrinkIndex(drinks, navFor(r)))
}

// DrinkDetails shows one drink and its ingredient lines.
func DrinkDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !requireDatabase(w, r) {
		return
	}
	drink, err := database.FindDrinkWithIngredients(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, "load drink", err)
		return
	}
	renderComponent(w, r, pages.DrinkDetails(*drink, navFor(r)))
}

// DrinkCreate renders the create form and stores valid submissions. Only name, instructions,
// glass and notes are read from the request.
func DrinkCreate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderComponent(w, r, pages.DrinkCreate(pages.DrinkFields{}, nil, navFor(r)))
	case http.MethodPost:
		if !requireDatabase(w, r) {
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse create form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		fields := pages.DrinkFieldsFromForm(r.PostForm)
		if errs := fields.Validate(); errs.Any() {
			applog.Debug(r.Context(), "create drink failed validation", "fields", len(errs))
			renderComponent(w, r, pages.DrinkCreate(fields, errs, navFor(r)))
			return
		}

		var drink models.Drink
		fields.Apply(&drink)
		if err := database.CreateDrink(r.Context(), &drink); err != nil {
			respondStoreError(w, r, "create drink", err)
			return
		}
		applog.Info(r.Context(), "drink created", "drinkID", drink.ID, "name", drink.Name)
		http.Redirect(w, r, "/drinks", http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// DrinkEdit renders the edit form and applies submitted edits. A submission updates the drink
// row, deletes the lines marked for deletion and rewrites every other line inside a single
// transaction. AJAX submissions receive the refreshed editable region; others are redirected
// to the list.
func DrinkEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !requireDatabase(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		view, err := loadDrinkEditView(r.Context(), id)
		if err != nil {
			respondStoreError(w, r, "load drink for edit", err)
			return
		}
		view.CSRFToken = csrfToken(r)
		renderComponent(w, r, pages.DrinkEdit(view, navFor(r)))
	case http.MethodPost:
		saveDrinkEdit(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func saveDrinkEdit(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	edit, errs, err := pages.ParseDrinkEdit(r)
	if err != nil {
		applog.Debug(ctx, "malformed drink edit", "drinkID", id, "error", err)
		http.Error(w, "invalid submission", http.StatusBadRequest)
		return
	}
	if errs.Any() {
		applog.Debug(ctx, "drink edit failed validation", "drinkID", id, "fields", len(errs))
		renderInvalidDrinkEdit(w, r, id, edit, errs)
		return
	}

	err = database.Transaction(ctx, func(tx *db.Store) error {
		drink := models.Drink{ID: id, Version: edit.Version}
		edit.DrinkFields.Apply(&drink)
		if err := tx.UpdateDrink(ctx, &drink); err != nil {
			return err
		}
		for _, line := range edit.Lines {
			if !line.Delete {
				continue
			}
			if err := tx.DeleteDrinkIngredient(ctx, id, line.ID); err != nil {
				return err
			}
		}
		for _, line := range edit.Kept() {
			update := models.DrinkIngredient{
				ID:           line.ID,
				DrinkID:      id,
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
				Brand:        line.Brand,
			}
			if err := tx.UpdateDrinkIngredient(ctx, &update); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondStoreError(w, r, "save drink edit", err)
		return
	}

	applog.Info(ctx, "drink updated", "drinkID", id, "lines", len(edit.Lines), "ajax", isAJAX(r))

	if !isAJAX(r) {
		http.Redirect(w, r, "/drinks", http.StatusFound)
		return
	}

	view, err := loadDrinkEditView(ctx, id)
	if err != nil {
		respondStoreError(w, r, "reload drink after edit", err)
		return
	}
	view.CSRFToken = csrfToken(r)
	renderComponent(w, r, pages.EditableDrink(view))
}

// renderInvalidDrinkEdit shows the full edit page with the submitted values and their errors.
// htmx callers are told to swap the whole body since the response is a complete page.
func renderInvalidDrinkEdit(w http.ResponseWriter, r *http.Request, id uint, edit pages.DrinkEdit, errs pages.FieldErrors) {
	ctx := r.Context()
	if _, err := database.FindDrink(ctx, id); err != nil {
		respondStoreError(w, r, "load drink for edit", err)
		return
	}
	ingredients, err := database.ListIngredients(ctx)
	if err != nil {
		respondStoreError(w, r, "list ingredients", err)
		return
	}

	names := make(map[uint]string, len(ingredients))
	for _, ingredient := range ingredients {
		names[ingredient.ID] = ingredient.Name
	}
	lines := make([]pages.EditLine, len(edit.Lines))
	for i, line := range edit.Lines {
		line.IngredientName = names[line.IngredientID]
		lines[i] = line
	}

	view := pages.DrinkEditView{
		DrinkID:     id,
		Fields:      edit.DrinkFields,
		Version:     edit.Version,
		Lines:       lines,
		Ingredients: ingredients,
		Errors:      errs,
		CSRFToken:   csrfToken(r),
	}
	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "body")
		w.Header().Set("HX-Reswap", "innerHTML")
	}
	renderComponent(w, r, pages.DrinkEdit(view, navFor(r)))
}

func loadDrinkEditView(ctx context.Context, id uint) (pages.DrinkEditView, error) {
	drink, err := database.FindDrinkWithIngredients(ctx, id)
	if err != nil {
		return pages.DrinkEditView{}, err
	}
	ingredients, err := database.ListIngredients(ctx)
	if err != nil {
		return pages.DrinkEditView{}, err
	}
	return pages.DrinkEditView{
		DrinkID:     drink.ID,
		Fields:      pages.DrinkFieldsOf(*drink),
		Version:     drink.Version,
		Lines:       pages.EditLinesOf(drink.DrinkIngredients),
		Ingredients: ingredients,
	}, nil
}

// DrinkDelete asks for confirmation and removes the drink with its lines.
func DrinkDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok || !requireDatabase(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		drink, err := database.FindDrink(r.Context(), id)
		if err != nil {
			respondStoreError(w, r, "load drink for delete", err)
			return
		}
		renderComponent(w, r, pages.DrinkDelete(*drink, navFor(r)))
	case http.MethodPost:
		if err := database.DeleteDrink(r.Context(), id); err != nil {
			respondStoreError(w, r, "delete drink", err)
			return
		}
		applog.Info(r.Context(), "drink deleted", "drinkID", id)
		http.Redirect(w, r, "/drinks", http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
