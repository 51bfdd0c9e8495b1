package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestIngredientsListAndCreate(t *testing.T) {
	store, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)
	seedBar(t, store)

	w := httptest.NewRecorder()
	Ingredients(w, httptest.NewRequest(http.MethodGet, "/ingredients", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := parseHTML(t, w.Body).Find("ul.ingredients li").Length(); got != 3 {
		t.Fatalf("expected 3 ingredients, got %d", got)
	}

	w = httptest.NewRecorder()
	Ingredients(w, formPost("/ingredients", url.Values{"name": {" Mezcal "}}))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/ingredients" {
		t.Fatalf("expected redirect back to the catalog, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if _, err := store.FindIngredientByName(context.Background(), "mezcal"); err != nil {
		t.Fatalf("expected ingredient to be stored: %v", err)
	}
}

func TestIngredientsRejectsDuplicateAndBlankNames(t *testing.T) {
	store, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)
	seedBar(t, store)

	for _, name := range []string{"tequila", ""} {
		w := httptest.NewRecorder()
		Ingredients(w, formPost("/ingredients", url.Values{"name": {name}}))
		if w.Code != http.StatusOK {
			t.Fatalf("expected form to be re-rendered for %q, got %d", name, w.Code)
		}
		if parseHTML(t, w.Body).Find(`.field-error[data-field="name"]`).Length() != 1 {
			t.Fatalf("expected name error for %q", name)
		}
	}

	ingredients, err := store.ListIngredients(context.Background())
	if err != nil || len(ingredients) != 3 {
		t.Fatalf("expected catalog unchanged, got %d (err=%v)", len(ingredients), err)
	}
}
