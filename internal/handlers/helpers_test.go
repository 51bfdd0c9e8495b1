package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/alexedwards/scs/v2"

	"drinkdb/internal/db"
	"drinkdb/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*db.Store, func()) {
	t.Helper()
	original := database
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.OpenSQLite(fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	store := db.NewStore(gdb)
	database = store
	return store, func() {
		database = original
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// withSession attaches a loaded scs session to req.
func withSession(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}

func formPost(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withID(req *http.Request, id uint) *http.Request {
	req.SetPathValue("id", fmt.Sprint(id))
	return req
}

func parseHTML(t *testing.T, body io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

type seededBar struct {
	drink   *models.Drink
	tequila *models.Ingredient
	lime    *models.Ingredient
	salt    *models.Ingredient
	lines   []*models.DrinkIngredient
}

// seedBar stores a margarita with tequila and lime lines, plus an unused salt ingredient.
func seedBar(t *testing.T, store *db.Store) seededBar {
	t.Helper()
	ctx := context.Background()
	bar := seededBar{
		drink:   &models.Drink{Name: "Margarita", Instructions: "Shake", Glass: "Coupe"},
		tequila: &models.Ingredient{Name: "Tequila"},
		lime:    &models.Ingredient{Name: "Lime Juice"},
		salt:    &models.Ingredient{Name: "Salt"},
	}
	if err := store.CreateDrink(ctx, bar.drink); err != nil {
		t.Fatalf("seed drink: %v", err)
	}
	for _, ingredient := range []*models.Ingredient{bar.tequila, bar.lime, bar.salt} {
		if err := store.CreateIngredient(ctx, ingredient); err != nil {
			t.Fatalf("seed ingredient: %v", err)
		}
	}
	for _, ingredient := range []*models.Ingredient{bar.tequila, bar.lime} {
		line, err := store.AddDrinkIngredient(ctx, bar.drink.ID, ingredient.ID)
		if err != nil {
			t.Fatalf("seed line: %v", err)
		}
		bar.lines = append(bar.lines, line)
	}
	return bar
}
