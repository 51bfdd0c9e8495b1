package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drinkdb/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(database)
}

func seedIngredient(t *testing.T, store *Store, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name}
	require.NoError(t, store.CreateIngredient(context.Background(), ingredient))
	return ingredient
}

func seedDrink(t *testing.T, store *Store, name string) *models.Drink {
	t.Helper()
	drink := &models.Drink{Name: name, Instructions: "Shake", Glass: "Coupe"}
	require.NoError(t, store.CreateDrink(context.Background(), drink))
	return drink
}

func TestNewStoreNil(t *testing.T) {
	assert.Nil(t, NewStore(nil))
}

func TestCreateAndListDrinks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	drink := &models.Drink{Name: "Margarita", Instructions: "Shake", Glass: "Coupe", Notes: ""}
	require.NoError(t, store.CreateDrink(ctx, drink))
	assert.NotZero(t, drink.ID)
	assert.Equal(t, 1, drink.Version)

	drinks, err := store.ListDrinks(ctx)
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, drink.ID, drinks[0].ID)
	assert.Equal(t, "Margarita", drinks[0].Name)
	assert.Equal(t, "Shake", drinks[0].Instructions)
	assert.Equal(t, "Coupe", drinks[0].Glass)
	assert.Equal(t, "", drinks[0].Notes)
}

func TestFindDrinkWithIngredientsReturnsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	drink := seedDrink(t, store, "Old Fashioned")

	found, err := store.FindDrinkWithIngredients(ctx, drink.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.DrinkIngredients)
	assert.Empty(t, found.DrinkIngredients)

	_, err = store.FindDrinkWithIngredients(ctx, drink.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDrinkIngredientRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	drink := seedDrink(t, store, "Margarita")
	tequila := seedIngredient(t, store, "Tequila")

	line, err := store.AddDrinkIngredient(ctx, drink.ID, tequila.ID)
	require.NoError(t, err)
	assert.NotZero(t, line.ID)

	_, err = store.AddDrinkIngredient(ctx, drink.ID, tequila.ID)
	assert.ErrorIs(t, err, ErrConflict)

	found, err := store.FindDrinkWithIngredients(ctx, drink.ID)
	require.NoError(t, err)
	require.Len(t, found.DrinkIngredients, 1)
	assert.Equal(t, "Tequila", found.DrinkIngredients[0].IngredientName())
}

func TestAddDrinkIngredientRequiresBothRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	drink := seedDrink(t, store, "Margarita")
	tequila := seedIngredient(t, store, "Tequila")

	_, err := store.AddDrinkIngredient(ctx, drink.ID+1, tequila.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.AddDrinkIngredient(ctx, drink.ID, tequila.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDrinkChecksVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	drink := seedDrink(t, store, "Daiquiri")

	first := *drink
	first.Name = "Hemingway Daiquiri"
	require.NoError(t, store.UpdateDrink(ctx, &first))
	assert.Equal(t, 2, first.Version)

	second := *drink
	second.Notes = "Written from a stale form"
	assert.ErrorIs(t, store.UpdateDrink(ctx, &second), ErrStale)

	stored, err := store.FindDrink(ctx, drink.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hemingway Daiquiri", stored.Name)
	assert.Equal(t, "", stored.Notes)
	assert.Equal(t, 2, stored.Version)

	missing := models.Drink{ID: drink.ID + 10, Name: "Ghost", Version: 1}
	assert.ErrorIs(t, store.UpdateDrink(ctx, &missing), ErrNotFound)
}

func TestUpdateDrinkIngredientScopedToDrink(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	margarita := seedDrink(t, store, "Margarita")
	paloma := seedDrink(t, store, "Paloma")
	tequila := seedIngredient(t, store, "Tequila")
	lime := seedIngredient(t, store, "Lime Juice")

	line, err := store.AddDrinkIngredient(ctx, margarita.ID, tequila.ID)
	require.NoError(t, err)
	other, err := store.AddDrinkIngredient(ctx, margarita.ID, lime.ID)
	require.NoError(t, err)

	update := models.DrinkIngredient{ID: line.ID, DrinkID: margarita.ID, IngredientID: tequila.ID, Amount: "2 oz", Brand: "Fortaleza"}
	require.NoError(t, store.UpdateDrinkIngredient(ctx, &update))

	stored, err := store.FindDrinkIngredient(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, "2 oz", stored.Amount)
	assert.Equal(t, "Fortaleza", stored.Brand)

	foreign := update
	foreign.DrinkID = paloma.ID
	assert.ErrorIs(t, store.UpdateDrinkIngredient(ctx, &foreign), ErrNotFound)

	clash := models.DrinkIngredient{ID: other.ID, DrinkID: margarita.ID, IngredientID: tequila.ID}
	assert.ErrorIs(t, store.UpdateDrinkIngredient(ctx, &clash), ErrConflict)

	unknown := models.DrinkIngredient{ID: other.ID, DrinkID: margarita.ID, IngredientID: lime.ID + 50}
	assert.ErrorIs(t, store.UpdateDrinkIngredient(ctx, &unknown), ErrNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	drink := seedDrink(t, store, "Negroni")
	gin := seedIngredient(t, store, "Gin")
	line, err := store.AddDrinkIngredient(ctx, drink.ID, gin.ID)
	require.NoError(t, err)

	err = store.Transaction(ctx, func(tx *Store) error {
		edited := *drink
		edited.Name = "Negroni Sbagliato"
		if err := tx.UpdateDrink(ctx, &edited); err != nil {
			return err
		}
		if err := tx.DeleteDrinkIngredient(ctx, drink.ID, line.ID); err != nil {
			return err
		}
		return tx.DeleteDrinkIngredient(ctx, drink.ID, line.ID+99)
	})
	require.ErrorIs(t, err, ErrNotFound)

	found, err := store.FindDrinkWithIngredients(ctx, drink.ID)
	require.NoError(t, err)
	assert.Equal(t, "Negroni", found.Name)
	assert.Equal(t, 1, found.Version)
	assert.Len(t, found.DrinkIngredients, 1)
}

func TestDeleteDrinkRemovesLines(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	drink := seedDrink(t, store, "Gimlet")
	gin := seedIngredient(t, store, "Gin")
	_, err := store.AddDrinkIngredient(ctx, drink.ID, gin.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteDrink(ctx, drink.ID))

	_, err = store.FindDrink(ctx, drink.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var remaining int64
	require.NoError(t, store.DB().Model(&models.DrinkIngredient{}).Where("drink_id = ?", drink.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, store.DeleteDrink(ctx, drink.ID), ErrNotFound)

	_, err = store.FindIngredient(ctx, gin.ID)
	assert.NoError(t, err, "ingredients are shared and survive drink deletion")
}

func TestIngredientsSortedAndUnique(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedIngredient(t, store, "Vermouth")
	seedIngredient(t, store, "Angostura Bitters")
	seedIngredient(t, store, "Campari")

	assert.ErrorIs(t, store.CreateIngredient(ctx, &models.Ingredient{Name: "  campari "}), ErrConflict)

	ingredients, err := store.ListIngredients(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		names = append(names, ingredient.Name)
	}
	assert.Equal(t, []string{"Angostura Bitters", "Campari", "Vermouth"}, names)

	found, err := store.FindIngredientByName(ctx, "VERMOUTH")
	require.NoError(t, err)
	assert.Equal(t, "Vermouth", found.Name)
}

func TestFindDrinkByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	drink := seedDrink(t, store, "Daiquiri")

	found, err := store.FindDrinkByName(ctx, "  daiquiri ")
	require.NoError(t, err)
	assert.Equal(t, drink.ID, found.ID)

	_, err = store.FindDrinkByName(ctx, "Mojito")
	assert.ErrorIs(t, err, ErrNotFound)
}
