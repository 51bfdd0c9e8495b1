package mock

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drinkdb/internal/db"
	applog "drinkdb/internal/log"
	"drinkdb/models"
)

// SeedEmail and SeedPassword sign in as the seeded bartender.
const (
	SeedEmail    = "bartender@drinkdb.local"
	SeedPassword = "shaken-not-stirred"
)

type seedLine struct {
	ingredient string
	amount     string
	brand      string
}

type seedDrink struct {
	drink models.Drink
	lines []seedLine
}

var seedIngredients = []string{
	"Tequila", "Triple Sec", "Lime Juice", "Simple Syrup", "Gin", "Campari",
	"Sweet Vermouth", "Bourbon", "Angostura Bitters", "Grapefruit Soda",
}

var seedDrinks = []seedDrink{
	{
		drink: models.Drink{Name: "Margarita", Instructions: "Shake with ice and strain into a salt-rimmed glass.", Glass: "Coupe"},
		lines: []seedLine{{"Tequila", "2 oz", "Fortaleza Blanco"}, {"Triple Sec", "1 oz", "Cointreau"}, {"Lime Juice", "1 oz", ""}},
	},
	{
		drink: models.Drink{Name: "Negroni", Instructions: "Stir with ice and strain over a large cube.", Glass: "Rocks", Notes: "Garnish with an orange peel."},
		lines: []seedLine{{"Gin", "1 oz", "Tanqueray"}, {"Campari", "1 oz", ""}, {"Sweet Vermouth", "1 oz", "Cocchi Torino"}},
	},
	{
		drink: models.Drink{Name: "Old Fashioned", Instructions: "Stir with ice, strain over a large cube.", Glass: "Rocks"},
		lines: []seedLine{{"Bourbon", "2 oz", "Buffalo Trace"}, {"Simple Syrup", "1/4 oz", ""}, {"Angostura Bitters", "2 dashes", ""}},
	},
	{
		drink: models.Drink{Name: "Paloma", Instructions: "Build over ice and top with soda.", Glass: "Highball"},
	},
}

// New returns an in-memory sqlite database seeded with a small bar catalog.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := db.OpenSQLite("file:drinkdb-mock?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	var users int64
	if err := database.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		applog.Debug(ctx, "mock database already seeded")
		return nil
	}

	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	store := db.NewStore(database)
	user := &models.User{
		Name:         "House Bartender",
		Email:        SeedEmail,
		PasswordHash: string(password),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return err
	}

	return store.Transaction(ctx, func(tx *db.Store) error {
		ids := make(map[string]uint, len(seedIngredients))
		for _, name := range seedIngredients {
			ingredient := &models.Ingredient{Name: name}
			if err := tx.CreateIngredient(ctx, ingredient); err != nil {
				return err
			}
			ids[name] = ingredient.ID
		}

		for _, entry := range seedDrinks {
			drink := entry.drink
			if err := tx.CreateDrink(ctx, &drink); err != nil {
				return err
			}
			for _, l := range entry.lines {
				line, err := tx.AddDrinkIngredient(ctx, drink.ID, ids[l.ingredient])
				if err != nil {
					return err
				}
				line.Amount = l.amount
				line.Brand = l.brand
				if err := tx.UpdateDrinkIngredient(ctx, line); err != nil {
					return err
				}
			}
		}

		applog.Debug(ctx, "mock database seeded", "drinks", len(seedDrinks), "ingredients", len(seedIngredients))
		return nil
	})
}
