package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"drinkdb/models"
)

var (
	// ErrNotFound reports that a drink, ingredient or drink-ingredient row does not exist.
	ErrNotFound = errors.New("db: record not found")
	// ErrConflict reports that a write would break a uniqueness rule.
	ErrConflict = errors.New("db: conflicting record")
	// ErrStale reports that a drink changed since the submitted version was read.
	ErrStale = errors.New("db: stale version")
)

// Store exposes the catalog operations used by the HTTP handlers. Every method issues
// explicit statements; nothing relies on gorm tracking loaded entities.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle. A nil handle yields a nil Store.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) ListDrinks(ctx context.Context) ([]models.Drink, error) {
	var drinks []models.Drink
	if err := s.db.WithContext(ctx).Order("id asc").Find(&drinks).Error; err != nil {
		return nil, fmt.Errorf("list drinks: %w", normalize(err))
	}
	return drinks, nil
}

// ListDrinksWithIngredients returns every drink with its lines and their ingredients loaded.
func (s *Store) ListDrinksWithIngredients(ctx context.Context) ([]models.Drink, error) {
	var drinks []models.Drink
	if err := withLines(s.db.WithContext(ctx)).Order("id asc").Find(&drinks).Error; err != nil {
		return nil, fmt.Errorf("list drinks: %w", normalize(err))
	}
	return drinks, nil
}

func (s *Store) FindDrink(ctx context.Context, id uint) (*models.Drink, error) {
	var drink models.Drink
	if err := s.db.WithContext(ctx).First(&drink, id).Error; err != nil {
		return nil, fmt.Errorf("find drink %d: %w", id, normalize(err))
	}
	return &drink, nil
}

// FindDrinkWithIngredients loads a drink and its lines. The returned collection is never nil.
func (s *Store) FindDrinkWithIngredients(ctx context.Context, id uint) (*models.Drink, error) {
	var drink models.Drink
	if err := withLines(s.db.WithContext(ctx)).First(&drink, id).Error; err != nil {
		return nil, fmt.Errorf("find drink %d: %w", id, normalize(err))
	}
	if drink.DrinkIngredients == nil {
		drink.DrinkIngredients = []models.DrinkIngredient{}
	}
	return &drink, nil
}

// FindDrinkByName returns the oldest drink whose name matches case-insensitively.
func (s *Store) FindDrinkByName(ctx context.Context, name string) (*models.Drink, error) {
	var drink models.Drink
	err := s.db.WithContext(ctx).
		Where("lower(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("id asc").
		First(&drink).Error
	if err != nil {
		return nil, fmt.Errorf("find drink %q: %w", name, normalize(err))
	}
	return &drink, nil
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("DrinkIngredients", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("drink_ingredients.id asc")
		}).
		Preload("DrinkIngredients.Ingredient")
}

// CreateDrink inserts the drink row only; any lines on the value are ignored.
func (s *Store) CreateDrink(ctx context.Context, drink *models.Drink) error {
	drink.ID = 0
	drink.Version = 1
	if err := s.db.WithContext(ctx).Omit("DrinkIngredients").Create(drink).Error; err != nil {
		return fmt.Errorf("create drink: %w", normalize(err))
	}
	return nil
}

// UpdateDrink writes every editable column when drink.Version still matches the stored
// version, then bumps the version on both the row and the value.
func (s *Store) UpdateDrink(ctx context.Context, drink *models.Drink) error {
	res := s.db.WithContext(ctx).
		Model(&models.Drink{}).
		Where("id = ? AND version = ?", drink.ID, drink.Version).
		Updates(map[string]any{
			"name":         drink.Name,
			"instructions": drink.Instructions,
			"glass":        drink.Glass,
			"notes":        drink.Notes,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("update drink %d: %w", drink.ID, normalize(res.Error))
	}
	if res.RowsAffected == 0 {
		exists, err := s.exists(ctx, &models.Drink{}, drink.ID)
		if err != nil {
			return fmt.Errorf("update drink %d: %w", drink.ID, err)
		}
		if !exists {
			return fmt.Errorf("update drink %d: %w", drink.ID, ErrNotFound)
		}
		return fmt.Errorf("update drink %d at version %d: %w", drink.ID, drink.Version, ErrStale)
	}
	drink.Version++
	return nil
}

// DeleteDrink removes a drink together with its lines.
func (s *Store) DeleteDrink(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("drink_id = ?", id).Delete(&models.DrinkIngredient{}).Error; err != nil {
			return fmt.Errorf("delete lines of drink %d: %w", id, normalize(err))
		}
		res := tx.db.Delete(&models.Drink{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete drink %d: %w", id, normalize(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete drink %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ListIngredients returns all ingredients ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", normalize(err))
	}
	return ingredients, nil
}

func (s *Store) FindIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, fmt.Errorf("find ingredient %d: %w", id, normalize(err))
	}
	return &ingredient, nil
}

// FindIngredientByName matches names case-insensitively.
func (s *Store) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).
		Where("lower(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&ingredient).Error
	if err != nil {
		return nil, fmt.Errorf("find ingredient %q: %w", name, normalize(err))
	}
	return &ingredient, nil
}

// CreateIngredient rejects names that differ from an existing one only by case.
func (s *Store) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	ingredient.Name = strings.TrimSpace(ingredient.Name)
	if _, err := s.FindIngredientByName(ctx, ingredient.Name); err == nil {
		return fmt.Errorf("create ingredient %q: %w", ingredient.Name, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return fmt.Errorf("create ingredient %q: %w", ingredient.Name, normalize(err))
	}
	return nil
}

func (s *Store) FindDrinkIngredient(ctx context.Context, id uint) (*models.DrinkIngredient, error) {
	var line models.DrinkIngredient
	if err := s.db.WithContext(ctx).First(&line, id).Error; err != nil {
		return nil, fmt.Errorf("find drink ingredient %d: %w", id, normalize(err))
	}
	return &line, nil
}

// AddDrinkIngredient links an ingredient to a drink. Both must exist, and the drink must not
// already have a line for the ingredient.
func (s *Store) AddDrinkIngredient(ctx context.Context, drinkID, ingredientID uint) (*models.DrinkIngredient, error) {
	line := &models.DrinkIngredient{DrinkID: drinkID, IngredientID: ingredientID}
	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.FindDrink(ctx, drinkID); err != nil {
			return err
		}
		if _, err := tx.FindIngredient(ctx, ingredientID); err != nil {
			return err
		}

		var count int64
		if err := tx.db.Model(&models.DrinkIngredient{}).
			Where("drink_id = ? AND ingredient_id = ?", drinkID, ingredientID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count drink ingredients: %w", normalize(err))
		}
		if count > 0 {
			return fmt.Errorf("drink %d already lists ingredient %d: %w", drinkID, ingredientID, ErrConflict)
		}

		if err := tx.db.Omit("Ingredient").Create(line).Error; err != nil {
			return fmt.Errorf("create drink ingredient: %w", normalize(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateDrinkIngredient rewrites a line's amount, brand and ingredient. The line must belong to
// line.DrinkID and the ingredient must exist.
func (s *Store) UpdateDrinkIngredient(ctx context.Context, line *models.DrinkIngredient) error {
	if _, err := s.FindIngredient(ctx, line.IngredientID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&models.DrinkIngredient{}).
		Where("id = ? AND drink_id = ?", line.ID, line.DrinkID).
		Updates(map[string]any{
			"amount":        line.Amount,
			"brand":         line.Brand,
			"ingredient_id": line.IngredientID,
		})
	if res.Error != nil {
		return fmt.Errorf("update drink ingredient %d: %w", line.ID, normalize(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update drink ingredient %d of drink %d: %w", line.ID, line.DrinkID, ErrNotFound)
	}
	return nil
}

// DeleteDrinkIngredient removes one line of a drink.
func (s *Store) DeleteDrinkIngredient(ctx context.Context, drinkID, id uint) error {
	res := s.db.WithContext(ctx).Where("drink_id = ?", drinkID).Delete(&models.DrinkIngredient{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete drink ingredient %d: %w", id, normalize(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete drink ingredient %d of drink %d: %w", id, drinkID, ErrNotFound)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, model any, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, normalize(err)
	}
	return count > 0, nil
}

func normalize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
