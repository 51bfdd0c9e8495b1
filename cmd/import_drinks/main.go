package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"drinkdb/internal/config"
	"drinkdb/internal/db"
	applog "drinkdb/internal/log"
	"drinkdb/internal/views/pages"
	"drinkdb/models"
)

var (
	cleanWhitespace = regexp.MustCompile(`[ \t]+`)
	cardField       = regexp.MustCompile(`(?i)^(name|glass|instructions|notes|ingredient)\s*:\s*(.*)$`)
)

var csvColumns = []string{"drink", "glass", "instructions", "notes", "ingredient", "amount", "brand"}

// recipe is one drink read from an import file, with its lines in file order.
type recipe struct {
	Fields pages.DrinkFields
	Lines  []recipeLine
}

type recipeLine struct {
	Ingredient string
	Amount     string
	Brand      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_drinks <recipes.csv|recipes.txt|recipes.pdf>")
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("import path must not be empty")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate import file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL must be set to import drinks")
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	recipes, err := readRecipes(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	imported, err := importRecipes(ctx, db.NewStore(database), recipes)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d drinks from %s\n", imported, filepath.Base(path))
	return nil
}

// readRecipes picks a parser from the file extension.
func readRecipes(path string) ([]recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(bytes.NewReader(data))
	case ".pdf":
		text, err := extractTextFromPDF(data)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return parseCards(strings.NewReader(text))
	case ".txt", "":
		return parseCards(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// parseCSV groups rows by drink name. The first non-empty value wins for each drink column;
// rows without an ingredient only describe the drink.
func parseCSV(r io.Reader) ([]recipe, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make(map[string]int, len(rows[0]))
	for idx, key := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(key))] = idx
	}
	for _, column := range []string{"drink", "ingredient"} {
		if _, ok := header[column]; !ok {
			return nil, fmt.Errorf("csv is missing the %q column", column)
		}
	}

	var recipes []recipe
	index := map[string]int{}
	for rowNum, row := range rows[1:] {
		record := make(map[string]string, len(csvColumns))
		for _, column := range csvColumns {
			idx, ok := header[column]
			if !ok || idx >= len(row) {
				continue
			}
			record[column] = normalizeValue(row[idx])
		}

		name := record["drink"]
		if name == "" {
			if strings.Join(row, "") == "" {
				continue
			}
			return nil, fmt.Errorf("row %d: drink name is empty", rowNum+2)
		}

		key := strings.ToLower(name)
		pos, ok := index[key]
		if !ok {
			recipes = append(recipes, recipe{Fields: pages.DrinkFields{Name: name}})
			pos = len(recipes) - 1
			index[key] = pos
		}
		current := &recipes[pos]
		fillEmpty(&current.Fields.Glass, record["glass"])
		fillEmpty(&current.Fields.Instructions, record["instructions"])
		fillEmpty(&current.Fields.Notes, record["notes"])

		if record["ingredient"] != "" {
			current.Lines = append(current.Lines, recipeLine{
				Ingredient: record["ingredient"],
				Amount:     record["amount"],
				Brand:      record["brand"],
			})
		}
	}

	return recipes, nil
}

// parseCards reads blank-line separated recipe cards. Lines that do not start with a known
// label continue the previous field, which lets instructions span several lines.
func parseCards(r io.Reader) ([]recipe, error) {
	var (
		recipes []recipe
		current *recipe
		last    *string
	)

	flush := func() {
		if current != nil {
			recipes = append(recipes, *current)
		}
		current = nil
		last = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			flush()
			continue
		}

		match := cardField.FindStringSubmatch(text)
		if match == nil {
			if last == nil {
				return nil, fmt.Errorf("line %d: expected a labelled field, got %q", lineNum, text)
			}
			*last = strings.TrimSpace(*last + "\n" + normalizeValue(text))
			continue
		}

		if current == nil {
			current = &recipe{}
		}
		label, value := strings.ToLower(match[1]), normalizeValue(match[2])
		switch label {
		case "name":
			if current.Fields.Name != "" {
				flush()
				current = &recipe{}
			}
			current.Fields.Name = value
			last = &current.Fields.Name
		case "glass":
			current.Fields.Glass = value
			last = &current.Fields.Glass
		case "instructions":
			current.Fields.Instructions = value
			last = &current.Fields.Instructions
		case "notes":
			current.Fields.Notes = value
			last = &current.Fields.Notes
		case "ingredient":
			line, err := parseCardIngredient(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			current.Lines = append(current.Lines, line)
			last = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	for idx, card := range recipes {
		if card.Fields.Name == "" {
			return nil, fmt.Errorf("card %d has no Name field", idx+1)
		}
	}
	return recipes, nil
}

// parseCardIngredient accepts "<amount> | <name> | <brand>". A value without separators is
// taken as the ingredient name alone.
func parseCardIngredient(value string) (recipeLine, error) {
	parts := strings.Split(value, "|")
	for idx := range parts {
		parts[idx] = normalizeValue(parts[idx])
	}

	var line recipeLine
	switch len(parts) {
	case 1:
		line.Ingredient = parts[0]
	case 2:
		line.Amount, line.Ingredient = parts[0], parts[1]
	case 3:
		line.Amount, line.Ingredient, line.Brand = parts[0], parts[1], parts[2]
	default:
		return recipeLine{}, fmt.Errorf("ingredient %q has too many fields", value)
	}
	if line.Ingredient == "" {
		return recipeLine{}, fmt.Errorf("ingredient %q has no name", value)
	}
	return line, nil
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n\n")
	}
	return builder.String(), nil
}

// importRecipes stores each recipe in its own transaction and stops at the first failure.
// Recipes committed before the failure stay in place.
func importRecipes(ctx context.Context, store *db.Store, recipes []recipe) (int, error) {
	imported := 0
	for idx, r := range recipes {
		if errs := r.Fields.Validate(); errs.Any() {
			return imported, fmt.Errorf("recipe %d (%s): %s", idx+1, r.Fields.Name, describe(errs))
		}
		if err := store.Transaction(ctx, func(tx *db.Store) error {
			return importRecipe(ctx, tx, r)
		}); err != nil {
			return imported, fmt.Errorf("import recipe %d (%s): %w", idx+1, r.Fields.Name, err)
		}
		imported++
		applog.Debug(ctx, "imported drink", "name", r.Fields.Name, "lines", len(r.Lines))
	}
	return imported, nil
}

func importRecipe(ctx context.Context, tx *db.Store, r recipe) error {
	drink, err := tx.FindDrinkByName(ctx, r.Fields.Name)
	switch {
	case errors.Is(err, db.ErrNotFound):
		drink = &models.Drink{}
		r.Fields.Apply(drink)
		if err := tx.CreateDrink(ctx, drink); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		merged := pages.DrinkFieldsOf(*drink)
		fillFrom(&merged.Glass, r.Fields.Glass)
		fillFrom(&merged.Instructions, r.Fields.Instructions)
		fillFrom(&merged.Notes, r.Fields.Notes)
		merged.Apply(drink)
		if err := tx.UpdateDrink(ctx, drink); err != nil {
			return err
		}
	}

	stored, err := tx.FindDrinkWithIngredients(ctx, drink.ID)
	if err != nil {
		return err
	}
	byIngredient := make(map[uint]models.DrinkIngredient, len(stored.DrinkIngredients))
	for _, line := range stored.DrinkIngredients {
		byIngredient[line.IngredientID] = line
	}

	for _, item := range r.Lines {
		ingredient, err := ensureIngredient(ctx, tx, item.Ingredient)
		if err != nil {
			return err
		}
		line, ok := byIngredient[ingredient.ID]
		if !ok {
			added, err := tx.AddDrinkIngredient(ctx, drink.ID, ingredient.ID)
			if err != nil {
				return err
			}
			line = *added
		}
		line.Amount = item.Amount
		line.Brand = item.Brand
		line.Ingredient = nil
		if err := tx.UpdateDrinkIngredient(ctx, &line); err != nil {
			return err
		}
		byIngredient[ingredient.ID] = line
	}
	return nil
}

func ensureIngredient(ctx context.Context, tx *db.Store, name string) (*models.Ingredient, error) {
	ingredient, err := tx.FindIngredientByName(ctx, name)
	if err == nil {
		return ingredient, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	fields := pages.IngredientFields{Name: name}
	if errs := fields.Validate(); errs.Any() {
		return nil, fmt.Errorf("ingredient %q: %s", name, describe(errs))
	}
	ingredient = &models.Ingredient{Name: name}
	if err := tx.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func describe(errs pages.FieldErrors) string {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	messages := make([]string, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, errs[key])
	}
	return strings.Join(messages, " ")
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return cleanWhitespace.ReplaceAllString(value, " ")
}

func fillEmpty(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

func fillFrom(target *string, value string) {
	if value != "" {
		*target = value
	}
}
