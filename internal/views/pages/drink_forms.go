package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"drinkdb/models"
)

const (
	maxNameLength         = 100
	maxGlassLength        = 50
	maxInstructionsLength = 4000
	maxNotesLength        = 2000
	maxAmountLength       = 50
	maxBrandLength        = 100
	maxEditBodyBytes      = 1 << 20
)

// ErrMalformedSubmission means the request body could not be decoded at all.
var ErrMalformedSubmission = errors.New("pages: malformed submission")

// FieldErrors maps a form field to the message shown next to it. The "_form" key holds
// messages that belong to the whole form.
type FieldErrors map[string]string

// Any reports whether at least one error was recorded.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// DrinkFields are the only drink columns a client may submit.
type DrinkFields struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Glass        string `json:"glass"`
	Notes        string `json:"notes"`
}

// DrinkFieldsFromForm reads the editable drink fields and ignores everything else posted.
func DrinkFieldsFromForm(values url.Values) DrinkFields {
	return DrinkFields{
		Name:         strings.TrimSpace(values.Get("name")),
		Instructions: strings.TrimSpace(values.Get("instructions")),
		Glass:        strings.TrimSpace(values.Get("glass")),
		Notes:        strings.TrimSpace(values.Get("notes")),
	}
}

// DrinkFieldsOf copies the editable fields from a stored drink.
func DrinkFieldsOf(drink models.Drink) DrinkFields {
	return DrinkFields{
		Name:         drink.Name,
		Instructions: drink.Instructions,
		Glass:        drink.Glass,
		Notes:        drink.Notes,
	}
}

func (f DrinkFields) normalized() DrinkFields {
	return DrinkFields{
		Name:         strings.TrimSpace(f.Name),
		Instructions: strings.TrimSpace(f.Instructions),
		Glass:        strings.TrimSpace(f.Glass),
		Notes:        strings.TrimSpace(f.Notes),
	}
}

// Validate checks the drink model rules.
func (f DrinkFields) Validate() FieldErrors {
	errs := FieldErrors{}
	if f.Name == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(f.Name) > maxNameLength {
		errs["name"] = fmt.Sprintf("Name must be at most %d characters.", maxNameLength)
	}
	if utf8.RuneCountInString(f.Glass) > maxGlassLength {
		errs["glass"] = fmt.Sprintf("Glass must be at most %d characters.", maxGlassLength)
	}
	if utf8.RuneCountInString(f.Instructions) > maxInstructionsLength {
		errs["instructions"] = fmt.Sprintf("Instructions must be at most %d characters.", maxInstructionsLength)
	}
	if utf8.RuneCountInString(f.Notes) > maxNotesLength {
		errs["notes"] = fmt.Sprintf("Notes must be at most %d characters.", maxNotesLength)
	}
	return errs
}

// Apply copies the fields onto drink.
func (f DrinkFields) Apply(drink *models.Drink) {
	drink.Name = f.Name
	drink.Instructions = f.Instructions
	drink.Glass = f.Glass
	drink.Notes = f.Notes
}

// EditLine is one submitted drink-ingredient row. Delete marks the row for removal.
type EditLine struct {
	ID             uint   `json:"id"`
	IngredientID   uint   `json:"ingredient_id"`
	Amount         string `json:"amount"`
	Brand          string `json:"brand"`
	Delete         bool   `json:"delete"`
	IngredientName string `json:"-"`
}

// EditLinesOf converts stored lines into editable rows.
func EditLinesOf(lines []models.DrinkIngredient) []EditLine {
	rows := make([]EditLine, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, EditLine{
			ID:             line.ID,
			IngredientID:   line.IngredientID,
			Amount:         line.Amount,
			Brand:          line.Brand,
			IngredientName: line.IngredientName(),
		})
	}
	return rows
}

// DrinkEdit is a full edit submission: the drink fields, the version the form was rendered
// from, and the typed list of line edits.
type DrinkEdit struct {
	DrinkFields
	Version int        `json:"version"`
	Lines   []EditLine `json:"lines"`
}

// ParseDrinkEdit decodes an edit submission from either a JSON body or form fields. Form
// submissions carry parallel line_id, line_amount, line_brand and line_ingredient_id values
// plus one delete_line value per line id to remove. Problems with individual fields come back
// as FieldErrors; ErrMalformedSubmission means the body itself was unusable.
func ParseDrinkEdit(r *http.Request) (DrinkEdit, FieldErrors, error) {
	if isJSON(r) {
		return parseDrinkEditJSON(r)
	}
	return parseDrinkEditForm(r)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func parseDrinkEditJSON(r *http.Request) (DrinkEdit, FieldErrors, error) {
	var edit DrinkEdit
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxEditBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edit); err != nil {
		return DrinkEdit{}, nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}
	edit.DrinkFields = edit.DrinkFields.normalized()
	for i := range edit.Lines {
		edit.Lines[i].Amount = strings.TrimSpace(edit.Lines[i].Amount)
		edit.Lines[i].Brand = strings.TrimSpace(edit.Lines[i].Brand)
	}
	return edit, edit.Validate(), nil
}

func parseDrinkEditForm(r *http.Request) (DrinkEdit, FieldErrors, error) {
	if err := r.ParseForm(); err != nil {
		return DrinkEdit{}, nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}

	edit := DrinkEdit{DrinkFields: DrinkFieldsFromForm(r.PostForm)}
	errs := FieldErrors{}

	version, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("version")))
	if err == nil {
		edit.Version = version
	}

	ids := r.PostForm["line_id"]
	amounts := r.PostForm["line_amount"]
	brands := r.PostForm["line_brand"]
	ingredientIDs := r.PostForm["line_ingredient_id"]
	if len(amounts) != len(ids) || len(brands) != len(ids) || len(ingredientIDs) != len(ids) {
		errs["lines"] = "Every ingredient line needs an id, amount, brand and ingredient."
		for field, message := range edit.Validate() {
			errs[field] = message
		}
		return edit, errs, nil
	}

	remove := make(map[uint]bool)
	for _, raw := range r.PostForm["delete_line"] {
		if id := ParseUint(raw); id != 0 {
			remove[id] = true
		}
	}

	for i := range ids {
		line := EditLine{
			ID:           ParseUint(ids[i]),
			IngredientID: ParseUint(ingredientIDs[i]),
			Amount:       strings.TrimSpace(amounts[i]),
			Brand:        strings.TrimSpace(brands[i]),
		}
		line.Delete = line.ID != 0 && remove[line.ID]
		edit.Lines = append(edit.Lines, line)
	}

	for field, message := range edit.Validate() {
		errs[field] = message
	}
	return edit, errs, nil
}

// Validate checks the drink fields, the version stamp, and every line that is kept.
func (e DrinkEdit) Validate() FieldErrors {
	errs := e.DrinkFields.Validate()
	if e.Version <= 0 {
		errs["version"] = "This form is missing its version; reload the drink and try again."
	}

	seenLines := make(map[uint]bool, len(e.Lines))
	seenIngredients := make(map[uint]bool, len(e.Lines))
	for i, line := range e.Lines {
		if line.ID == 0 {
			errs[lineField(i, "id")] = "Line id is missing."
			continue
		}
		if seenLines[line.ID] {
			errs["lines"] = "Each ingredient line may only be submitted once."
		}
		seenLines[line.ID] = true
		if line.Delete {
			continue
		}
		if line.IngredientID == 0 {
			errs[lineField(i, "ingredient_id")] = "Choose an ingredient."
		} else if seenIngredients[line.IngredientID] {
			errs[lineField(i, "ingredient_id")] = "This ingredient is already listed for the drink."
		}
		seenIngredients[line.IngredientID] = true
		if utf8.RuneCountInString(line.Amount) > maxAmountLength {
			errs[lineField(i, "amount")] = fmt.Sprintf("Amount must be at most %d characters.", maxAmountLength)
		}
		if utf8.RuneCountInString(line.Brand) > maxBrandLength {
			errs[lineField(i, "brand")] = fmt.Sprintf("Brand must be at most %d characters.", maxBrandLength)
		}
	}
	return errs
}

// Kept returns the lines that are not marked for deletion.
func (e DrinkEdit) Kept() []EditLine {
	kept := make([]EditLine, 0, len(e.Lines))
	for _, line := range e.Lines {
		if !line.Delete {
			kept = append(kept, line)
		}
	}
	return kept
}

func lineField(index int, name string) string {
	return fmt.Sprintf("lines.%d.%s", index, name)
}

// IngredientFields is the ingredient create form.
type IngredientFields struct {
	Name string
}

// IngredientFieldsFromForm reads the ingredient name.
func IngredientFieldsFromForm(values url.Values) IngredientFields {
	return IngredientFields{Name: strings.TrimSpace(values.Get("name"))}
}

// Validate checks the ingredient rules.
func (f IngredientFields) Validate() FieldErrors {
	errs := FieldErrors{}
	if f.Name == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(f.Name) > maxNameLength {
		errs["name"] = fmt.Sprintf("Name must be at most %d characters.", maxNameLength)
	}
	return errs
}

// ParseUint parses a positive identifier, returning zero when value is blank or invalid.
func ParseUint(value string) uint {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}
