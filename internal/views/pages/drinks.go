package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"drinkdb/internal/views/components"
	"drinkdb/internal/views/layout"
	"drinkdb/models"
)

// EditableDrinkID is the element the AJAX edit submission swaps.
const EditableDrinkID = "editable-drink"

var esc = components.Esc

// DrinkEditView is everything the edit form renders.
type DrinkEditView struct {
	DrinkID     uint
	Fields      DrinkFields
	Version     int
	Lines       []EditLine
	Ingredients []models.Ingredient
	Errors      FieldErrors
	CSRFToken   string
}

// DrinkIndex lists every drink.
func DrinkIndex(drinks []models.Drink, nav layout.Nav) templ.Component {
	return layout.Page("Drinks", nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<h1>Drinks</h1>`)
		if nav.SignedIn {
			hw.Raw(`<p><a class="button" href="/drinks/create">Create new</a></p>`)
		}
		if len(drinks) == 0 {
			hw.Raw(`<p class="empty">No drinks yet.</p>`)
			return hw.Err()
		}
		hw.Raw(`<table class="drinks"><thead><tr><th>Name</th><th>Glass</th><th>Instructions</th><th>Notes</th><th></th></tr></thead><tbody>`)
		for _, drink := range drinks {
			id := components.ID(drink.ID)
			hw.Rawf(`<tr data-drink-id="%s"><td class="name">%s</td><td class="glass">%s</td><td class="instructions">%s</td><td class="notes">%s</td><td class="actions">`,
				id, esc(drink.Name), esc(drink.Glass), esc(drink.Instructions), esc(drink.Notes))
			hw.Rawf(`<a href="/drinks/details/%s">Details</a>`, id)
			if nav.SignedIn {
				hw.Rawf(` | <a href="/drinks/edit/%s">Edit</a> | <a href="/drinks/delete/%s">Delete</a>`, id, id)
			}
			hw.Raw(`</td></tr>`)
		}
		hw.Raw(`</tbody></table>`)
		return hw.Err()
	}))
}

// DrinkDetails shows one drink with its ingredient lines.
func DrinkDetails(drink models.Drink, nav layout.Nav) templ.Component {
	return layout.Page(drink.Name, nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Rawf(`<article class="drink" data-drink-id="%s"><h1>%s</h1><dl>`, components.ID(drink.ID), esc(drink.Name))
		hw.Rawf(`<dt>Glass</dt><dd class="glass">%s</dd>`, esc(drink.Glass))
		hw.Rawf(`<dt>Instructions</dt><dd class="instructions">%s</dd>`, esc(drink.Instructions))
		hw.Rawf(`<dt>Notes</dt><dd class="notes">%s</dd></dl>`, esc(drink.Notes))
		hw.Raw(`<h2>Ingredients</h2><ul class="drink-ingredients">`)
		for _, line := range drink.DrinkIngredients {
			hw.Raw(`<li>`)
			hw.Render(ctx, DrinkIngredientDetail(line, line.IngredientName()))
			hw.Raw(`</li>`)
		}
		hw.Raw(`</ul>`)
		if nav.SignedIn {
			hw.Rawf(`<p><a href="/drinks/edit/%s">Edit</a></p>`, components.ID(drink.ID))
		}
		hw.Raw(`<p><a href="/drinks">Back to list</a></p></article>`)
		return hw.Err()
	}))
}

// DrinkCreate renders the create form, optionally with validation errors.
func DrinkCreate(fields DrinkFields, errs FieldErrors, nav layout.Nav) templ.Component {
	return layout.Page("Create drink", nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<h1>Create drink</h1><form method="post" action="/drinks/create" id="createDrinkForm">`)
		hw.Render(ctx, components.CSRFField(nav.CSRFToken))
		hw.Render(ctx, components.FieldError(errs, "_form"))
		hw.Render(ctx, drinkFieldInputs(fields, errs))
		hw.Raw(`<button type="submit">Create</button></form><p><a href="/drinks">Back to list</a></p>`)
		return hw.Err()
	}))
}

func drinkFieldInputs(fields DrinkFields, errs FieldErrors) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Rawf(`<label>Name <input type="text" name="name" value="%s" required maxlength="%d"></label>`, esc(fields.Name), maxNameLength)
		hw.Render(ctx, components.FieldError(errs, "name"))
		hw.Rawf(`<label>Glass <input type="text" name="glass" value="%s" maxlength="%d"></label>`, esc(fields.Glass), maxGlassLength)
		hw.Render(ctx, components.FieldError(errs, "glass"))
		hw.Rawf(`<label>Instructions <textarea name="instructions">%s</textarea></label>`, esc(fields.Instructions))
		hw.Render(ctx, components.FieldError(errs, "instructions"))
		hw.Rawf(`<label>Notes <textarea name="notes">%s</textarea></label>`, esc(fields.Notes))
		hw.Render(ctx, components.FieldError(errs, "notes"))
		return hw.Err()
	})
}

// DrinkEdit renders the full edit page around the editable region.
func DrinkEdit(view DrinkEditView, nav layout.Nav) templ.Component {
	return layout.Page("Edit "+view.Fields.Name, nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<h1>Edit drink</h1>`)
		hw.Render(ctx, EditableDrink(view))
		hw.Rawf(`<p><a href="/drinks/add-ingredient/%s">Add ingredient</a> | <a href="/drinks">Back to list</a></p>`, components.ID(view.DrinkID))
		return hw.Err()
	}))
}

// EditableDrink is the fragment holding the edit form. AJAX submissions replace it with the
// refreshed version returned by the server.
func EditableDrink(view DrinkEditView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		id := components.ID(view.DrinkID)
		hw.Rawf(`<div id="%s" data-drink-id="%s">`, EditableDrinkID, id)
		hw.Rawf(`<form method="post" action="/drinks/edit/%s" id="editDrinkForm" hx-post="/drinks/edit/%s" hx-target="#%s" hx-swap="outerHTML">`,
			id, id, EditableDrinkID)
		hw.Render(ctx, components.CSRFField(view.CSRFToken))
		hw.Rawf(`<input type="hidden" name="version" value="%d">`, view.Version)
		hw.Render(ctx, components.FieldError(view.Errors, "_form"))
		hw.Render(ctx, components.FieldError(view.Errors, "version"))
		hw.Render(ctx, drinkFieldInputs(view.Fields, view.Errors))
		hw.Raw(`<h2>Ingredients</h2>`)
		hw.Render(ctx, components.FieldError(view.Errors, "lines"))
		hw.Raw(`<table class="drink-ingredients"><thead><tr><th>Ingredient</th><th>Amount</th><th>Brand</th><th>Delete</th></tr></thead><tbody>`)
		for i, line := range view.Lines {
			hw.Render(ctx, editLineRow(i, line, view.Ingredients, view.Errors))
		}
		hw.Raw(`</tbody></table>`)
		hw.Raw(`<button type="submit" id="editableDrinkSubmitButton">Save</button></form></div>`)
		return hw.Err()
	})
}

func editLineRow(index int, line EditLine, ingredients []models.Ingredient, errs FieldErrors) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		id := components.ID(line.ID)
		hw.Rawf(`<tr class="drink-ingredient" data-line-id="%s"><td>`, id)
		hw.Rawf(`<input type="hidden" name="line_id" value="%s">`, id)
		if len(ingredients) > 0 {
			hw.Render(ctx, components.IngredientSelect("line_ingredient_id", ingredients, line.IngredientID))
		} else {
			hw.Rawf(`<input type="hidden" name="line_ingredient_id" value="%s">%s`, components.ID(line.IngredientID), esc(line.IngredientName))
		}
		hw.Render(ctx, components.FieldError(errs, lineField(index, "ingredient_id")))
		hw.Rawf(`</td><td><input type="text" name="line_amount" value="%s" maxlength="%d">`, esc(line.Amount), maxAmountLength)
		hw.Render(ctx, components.FieldError(errs, lineField(index, "amount")))
		hw.Rawf(`</td><td><input type="text" name="line_brand" value="%s" maxlength="%d">`, esc(line.Brand), maxBrandLength)
		hw.Render(ctx, components.FieldError(errs, lineField(index, "brand")))
		checked := ""
		if line.Delete {
			checked = " checked"
		}
		hw.Rawf(`</td><td><input type="checkbox" name="delete_line" value="%s"%s></td></tr>`, id, checked)
		return hw.Err()
	})
}

// DrinkDelete asks for confirmation before removing a drink.
func DrinkDelete(drink models.Drink, nav layout.Nav) templ.Component {
	return layout.Page("Delete "+drink.Name, nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		id := components.ID(drink.ID)
		hw.Rawf(`<h1>Delete drink</h1><p>Are you sure you want to delete <strong class="name">%s</strong>?</p>`, esc(drink.Name))
		hw.Rawf(`<dl><dt>Glass</dt><dd>%s</dd><dt>Instructions</dt><dd>%s</dd></dl>`, esc(drink.Glass), esc(drink.Instructions))
		hw.Rawf(`<form method="post" action="/drinks/delete/%s" id="deleteDrinkForm">`, id)
		hw.Render(ctx, components.CSRFField(nav.CSRFToken))
		hw.Raw(`<button type="submit">Delete</button> <a href="/drinks">Back to list</a></form>`)
		return hw.Err()
	}))
}

// AddIngredient offers every ingredient, sorted by name, for linking to drink.
func AddIngredient(drink models.Drink, ingredients []models.Ingredient, nav layout.Nav) templ.Component {
	return layout.Page("Add ingredient to "+drink.Name, nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		id := components.ID(drink.ID)
		hw.Rawf(`<h1>Add ingredient to <span class="name">%s</span></h1>`, esc(drink.Name))
		if len(ingredients) == 0 {
			hw.Raw(`<p class="empty">There are no ingredients yet. <a href="/ingredients">Add one first.</a></p>`)
			return hw.Err()
		}
		hw.Rawf(`<form method="post" action="/drinks/add-ingredient/%s" id="addIngredientForm">`, id)
		hw.Render(ctx, components.CSRFField(nav.CSRFToken))
		hw.Raw(`<label>Ingredient `)
		hw.Render(ctx, components.IngredientSelect("ingredient_id", ingredients, 0))
		hw.Rawf(`</label><button type="submit">Add</button></form><p><a href="/drinks/edit/%s">Back to drink</a></p>`, id)
		return hw.Err()
	}))
}

// DrinkIngredientDetail is the read-only fragment for one line.
func DrinkIngredientDetail(line models.DrinkIngredient, ingredientName string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Rawf(`<span class="drink-ingredient" data-line-id="%s"><span class="amount">%s</span> <span class="ingredient">%s</span>`,
			components.ID(line.ID), esc(line.Amount), esc(ingredientName))
		if line.Brand != "" {
			hw.Rawf(` <span class="brand">(%s)</span>`, esc(line.Brand))
		}
		hw.Raw(`</span>`)
		return hw.Err()
	})
}

// DrinkIngredientEdit is the inline editor row for one line, with the line's ingredient
// pre-selected among all ingredients.
func DrinkIngredientEdit(line models.DrinkIngredient, ingredients []models.Ingredient) templ.Component {
	return editLineRow(0, EditLinesOf([]models.DrinkIngredient{line})[0], ingredients, nil)
}
