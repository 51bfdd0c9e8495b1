package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"drinkdb/internal/views/components"
	"drinkdb/internal/views/layout"
	"drinkdb/models"
)

// Login renders the sign-in page.
func Login(message, email, csrfToken string) templ.Component {
	return layout.Page("Log in", layout.Nav{CSRFToken: csrfToken}, LoginPartial(message, email, csrfToken))
}

// LoginPartial renders only the sign-in form, for htmx swaps.
func LoginPartial(message, email, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<section id="login"><h1>Log in</h1>`)
		hw.Render(ctx, components.Alert("error", message))
		hw.Raw(`<form method="post" action="/login">`)
		hw.Render(ctx, components.CSRFField(csrfToken))
		hw.Rawf(`<label>Email <input type="email" name="email" value="%s" required></label>`, esc(email))
		hw.Raw(`<label>Password <input type="password" name="password" required></label>`)
		hw.Raw(`<button type="submit">Log in</button></form>`)
		hw.Raw(`<p>No account? <a href="/signup">Sign up</a></p></section>`)
		return hw.Err()
	})
}

// Signup renders the registration page.
func Signup(message, name, email, csrfToken string) templ.Component {
	return layout.Page("Sign up", layout.Nav{CSRFToken: csrfToken}, SignupPartial(message, name, email, csrfToken))
}

// SignupPartial renders only the registration form.
func SignupPartial(message, name, email, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<section id="signup"><h1>Sign up</h1>`)
		hw.Render(ctx, components.Alert("error", message))
		hw.Raw(`<form method="post" action="/signup">`)
		hw.Render(ctx, components.CSRFField(csrfToken))
		hw.Rawf(`<label>Name <input type="text" name="name" value="%s"></label>`, esc(name))
		hw.Rawf(`<label>Email <input type="email" name="email" value="%s" required></label>`, esc(email))
		hw.Raw(`<label>Password <input type="password" name="password" required minlength="8"></label>`)
		hw.Raw(`<label>Confirm password <input type="password" name="confirm_password" required></label>`)
		hw.Raw(`<button type="submit">Create account</button></form>`)
		hw.Raw(`<p>Already registered? <a href="/login">Log in</a></p></section>`)
		return hw.Err()
	})
}

// IngredientIndex lists ingredients with a form for adding another.
func IngredientIndex(ingredients []models.Ingredient, fields IngredientFields, errs FieldErrors, nav layout.Nav) templ.Component {
	return layout.Page("Ingredients", nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<h1>Ingredients</h1><ul class="ingredients">`)
		for _, ingredient := range ingredients {
			hw.Rawf(`<li data-ingredient-id="%s">%s</li>`, components.ID(ingredient.ID), esc(ingredient.Name))
		}
		hw.Raw(`</ul><form method="post" action="/ingredients" id="createIngredientForm">`)
		hw.Render(ctx, components.CSRFField(nav.CSRFToken))
		hw.Rawf(`<label>Name <input type="text" name="name" value="%s" required maxlength="%d"></label>`, esc(fields.Name), maxNameLength)
		hw.Render(ctx, components.FieldError(errs, "name"))
		hw.Raw(`<button type="submit">Add ingredient</button></form>`)
		return hw.Err()
	}))
}
