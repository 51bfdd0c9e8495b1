package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"drinkdb/internal/views/components"
)

// Nav carries the session state the page chrome needs.
type Nav struct {
	SignedIn  bool
	UserName  string
	CSRFToken string
}

// Page wraps body in the full HTML document.
func Page(title string, nav Nav, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Rawf(`<title>%s · Drink Database</title>`, components.Esc(title))
		hw.Raw(`<link rel="stylesheet" href="/assets/site.css">`)
		hw.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		hw.Raw(`<script src="/assets/drink_edit.js" defer></script>`)
		hw.Raw(`</head><body>`)
		hw.Render(ctx, header(nav))
		hw.Raw(`<main class="container">`)
		hw.Render(ctx, body)
		hw.Raw(`</main></body></html>`)
		return hw.Err()
	})
}

func header(nav Nav) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<header class="site-header"><nav>`)
		hw.Raw(`<a href="/drinks">Drinks</a>`)
		if nav.SignedIn {
			hw.Raw(`<a href="/ingredients">Ingredients</a>`)
			hw.Raw(`<form method="post" action="/logout" class="logout">`)
			hw.Render(ctx, components.CSRFField(nav.CSRFToken))
			hw.Rawf(`<span class="user">%s</span><button type="submit">Log out</button></form>`, components.Esc(nav.UserName))
		} else {
			hw.Raw(`<a href="/login">Log in</a>`)
		}
		hw.Raw(`</nav></header>`)
		return hw.Err()
	})
}
