package components

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"drinkdb/models"
)

// Writer emits markup sequentially and keeps the first write error.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes s without escaping.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Rawf formats without escaping the arguments; callers escape user data with Esc.
func (hw *Writer) Rawf(format string, args ...any) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

// Text writes s HTML-escaped.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Render writes a nested component.
func (hw *Writer) Render(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// Err returns the first error encountered.
func (hw *Writer) Err() error {
	return hw.err
}

// Esc escapes a value for use in text or a quoted attribute.
func Esc(s string) string {
	return templ.EscapeString(s)
}

// ID formats a primary key for URLs and attributes.
func ID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// CSRFField renders the hidden anti-forgery input every mutating form carries.
func CSRFField(token string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Rawf(`<input type="hidden" name="csrf_token" value="%s">`, Esc(token))
		return hw.Err()
	})
}

// FieldError renders the message recorded for field, if any.
func FieldError(errs map[string]string, field string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		message, ok := errs[field]
		if !ok {
			return nil
		}
		hw := NewWriter(w)
		hw.Rawf(`<p class="field-error" data-field="%s">%s</p>`, Esc(field), Esc(message))
		return hw.Err()
	})
}

// Alert renders a banner; empty messages render nothing.
func Alert(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		hw := NewWriter(w)
		hw.Rawf(`<div class="alert alert-%s" role="alert">%s</div>`, Esc(kind), Esc(message))
		return hw.Err()
	})
}

// IngredientSelect renders a dropdown of ingredients with selected pre-chosen. A zero selected
// value adds an empty prompt option.
func IngredientSelect(name string, ingredients []models.Ingredient, selected uint) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Rawf(`<select name="%s">`, Esc(name))
		if selected == 0 {
			hw.Raw(`<option value="">Choose an ingredient</option>`)
		}
		for _, ingredient := range ingredients {
			attr := ""
			if ingredient.ID == selected {
				attr = " selected"
			}
			hw.Rawf(`<option value="%s"%s>%s</option>`, ID(ingredient.ID), attr, Esc(ingredient.Name))
		}
		hw.Raw(`</select>`)
		return hw.Err()
	})
}
