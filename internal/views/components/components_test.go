package components

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"drinkdb/models"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestCSRFFieldEscapesToken(t *testing.T) {
	var buf bytes.Buffer
	if err := CSRFField(`a"b`).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render csrf field: %v", err)
	}
	doc := parse(t, buf.String())
	value, ok := doc.Find(`input[name="csrf_token"]`).Attr("value")
	if !ok || value != `a"b` {
		t.Fatalf("expected escaped token to round-trip, got %q (%t): %s", value, ok, buf.String())
	}
}

func TestIngredientSelectPreselects(t *testing.T) {
	ingredients := []models.Ingredient{{Name: "Gin"}, {Name: "Tonic <Water>"}}
	ingredients[0].ID = 1
	ingredients[1].ID = 2

	var buf bytes.Buffer
	if err := IngredientSelect("line_ingredient_id", ingredients, 2).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render select: %v", err)
	}
	doc := parse(t, buf.String())
	if got := doc.Find("option").Length(); got != 2 {
		t.Fatalf("expected 2 options without prompt, got %d", got)
	}
	selected := doc.Find("option[selected]")
	if selected.Length() != 1 || selected.Text() != "Tonic <Water>" {
		t.Fatalf("expected second option to be selected, got %q", selected.Text())
	}

	buf.Reset()
	if err := IngredientSelect("ingredient_id", ingredients, 0).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render select: %v", err)
	}
	if got := parse(t, buf.String()).Find(`option[value=""]`).Length(); got != 1 {
		t.Fatalf("expected prompt option when nothing is selected, got %d", got)
	}
}

func TestFieldErrorOnlyRendersKnownFields(t *testing.T) {
	errs := map[string]string{"name": "Name is required."}

	var buf bytes.Buffer
	if err := FieldError(errs, "glass").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render field error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for a field without errors, got %q", buf.String())
	}

	if err := FieldError(errs, "name").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render field error: %v", err)
	}
	if !strings.Contains(buf.String(), "Name is required.") {
		t.Fatalf("expected message in output: %s", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriterKeepsFirstError(t *testing.T) {
	hw := NewWriter(failingWriter{})
	hw.Raw("<p>")
	hw.Text("ignored")
	if err := hw.Err(); err == nil || err.Error() != "connection reset" {
		t.Fatalf("expected first write error, got %v", err)
	}
}
