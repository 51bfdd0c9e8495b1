package models

import "testing"

func TestDrinkIngredientName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line DrinkIngredient
		want string
	}{
		{"preloaded", DrinkIngredient{Ingredient: &Ingredient{Name: "Tequila"}}, "Tequila"},
		{"missing", DrinkIngredient{IngredientID: 4}, ""},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.line.IngredientName(); got != tt.want {
				t.Fatalf("IngredientName() = %q, want %q", got, tt.want)
			}
		})
	}
}
