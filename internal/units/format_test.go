package units

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		quantity float64
		unit     string
		want     string
	}{
		{1.5, "cup", "1½ cups"},
		{0.333, "teaspoon", "⅓ tsp"},
		{3, "bunch", "3 bunches"},
		{150, "gram", "150g"},
		{1, "cup", "1 cup"},
		{0.5, "cup", "½ cup"},
		{2.25, "cup", "2¼ cups"},
		{0.125, "teaspoon", "⅛ tsp"},
		{0.875, "cup", "⅞ cup"},
		{2, "tablespoon", "2 tbsp"},
		{4, "pound", "4 lb"},
		{500, "milliliter", "500ml"},
		{2, "pinch", "2 pinches"},
		{1, "whole", "1 whole"},
		{2, "whole", "2 whole"},
		// approximate fractions within tolerance
		{1.66, "cup", "1⅔ cups"},
		{0.26, "cup", "¼ cup"},
		// no fraction match falls back to one decimal
		{0.42, "cup", "0.4 cup"},
		{2.45, "cup", "2.5 cups"},
		// near-whole remainders collapse to the integer
		{2.004, "cup", "2 cups"},
		// unrecognized unit codes pass through
		{2, "lump", "2 lump"},
	}
	for _, tc := range cases {
		if got := Format(tc.quantity, tc.unit); got != tc.want {
			t.Errorf("Format(%v, %q) = %q, want %q", tc.quantity, tc.unit, got, tc.want)
		}
	}
}

func TestFormatDegenerateQuantities(t *testing.T) {
	if got := Format(0, "cup"); got != "0 cup" {
		t.Errorf("Format(0, cup) = %q", got)
	}
	if got := Format(-2, "cup"); got != "-2 cup" {
		t.Errorf("Format(-2, cup) = %q", got)
	}
	if got := Format(1.5, ""); got != "1½" {
		t.Errorf("Format(1.5, \"\") = %q", got)
	}
}
