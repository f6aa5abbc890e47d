// Package units renders raw decimal quantities and unit codes as the
// human-readable strings shown on grocery lists and recipe cards.
package units

import (
	"math"
	"strconv"
)

type unitDef struct {
	// display is the abbreviation for abbreviated units, the singular word
	// otherwise.
	display string
	plural  string
	// abbreviated units are never pluralized.
	abbreviated bool
	// glued units render with no space between numeral and unit ("150g").
	glued bool
}

var unitTable = map[string]unitDef{
	"teaspoon":    {display: "tsp", abbreviated: true},
	"tablespoon":  {display: "tbsp", abbreviated: true},
	"cup":         {display: "cup", plural: "cups"},
	"fluid_ounce": {display: "fl oz", abbreviated: true},
	"pint":        {display: "pint", plural: "pints"},
	"quart":       {display: "quart", plural: "quarts"},
	"gallon":      {display: "gallon", plural: "gallons"},

	"milligram": {display: "mg", abbreviated: true, glued: true},
	"gram":      {display: "g", abbreviated: true, glued: true},
	"kilogram":  {display: "kg", abbreviated: true, glued: true},
	"ounce":     {display: "oz", abbreviated: true},
	"pound":     {display: "lb", abbreviated: true},

	"milliliter": {display: "ml", abbreviated: true, glued: true},
	"liter":      {display: "l", abbreviated: true, glued: true},

	"piece":   {display: "piece", plural: "pieces"},
	"slice":   {display: "slice", plural: "slices"},
	"clove":   {display: "clove", plural: "cloves"},
	"bunch":   {display: "bunch", plural: "bunches"},
	"can":     {display: "can", plural: "cans"},
	"pinch":   {display: "pinch", plural: "pinches"},
	"dash":    {display: "dash", plural: "dashes"},
	"whole":   {display: "whole", plural: "whole"},
	"package": {display: "package", plural: "packages"},
	"stick":   {display: "stick", plural: "sticks"},
	"head":    {display: "head", plural: "heads"},
}

// Common culinary fractions, matched within fractionTolerance.
var fractions = []struct {
	value float64
	glyph string
}{
	{0.125, "⅛"},
	{0.25, "¼"},
	{0.333, "⅓"},
	{0.375, "⅜"},
	{0.5, "½"},
	{0.625, "⅝"},
	{0.667, "⅔"},
	{0.75, "¾"},
	{0.875, "⅞"},
}

const (
	wholeCutoff       = 0.01
	fractionTolerance = 0.02
)

// KnownUnit reports whether code is in the configured unit catalog.
func KnownUnit(code string) bool {
	_, ok := unitTable[code]
	return ok
}

// Format renders quantity plus an optional unit code, e.g. (1.5, "cup") ->
// "1½ cups", (150, "gram") -> "150g". Pluralization follows the numeric
// quantity, not the rendered string; abbreviated units never pluralize.
// Zero or negative quantities render as plain numerals, no fraction logic.
func Format(quantity float64, unitCode string) string {
	num := FormatQuantity(quantity)
	if unitCode == "" {
		return num
	}
	def, ok := unitTable[unitCode]
	if !ok {
		// Unrecognized codes pass through untouched.
		return num + " " + unitCode
	}
	word := def.display
	if !def.abbreviated && quantity > 1 && def.plural != "" {
		word = def.plural
	}
	if def.glued {
		return num + word
	}
	return num + " " + word
}

// FormatQuantity renders the numeric part alone: whole number, mixed fraction,
// or one-decimal fallback.
func FormatQuantity(quantity float64) string {
	if quantity <= 0 {
		return strconv.FormatFloat(quantity, 'f', -1, 64)
	}
	whole := int(math.Floor(quantity))
	frac := quantity - float64(whole)
	if frac < wholeCutoff {
		return strconv.Itoa(whole)
	}
	for _, f := range fractions {
		if math.Abs(frac-f.value) <= fractionTolerance {
			if whole == 0 {
				return f.glyph
			}
			return strconv.Itoa(whole) + f.glyph
		}
	}
	rounded := math.Round(quantity*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
