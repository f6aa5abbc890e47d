package services

import (
	"sort"

	"github.com/google/uuid"
)

// GroceryLine is one recipe ingredient contribution entering aggregation.
// Name is the aggregation key: the canonical ingredient name when the raw text
// resolved, else the raw text itself so unmapped ingredients still appear.
type GroceryLine struct {
	RecipeID uuid.UUID
	Name     string
	Mapped   bool
	Quantity *float64
	Unit     *string
}

// GroceryDraft is one aggregated (name, unit) line before persistence.
type GroceryDraft struct {
	Name          string
	Mapped        bool
	TotalQuantity float64
	Unit          *string
	RecipeIDs     []uuid.UUID
}

// AggregateGroceryLines groups lines by (name, unit) and sums quantities.
// Quantities are only summed within an identical unit; the same name under a
// different unit stays a separate draft, since converting across units without
// density data would produce silently wrong totals. Output is ordered by name,
// then unit code.
func AggregateGroceryLines(lines []GroceryLine) []GroceryDraft {
	type key struct {
		name string
		unit string
	}
	grouped := map[key]*GroceryDraft{}
	order := []key{}

	for _, line := range lines {
		if line.Name == "" {
			continue
		}
		k := key{name: line.Name}
		if line.Unit != nil {
			k.unit = *line.Unit
		}
		draft, ok := grouped[k]
		if !ok {
			draft = &GroceryDraft{Name: line.Name, Mapped: line.Mapped, Unit: line.Unit}
			grouped[k] = draft
			order = append(order, k)
		}
		if line.Quantity != nil {
			draft.TotalQuantity += *line.Quantity
		}
		if !containsID(draft.RecipeIDs, line.RecipeID) {
			draft.RecipeIDs = append(draft.RecipeIDs, line.RecipeID)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].name != order[j].name {
			return order[i].name < order[j].name
		}
		return order[i].unit < order[j].unit
	})
	out := make([]GroceryDraft, 0, len(order))
	for _, k := range order {
		out = append(out, *grouped[k])
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
