package services

import (
	"testing"

	"github.com/google/uuid"
)

func qty(v float64) *float64 { return &v }
func unit(v string) *string  { return &v }

func TestAggregateGroceryLinesMergesWithinUnit(t *testing.T) {
	recipeA, recipeB := uuid.New(), uuid.New()
	lines := []GroceryLine{
		{RecipeID: recipeA, Name: "flour", Mapped: true, Quantity: qty(3), Unit: unit("cup")},
		{RecipeID: recipeB, Name: "flour", Mapped: true, Quantity: qty(1), Unit: unit("cup")},
		{RecipeID: recipeB, Name: "flour", Mapped: true, Quantity: qty(200), Unit: unit("gram")},
	}

	drafts := AggregateGroceryLines(lines)
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	cups := drafts[0]
	if *cups.Unit != "cup" || cups.TotalQuantity != 4 {
		t.Errorf("cup draft: got %f %s, want 4 cup", cups.TotalQuantity, *cups.Unit)
	}
	if len(cups.RecipeIDs) != 2 {
		t.Errorf("cup draft should trace both recipes, got %v", cups.RecipeIDs)
	}

	grams := drafts[1]
	if *grams.Unit != "gram" || grams.TotalQuantity != 200 {
		t.Errorf("gram draft: got %f %s, want 200 gram", grams.TotalQuantity, *grams.Unit)
	}
	if len(grams.RecipeIDs) != 1 || grams.RecipeIDs[0] != recipeB {
		t.Errorf("gram draft should trace only recipe B, got %v", grams.RecipeIDs)
	}
}

func TestAggregateGroceryLinesGroupsUnmappedByRawText(t *testing.T) {
	recipeA, recipeB := uuid.New(), uuid.New()
	lines := []GroceryLine{
		{RecipeID: recipeA, Name: "weird chili paste", Quantity: qty(1), Unit: unit("tablespoon")},
		{RecipeID: recipeB, Name: "weird chili paste", Quantity: qty(2), Unit: unit("tablespoon")},
		{RecipeID: recipeB, Name: "weirder chili paste", Quantity: qty(1), Unit: unit("tablespoon")},
	}

	drafts := AggregateGroceryLines(lines)
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Name != "weird chili paste" || drafts[0].TotalQuantity != 3 {
		t.Errorf("draft 0: got %q %f", drafts[0].Name, drafts[0].TotalQuantity)
	}
	if drafts[0].Mapped {
		t.Errorf("unresolved names must stay unmapped")
	}
	if drafts[1].Name != "weirder chili paste" || drafts[1].TotalQuantity != 1 {
		t.Errorf("draft 1: got %q %f", drafts[1].Name, drafts[1].TotalQuantity)
	}
}

func TestAggregateGroceryLinesUnitlessAndDuplicateRecipes(t *testing.T) {
	recipe := uuid.New()
	lines := []GroceryLine{
		{RecipeID: recipe, Name: "eggs", Mapped: true, Quantity: qty(2)},
		{RecipeID: recipe, Name: "eggs", Mapped: true, Quantity: qty(4)},
		{RecipeID: recipe, Name: "salt", Mapped: true},
	}

	drafts := AggregateGroceryLines(lines)
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	eggs := drafts[0]
	if eggs.Name != "eggs" || eggs.TotalQuantity != 6 || eggs.Unit != nil {
		t.Errorf("eggs draft: got %+v", eggs)
	}
	if len(eggs.RecipeIDs) != 1 {
		t.Errorf("same recipe must appear once in traceability, got %v", eggs.RecipeIDs)
	}
	salt := drafts[1]
	if salt.Name != "salt" || salt.TotalQuantity != 0 {
		t.Errorf("salt draft: got %+v", salt)
	}
}

func TestAggregateGroceryLinesOrderedByNameThenUnit(t *testing.T) {
	r := uuid.New()
	lines := []GroceryLine{
		{RecipeID: r, Name: "flour", Quantity: qty(200), Unit: unit("gram")},
		{RecipeID: r, Name: "butter", Quantity: qty(1), Unit: unit("stick")},
		{RecipeID: r, Name: "flour", Quantity: qty(1), Unit: unit("cup")},
	}
	drafts := AggregateGroceryLines(lines)
	got := []string{}
	for _, d := range drafts {
		got = append(got, d.Name+"/"+*d.Unit)
	}
	want := []string{"butter/stick", "flour/cup", "flour/gram"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}
