package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/pantry"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/testutil"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
)

type pantryEnv struct {
	db          *gorm.DB
	ingredients IngredientService
	prepSteps   PrepStepService
	recipesSvc  RecipeService
}

func newPantryEnv(t *testing.T) *pantryEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	ingredientRepo := pantry.NewCommonIngredientRepo(db, log)
	aliasRepo := pantry.NewIngredientAliasRepo(db, log)
	recipeRepo := recipes.NewRecipeRepo(db, log)
	recipeIngredientRepo := recipes.NewRecipeIngredientRepo(db, log)
	stepRepo := recipes.NewPrepStepRepo(db, log)
	claimRepo := recipes.NewPrepStepClaimRepo(db, log)
	dayRepo := planning.NewDayAssignmentRepo(db, log)

	return &pantryEnv{
		db:          db,
		ingredients: NewIngredientService(db, log, ingredientRepo, aliasRepo, recipeIngredientRepo),
		prepSteps:   NewPrepStepService(db, log, stepRepo, claimRepo, recipeIngredientRepo, recipeRepo, nil),
		recipesSvc:  NewRecipeService(db, log, recipeRepo, recipeIngredientRepo, stepRepo, dayRepo),
	}
}

func TestResolveThroughAlias(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	alias := "scallions " + uuid.NewString()
	ci := testutil.SeedCommonIngredient(t, ctx, env.db, "canonical "+alias, alias)

	got, err := env.ingredients.Resolve(ctx, "  "+alias+"  ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != ci.ID {
		t.Errorf("expected alias to resolve to %s, got %+v", ci.ID, got)
	}

	missing, err := env.ingredients.Resolve(ctx, "never mapped "+uuid.NewString())
	if err != nil {
		t.Fatalf("resolve unmapped: %v", err)
	}
	if missing != nil {
		t.Errorf("unmapped name must resolve to nil, got %+v", missing)
	}
}

func TestDeleteIngredientInUseConflicts(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	alias := "basil " + uuid.NewString()
	ci := testutil.SeedCommonIngredient(t, ctx, env.db, "canonical "+alias, alias)
	recipe := testutil.SeedRecipe(t, ctx, env.db, "pesto "+uuid.NewString())
	testutil.SeedRecipeIngredient(t, ctx, env.db, recipe.ID, alias, testutil.Ptr(2.0), testutil.Ptr("cup"), 0)

	err := env.ingredients.Delete(ctx, ci.ID)
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict deleting an in-use ingredient, got %v", err)
	}

	// Still resolvable afterwards: no partial state change.
	got, rerr := env.ingredients.Resolve(ctx, alias)
	if rerr != nil || got == nil {
		t.Errorf("ingredient should survive the refused delete: %v %v", got, rerr)
	}
}

func TestDeleteUnusedIngredientSucceeds(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	alias := "saffron " + uuid.NewString()
	ci := testutil.SeedCommonIngredient(t, ctx, env.db, "canonical "+alias, alias)
	if err := env.ingredients.Delete(ctx, ci.ID); err != nil {
		t.Fatalf("delete unused ingredient: %v", err)
	}
	got, err := env.ingredients.Resolve(ctx, alias)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Errorf("aliases must go with the ingredient, still resolved to %+v", got)
	}
}

func TestMergeMovesAliases(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	aliasA := "green onion " + uuid.NewString()
	aliasB := "spring onion " + uuid.NewString()
	from := testutil.SeedCommonIngredient(t, ctx, env.db, "canonical "+aliasA, aliasA)
	to := testutil.SeedCommonIngredient(t, ctx, env.db, "canonical "+aliasB, aliasB)

	if err := env.ingredients.Merge(ctx, from.ID, to.ID); err != nil {
		t.Fatalf("merge: %v", err)
	}
	got, err := env.ingredients.Resolve(ctx, aliasA)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != to.ID {
		t.Errorf("moved alias should resolve to the survivor, got %+v", got)
	}
	if _, err := env.ingredients.Get(ctx, from.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Errorf("merged-away ingredient should be gone, got %v", err)
	}
}

func TestAutoMapCommon(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	frequent := "orzo " + uuid.NewString()
	rare := "za'atar " + uuid.NewString()
	for i := 0; i < 2; i++ {
		recipe := testutil.SeedRecipe(t, ctx, env.db, "dish "+uuid.NewString())
		testutil.SeedRecipeIngredient(t, ctx, env.db, recipe.ID, frequent, testutil.Ptr(1.0), testutil.Ptr("cup"), 0)
	}
	soloRecipe := testutil.SeedRecipe(t, ctx, env.db, "dish "+uuid.NewString())
	testutil.SeedRecipeIngredient(t, ctx, env.db, soloRecipe.ID, rare, testutil.Ptr(1.0), testutil.Ptr("teaspoon"), 0)

	if _, err := env.ingredients.AutoMapCommon(ctx, 2); err != nil {
		t.Fatalf("auto map: %v", err)
	}

	mapped, err := env.ingredients.Resolve(ctx, frequent)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if mapped == nil {
		t.Errorf("name used in 2 recipes should have been auto-mapped")
	}
	still, err := env.ingredients.Resolve(ctx, rare)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if still != nil {
		t.Errorf("name under the threshold must stay unmapped, got %+v", still)
	}
}

func TestPrepStepEnsureIsIdempotent(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	recipe := testutil.SeedRecipe(t, ctx, env.db, "stir fry "+uuid.NewString())

	first, err := env.prepSteps.Ensure(ctx, recipe.ID, "Dice the onions")
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	// Same text with different casing and padding resolves to the same step.
	second, err := env.prepSteps.Ensure(ctx, recipe.ID, "  dice the onions ")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("repeated ensure created a second step: %s vs %s", first.ID, second.ID)
	}

	other, err := env.prepSteps.Ensure(ctx, recipe.ID, "mince the garlic")
	if err != nil {
		t.Fatalf("third ensure: %v", err)
	}
	if other.ID == first.ID {
		t.Errorf("different descriptions must create distinct steps")
	}
}

func TestPrepStepRenameAndDelete(t *testing.T) {
	env := newPantryEnv(t)
	ctx := context.Background()

	recipe := testutil.SeedRecipe(t, ctx, env.db, "curry "+uuid.NewString())
	step, err := env.prepSteps.Ensure(ctx, recipe.ID, "chop the cilantro")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	renamed, err := env.prepSteps.Rename(ctx, step.ID, "chop the coriander")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.ID != step.ID {
		t.Errorf("rename must be a single-row update, got new id %s", renamed.ID)
	}

	// Link an ingredient to the step, then delete: the link clears, the
	// ingredient stays.
	ing := testutil.SeedRecipeIngredient(t, ctx, env.db, recipe.ID, "cilantro "+uuid.NewString(), nil, nil, 0)
	if err := env.db.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Where("id = ?", ing.ID).
		Update("prep_step_id", step.ID).Error; err != nil {
		t.Fatalf("link ingredient: %v", err)
	}

	if err := env.prepSteps.Delete(ctx, step.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	detail, err := env.recipesSvc.Get(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("get recipe: %v", err)
	}
	for _, ri := range detail.Ingredients {
		if ri.PrepStepID != nil && *ri.PrepStepID == step.ID {
			t.Errorf("ingredient still links the deleted step")
		}
	}
}
