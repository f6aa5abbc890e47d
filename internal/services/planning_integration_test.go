package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authrepos "github.com/hearthplan/hearthplan-backend/internal/data/repos/auth"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/pantry"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/testutil"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
)

type planningEnv struct {
	db        *gorm.DB
	schedules ScheduleService
	mealPlans MealPlanService
	groceries GroceryService
	templates WeekTemplateService
}

func newPlanningEnv(t *testing.T) *planningEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	sequenceRepo := planning.NewScheduleSequenceRepo(db, log)
	mappingRepo := planning.NewWeekTemplateMappingRepo(db, log)
	templateRepo := planning.NewWeekTemplateRepo(db, log)
	instanceRepo := planning.NewMealPlanInstanceRepo(db, log)
	assignmentRepo := planning.NewMealAssignmentRepo(db, log)
	dayRepo := planning.NewDayAssignmentRepo(db, log)
	groceryRepo := planning.NewGroceryRepo(db, log)
	recipeRepo := recipes.NewRecipeRepo(db, log)
	recipeIngredientRepo := recipes.NewRecipeIngredientRepo(db, log)
	ingredientRepo := pantry.NewCommonIngredientRepo(db, log)
	aliasRepo := pantry.NewIngredientAliasRepo(db, log)
	userRepo := authrepos.NewUserRepo(db, log)

	mealPlans := NewMealPlanService(db, log, instanceRepo, assignmentRepo, dayRepo, recipeRepo)
	ingredients := NewIngredientService(db, log, ingredientRepo, aliasRepo, recipeIngredientRepo)
	return &planningEnv{
		db:        db,
		schedules: NewScheduleService(db, log, sequenceRepo, mappingRepo, templateRepo, instanceRepo),
		mealPlans: mealPlans,
		groceries: NewGroceryService(db, log, groceryRepo, recipeIngredientRepo, mealPlans, ingredients),
		templates: NewWeekTemplateService(db, log, templateRepo, dayRepo, userRepo, recipeRepo),
	}
}

func (e *planningEnv) seedRotation(t *testing.T, ctx context.Context, templateCount int) (*types.ScheduleSequence, []*types.WeekTemplate, *types.User) {
	t.Helper()
	user := testutil.SeedUser(t, ctx, e.db, uuid.NewString()+"@example.com")
	templates := make([]*types.WeekTemplate, 0, templateCount)
	ids := make([]uuid.UUID, 0, templateCount)
	for i := 0; i < templateCount; i++ {
		wt := testutil.SeedWeekTemplate(t, ctx, e.db, uuid.NewString(), user.ID)
		templates = append(templates, wt)
		ids = append(ids, wt.ID)
	}
	seq := testutil.SeedSequence(t, ctx, e.db, uuid.NewString(), ids...)
	return seq, templates, user
}

func TestAdvanceWeekCyclesAndNumbersInstances(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, templates, _ := env.seedRotation(t, ctx, 3)

	seen := []uuid.UUID{}
	for i := 0; i < 4; i++ {
		inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if inst.WeekNumber != i+1 {
			t.Errorf("advance %d: week number %d, want %d", i, inst.WeekNumber, i+1)
		}
		seen = append(seen, inst.WeekTemplateID)
	}

	// index starts at 0, so advances land on positions 1, 2, 0, 1.
	want := []uuid.UUID{templates[1].ID, templates[2].ID, templates[0].ID, templates[1].ID}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("advance %d landed on %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestAdvanceWeekSkipsRemovedTemplate(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, templates, _ := env.seedRotation(t, ctx, 3)

	if err := env.schedules.RemoveTemplate(ctx, seq.ID, templates[1].ID); err != nil {
		t.Fatalf("remove template: %v", err)
	}
	for i := 0; i < 4; i++ {
		inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if inst.WeekTemplateID == templates[1].ID {
			t.Fatalf("advance %d landed on a removed template", i)
		}
	}
}

func TestAdvanceWeekSerializesConcurrentCalls(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, _, _ := env.seedRotation(t, ctx, 3)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.schedules.AdvanceWeek(ctx, seq.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent advance: %v", err)
		}
	}

	detail, err := env.schedules.GetSequence(ctx, seq.ID)
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	if detail.Sequence.CurrentWeekIndex != callers {
		t.Errorf("index advanced %d times for %d calls", detail.Sequence.CurrentWeekIndex, callers)
	}
	instances, err := env.mealPlans.ListInstances(ctx, seq.ID)
	if err != nil {
		t.Fatalf("list instances: %v", err)
	}
	if len(instances) != callers {
		t.Errorf("got %d instances for %d calls", len(instances), callers)
	}
}

func TestAdvanceWeekWithNoActiveTemplates(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, templates, _ := env.seedRotation(t, ctx, 1)

	if err := env.schedules.RemoveTemplate(ctx, seq.ID, templates[0].ID); err != nil {
		t.Fatalf("remove template: %v", err)
	}
	_, err := env.schedules.AdvanceWeek(ctx, seq.ID)
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestReorderTemplates(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, templates, _ := env.seedRotation(t, ctx, 3)

	newOrder := []uuid.UUID{templates[2].ID, templates[0].ID, templates[1].ID}
	if err := env.schedules.ReorderTemplates(ctx, seq.ID, newOrder); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	detail, err := env.schedules.GetSequence(ctx, seq.ID)
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	for i, m := range detail.Mappings {
		if m.WeekTemplateID != newOrder[i] {
			t.Errorf("position %d: got %s, want %s", i, m.WeekTemplateID, newOrder[i])
		}
		if m.Position != i {
			t.Errorf("position values not contiguous: got %d at slot %d", m.Position, i)
		}
	}

	// Duplicate id is validation, not a partial write.
	dup := []uuid.UUID{templates[0].ID, templates[0].ID, templates[1].ID}
	err = env.schedules.ReorderTemplates(ctx, seq.ID, dup)
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Errorf("expected validation_failed for duplicates, got %v", err)
	}

	// A stale set (missing template) is a concurrency conflict.
	stale := []uuid.UUID{templates[0].ID, templates[1].ID}
	err = env.schedules.ReorderTemplates(ctx, seq.ID, stale)
	if !apierr.IsCode(err, apierr.CodeConcurrency) {
		t.Errorf("expected concurrent_update for stale set, got %v", err)
	}

	after, err := env.schedules.GetSequence(ctx, seq.ID)
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	for i, m := range after.Mappings {
		if m.WeekTemplateID != newOrder[i] {
			t.Errorf("failed reorder must not change order: slot %d got %s", i, m.WeekTemplateID)
		}
	}
}

func TestOverrideUpsertAndReset(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, _, user := env.seedRotation(t, ctx, 1)

	inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}

	dayOfWeek := int(inst.InstanceStartDate.AddDate(0, 0, 2).Weekday())
	override, err := env.mealPlans.UpsertOverride(ctx, inst.ID, OverrideInput{
		DayOfWeek:      dayOfWeek,
		AssignedUserID: user.ID,
		Action:         types.ActionTakeout,
	})
	if err != nil {
		t.Fatalf("upsert override: %v", err)
	}

	week, err := env.mealPlans.EffectiveWeek(ctx, inst.ID)
	if err != nil {
		t.Fatalf("effective week: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if day := week[2]; !day.Overridden || day.Action != types.ActionTakeout {
		t.Errorf("day 2 should be the takeout override, got %+v", day)
	}

	// Second upsert for the same day updates in place.
	again, err := env.mealPlans.UpsertOverride(ctx, inst.ID, OverrideInput{
		DayOfWeek:      dayOfWeek,
		AssignedUserID: user.ID,
		Action:         types.ActionLeftovers,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != override.ID {
		t.Errorf("second upsert created a new row: %s vs %s", again.ID, override.ID)
	}

	if err := env.mealPlans.ResetToTemplate(ctx, inst.ID, override.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	week, err = env.mealPlans.EffectiveWeek(ctx, inst.ID)
	if err != nil {
		t.Fatalf("effective week: %v", err)
	}
	if week[2].Overridden {
		t.Errorf("day 2 should have reverted to the template default")
	}
	if week[2].Action != types.ActionRest {
		t.Errorf("template default is rest, got %s", week[2].Action)
	}
}

func TestOverrideValidation(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, _, user := env.seedRotation(t, ctx, 1)
	inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}

	_, err = env.mealPlans.UpsertOverride(ctx, inst.ID, OverrideInput{
		DayOfWeek:      3,
		AssignedUserID: user.ID,
		Action:         types.ActionCook,
	})
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Errorf("cook without recipe should fail validation, got %v", err)
	}
}

func TestGroceryGenerationAggregatesAndRegenerates(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, _, user := env.seedRotation(t, ctx, 1)

	// Unique per run: the alias table has a global unique index on name.
	flour := "flour " + uuid.NewString()
	pasta := testutil.SeedRecipe(t, ctx, env.db, "weeknight pasta "+uuid.NewString())
	testutil.SeedRecipeIngredient(t, ctx, env.db, pasta.ID, strings.ToUpper(flour), testutil.Ptr(3.0), testutil.Ptr("cup"), 0)
	bread := testutil.SeedRecipe(t, ctx, env.db, "bread "+uuid.NewString())
	testutil.SeedRecipeIngredient(t, ctx, env.db, bread.ID, flour, testutil.Ptr(1.0), testutil.Ptr("cup"), 0)
	testutil.SeedRecipeIngredient(t, ctx, env.db, bread.ID, flour, testutil.Ptr(200.0), testutil.Ptr("gram"), 1)
	testutil.SeedCommonIngredient(t, ctx, env.db, "canonical "+flour, flour)

	inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	// Cook on the first two days of the instance span.
	for i, recipe := range []*types.Recipe{pasta, bread} {
		date := inst.InstanceStartDate.AddDate(0, 0, i)
		id := recipe.ID
		if _, err := env.mealPlans.UpsertOverride(ctx, inst.ID, OverrideInput{
			DayOfWeek:      int(date.Weekday()),
			AssignedUserID: user.ID,
			Action:         types.ActionCook,
			RecipeID:       &id,
		}); err != nil {
			t.Fatalf("override day %d: %v", i, err)
		}
	}

	shoppingDate := inst.InstanceStartDate.AddDate(0, 0, 3)
	detail, err := env.groceries.Generate(ctx, inst.ID, shoppingDate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("expected 2 items (cup row, gram row), got %d", len(detail.Items))
	}
	var cupItem, gramItem *types.GroceryItem
	for _, item := range detail.Items {
		switch *item.Unit {
		case "cup":
			cupItem = item
		case "gram":
			gramItem = item
		}
	}
	if cupItem == nil || cupItem.TotalQuantity != 4 {
		t.Errorf("cup row should sum to 4 across recipes, got %+v", cupItem)
	}
	if cupItem != nil && len(cupItem.SourceRecipeIDs()) != 2 {
		t.Errorf("cup row should trace both recipes, got %v", cupItem.SourceRecipeIDs())
	}
	if gramItem == nil || gramItem.TotalQuantity != 200 {
		t.Errorf("gram row must stay separate, got %+v", gramItem)
	}
	if cupItem != nil && !cupItem.Mapped {
		t.Errorf("aliased flour should be mapped")
	}

	// Regeneration replaces items on the same list row.
	second, err := env.groceries.Generate(ctx, inst.ID, shoppingDate)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if second.List.ID != detail.List.ID {
		t.Errorf("regeneration created a new list row")
	}
	if len(second.Items) != 2 {
		t.Errorf("regeneration duplicated items: got %d", len(second.Items))
	}
}

func TestGroceryGenerationExcludesDaysAfterShoppingDate(t *testing.T) {
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, _, user := env.seedRotation(t, ctx, 1)

	recipe := testutil.SeedRecipe(t, ctx, env.db, "late week roast "+uuid.NewString())
	testutil.SeedRecipeIngredient(t, ctx, env.db, recipe.ID, "carrots", testutil.Ptr(4.0), nil, 0)

	inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	lateDate := inst.InstanceStartDate.AddDate(0, 0, 5)
	id := recipe.ID
	if _, err := env.mealPlans.UpsertOverride(ctx, inst.ID, OverrideInput{
		DayOfWeek:      int(lateDate.Weekday()),
		AssignedUserID: user.ID,
		Action:         types.ActionCook,
		RecipeID:       &id,
	}); err != nil {
		t.Fatalf("override: %v", err)
	}

	detail, err := env.groceries.Generate(ctx, inst.ID, inst.InstanceStartDate.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(detail.Items) != 0 {
		t.Errorf("meals after the shopping date must not contribute, got %d items", len(detail.Items))
	}
}

func TestFixtureClockSanity(t *testing.T) {
	// Instance dates come from the advancement anchor, which is always at or
	// before now.
	env := newPlanningEnv(t)
	ctx := context.Background()
	seq, _, _ := env.seedRotation(t, ctx, 1)
	inst, err := env.schedules.AdvanceWeek(ctx, seq.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if inst.InstanceStartDate.After(time.Now()) {
		t.Errorf("instance start %s is in the future", inst.InstanceStartDate)
	}
}
