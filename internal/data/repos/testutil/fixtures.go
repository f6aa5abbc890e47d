package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	return r
}

func SeedRecipeIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, name string, quantity *float64, unit *string, index int) *types.RecipeIngredient {
	tb.Helper()
	ri := &types.RecipeIngredient{
		ID:        uuid.New(),
		RecipeID:  recipeID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		SortIndex: index,
	}
	if err := tx.WithContext(ctx).Create(ri).Error; err != nil {
		tb.Fatalf("seed recipe ingredient: %v", err)
	}
	return ri
}

func SeedCommonIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, aliases ...string) *types.CommonIngredient {
	tb.Helper()
	ci := &types.CommonIngredient{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(ci).Error; err != nil {
		tb.Fatalf("seed common ingredient: %v", err)
	}
	for _, alias := range aliases {
		a := &types.IngredientAlias{
			ID:                 uuid.New(),
			CommonIngredientID: ci.ID,
			Name:               alias,
		}
		if err := tx.WithContext(ctx).Create(a).Error; err != nil {
			tb.Fatalf("seed alias: %v", err)
		}
	}
	return ci
}

// SeedWeekTemplate creates a template with seven rest days assigned to userID.
func SeedWeekTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, userID uuid.UUID) *types.WeekTemplate {
	tb.Helper()
	wt := &types.WeekTemplate{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(wt).Error; err != nil {
		tb.Fatalf("seed week template: %v", err)
	}
	for day := 0; day < 7; day++ {
		da := &types.DayAssignment{
			ID:             uuid.New(),
			WeekTemplateID: wt.ID,
			DayOfWeek:      day,
			AssignedUserID: userID,
			Action:         types.ActionRest,
		}
		if err := tx.WithContext(ctx).Create(da).Error; err != nil {
			tb.Fatalf("seed day assignment: %v", err)
		}
	}
	return wt
}

func SetTemplateDay(tb testing.TB, ctx context.Context, tx *gorm.DB, templateID uuid.UUID, day int, userID uuid.UUID, action types.MealAction, recipeID *uuid.UUID) {
	tb.Helper()
	if err := tx.WithContext(ctx).
		Model(&types.DayAssignment{}).
		Where("week_template_id = ? AND day_of_week = ?", templateID, day).
		Updates(map[string]interface{}{
			"assigned_user_id": userID,
			"action":           action,
			"recipe_id":        recipeID,
		}).Error; err != nil {
		tb.Fatalf("set template day: %v", err)
	}
}

func SeedSequence(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, templateIDs ...uuid.UUID) *types.ScheduleSequence {
	tb.Helper()
	seq := &types.ScheduleSequence{
		ID:                   uuid.New(),
		Name:                 name,
		AdvancementDayOfWeek: 0,
		AdvancementTime:      "00:00",
	}
	if err := tx.WithContext(ctx).Create(seq).Error; err != nil {
		tb.Fatalf("seed sequence: %v", err)
	}
	for i, tid := range templateIDs {
		m := &types.WeekTemplateMapping{
			ID:                 uuid.New(),
			ScheduleSequenceID: seq.ID,
			WeekTemplateID:     tid,
			Position:           i,
		}
		if err := tx.WithContext(ctx).Create(m).Error; err != nil {
			tb.Fatalf("seed mapping: %v", err)
		}
	}
	return seq
}

func SeedInstance(tb testing.TB, ctx context.Context, tx *gorm.DB, sequenceID, templateID uuid.UUID, start time.Time, weekNumber int) *types.MealPlanInstance {
	tb.Helper()
	inst := &types.MealPlanInstance{
		ID:                 uuid.New(),
		ScheduleSequenceID: sequenceID,
		WeekTemplateID:     templateID,
		InstanceStartDate:  start,
		ThemeName:          "seeded",
		WeekNumber:         weekNumber,
	}
	if err := tx.WithContext(ctx).Create(inst).Error; err != nil {
		tb.Fatalf("seed instance: %v", err)
	}
	return inst
}

func Ptr[T any](v T) *T { return &v }
