package app

import (
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/auth"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/pantry"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type Repos struct {
	User      auth.UserRepo
	UserToken auth.UserTokenRepo

	Recipe           recipes.RecipeRepo
	RecipeIngredient recipes.RecipeIngredientRepo
	PrepStep         recipes.PrepStepRepo
	PrepStepClaim    recipes.PrepStepClaimRepo

	CommonIngredient pantry.CommonIngredientRepo
	IngredientAlias  pantry.IngredientAliasRepo

	WeekTemplate        planning.WeekTemplateRepo
	DayAssignment       planning.DayAssignmentRepo
	ScheduleSequence    planning.ScheduleSequenceRepo
	WeekTemplateMapping planning.WeekTemplateMappingRepo
	MealPlanInstance    planning.MealPlanInstanceRepo
	MealAssignment      planning.MealAssignmentRepo
	Grocery             planning.GroceryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      auth.NewUserRepo(db, log),
		UserToken: auth.NewUserTokenRepo(db, log),

		Recipe:           recipes.NewRecipeRepo(db, log),
		RecipeIngredient: recipes.NewRecipeIngredientRepo(db, log),
		PrepStep:         recipes.NewPrepStepRepo(db, log),
		PrepStepClaim:    recipes.NewPrepStepClaimRepo(db, log),

		CommonIngredient: pantry.NewCommonIngredientRepo(db, log),
		IngredientAlias:  pantry.NewIngredientAliasRepo(db, log),

		WeekTemplate:        planning.NewWeekTemplateRepo(db, log),
		DayAssignment:       planning.NewDayAssignmentRepo(db, log),
		ScheduleSequence:    planning.NewScheduleSequenceRepo(db, log),
		WeekTemplateMapping: planning.NewWeekTemplateMappingRepo(db, log),
		MealPlanInstance:    planning.NewMealPlanInstanceRepo(db, log),
		MealAssignment:      planning.NewMealAssignmentRepo(db, log),
		Grocery:             planning.NewGroceryRepo(db, log),
	}
}
