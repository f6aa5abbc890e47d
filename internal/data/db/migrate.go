package db

import (
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Recipes
		&types.Recipe{},
		&types.RecipeIngredient{},
		&types.PrepStep{},
		&types.PrepStepClaim{},

		// Canonical ingredients
		&types.CommonIngredient{},
		&types.IngredientAlias{},

		// Rotation
		&types.WeekTemplate{},
		&types.DayAssignment{},
		&types.ScheduleSequence{},
		&types.WeekTemplateMapping{},

		// Materialized plans + shopping
		&types.MealPlanInstance{},
		&types.MealAssignment{},
		&types.GroceryList{},
		&types.GroceryItem{},
	)
}
