package app

import (
	"os"

	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
	"github.com/hearthplan/hearthplan-backend/internal/platform/redis"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type Services struct {
	Auth services.AuthService
	User services.UserService

	Recipe     services.RecipeService
	PrepStep   services.PrepStepService
	Ingredient services.IngredientService

	WeekTemplate services.WeekTemplateService
	Schedule     services.ScheduleService
	MealPlan     services.MealPlanService
	Grocery      services.GroceryService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	// Redis is optional; without it prep-step creation still dedupes via
	// singleflight and the claim table.
	var guard redis.CreationGuard
	if os.Getenv("REDIS_ADDR") != "" {
		g, err := redis.NewCreationGuard(log)
		if err != nil {
			return Services{}, err
		}
		guard = g
	} else {
		log.Warn("REDIS_ADDR not set, running without the redis creation guard")
	}

	authSvc := services.NewAuthService(db, log, repos.User, repos.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userSvc := services.NewUserService(db, log, repos.User)

	recipeSvc := services.NewRecipeService(db, log, repos.Recipe, repos.RecipeIngredient, repos.PrepStep, repos.DayAssignment)
	prepStepSvc := services.NewPrepStepService(db, log, repos.PrepStep, repos.PrepStepClaim, repos.RecipeIngredient, repos.Recipe, guard)
	ingredientSvc := services.NewIngredientService(db, log, repos.CommonIngredient, repos.IngredientAlias, repos.RecipeIngredient)

	templateSvc := services.NewWeekTemplateService(db, log, repos.WeekTemplate, repos.DayAssignment, repos.User, repos.Recipe)
	scheduleSvc := services.NewScheduleService(db, log, repos.ScheduleSequence, repos.WeekTemplateMapping, repos.WeekTemplate, repos.MealPlanInstance)
	mealPlanSvc := services.NewMealPlanService(db, log, repos.MealPlanInstance, repos.MealAssignment, repos.DayAssignment, repos.Recipe)
	grocerySvc := services.NewGroceryService(db, log, repos.Grocery, repos.RecipeIngredient, mealPlanSvc, ingredientSvc)

	return Services{
		Auth: authSvc,
		User: userSvc,

		Recipe:     recipeSvc,
		PrepStep:   prepStepSvc,
		Ingredient: ingredientSvc,

		WeekTemplate: templateSvc,
		Schedule:     scheduleSvc,
		MealPlan:     mealPlanSvc,
		Grocery:      grocerySvc,
	}, nil
}
