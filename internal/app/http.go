package app

import (
	"github.com/hearthplan/hearthplan-backend/internal/http"
	httpH "github.com/hearthplan/hearthplan-backend/internal/http/handlers"
	httpMW "github.com/hearthplan/hearthplan-backend/internal/http/middleware"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Recipe       *httpH.RecipeHandler
	Ingredient   *httpH.IngredientHandler
	WeekTemplate *httpH.WeekTemplateHandler
	Schedule     *httpH.ScheduleHandler
	MealPlan     *httpH.MealPlanHandler
	Grocery      *httpH.GroceryHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Auth:         httpH.NewAuthHandler(services.Auth),
		User:         httpH.NewUserHandler(services.User),
		Recipe:       httpH.NewRecipeHandler(services.Recipe, services.PrepStep),
		Ingredient:   httpH.NewIngredientHandler(services.Ingredient),
		WeekTemplate: httpH.NewWeekTemplateHandler(services.WeekTemplate),
		Schedule:     httpH.NewScheduleHandler(services.Schedule),
		MealPlan:     httpH.NewMealPlanHandler(services.MealPlan),
		Grocery:      httpH.NewGroceryHandler(services.Grocery),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		UserHandler:    handlers.User,

		RecipeHandler:       handlers.Recipe,
		IngredientHandler:   handlers.Ingredient,
		WeekTemplateHandler: handlers.WeekTemplate,
		ScheduleHandler:     handlers.Schedule,
		MealPlanHandler:     handlers.MealPlan,
		GroceryHandler:      handlers.Grocery,
	})
}
