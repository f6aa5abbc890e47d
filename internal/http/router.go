package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/hearthplan/hearthplan-backend/internal/http/handlers"
	httpMW "github.com/hearthplan/hearthplan-backend/internal/http/middleware"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	RecipeHandler       *httpH.RecipeHandler
	IngredientHandler   *httpH.IngredientHandler
	WeekTemplateHandler *httpH.WeekTemplateHandler
	ScheduleHandler     *httpH.ScheduleHandler
	MealPlanHandler     *httpH.MealPlanHandler
	GroceryHandler      *httpH.GroceryHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.AttachTraceContext())
	r.Use(otelgin.Middleware("hearthplan-backend"))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me + household)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/users", cfg.UserHandler.List)
		}

		// Recipes + prep steps
		if cfg.RecipeHandler != nil {
			protected.POST("/recipes", cfg.RecipeHandler.Create)
			protected.GET("/recipes", cfg.RecipeHandler.List)
			protected.GET("/recipes/:id", cfg.RecipeHandler.Get)
			protected.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
			protected.DELETE("/recipes/:id", cfg.RecipeHandler.Retire)
			protected.POST("/recipes/:id/prep-steps", cfg.RecipeHandler.EnsurePrepStep)
			protected.PATCH("/prep-steps/:id", cfg.RecipeHandler.RenamePrepStep)
			protected.DELETE("/prep-steps/:id", cfg.RecipeHandler.DeletePrepStep)
		}

		// Ingredient identity
		if cfg.IngredientHandler != nil {
			protected.GET("/ingredients", cfg.IngredientHandler.List)
			protected.GET("/ingredients/unmapped", cfg.IngredientHandler.ListUnmapped)
			protected.GET("/ingredients/suggest", cfg.IngredientHandler.Suggest)
			protected.POST("/ingredients", cfg.IngredientHandler.Create)
			protected.POST("/ingredients/auto-map", cfg.IngredientHandler.AutoMap)
			protected.POST("/ingredients/:id/aliases", cfg.IngredientHandler.MapToExisting)
			protected.PATCH("/ingredients/:id", cfg.IngredientHandler.Update)
			protected.POST("/ingredients/:id/merge", cfg.IngredientHandler.Merge)
			protected.DELETE("/ingredients/:id", cfg.IngredientHandler.Delete)
			protected.DELETE("/ingredient-aliases/:id", cfg.IngredientHandler.DeleteAlias)
		}

		// Week templates
		if cfg.WeekTemplateHandler != nil {
			protected.POST("/week-templates", cfg.WeekTemplateHandler.Create)
			protected.GET("/week-templates", cfg.WeekTemplateHandler.List)
			protected.GET("/week-templates/:id", cfg.WeekTemplateHandler.Get)
			protected.PATCH("/week-templates/:id", cfg.WeekTemplateHandler.Rename)
			protected.DELETE("/week-templates/:id", cfg.WeekTemplateHandler.Retire)
			protected.POST("/week-templates/:id/fork", cfg.WeekTemplateHandler.Fork)
			protected.PUT("/week-templates/:id/days", cfg.WeekTemplateHandler.PutDay)
			protected.DELETE("/week-templates/:id/days/:day", cfg.WeekTemplateHandler.ClearDay)
		}

		// Rotation sequences
		if cfg.ScheduleHandler != nil {
			protected.POST("/sequences", cfg.ScheduleHandler.Create)
			protected.GET("/sequences", cfg.ScheduleHandler.List)
			protected.GET("/sequences/:id", cfg.ScheduleHandler.Get)
			protected.PATCH("/sequences/:id", cfg.ScheduleHandler.Update)
			protected.DELETE("/sequences/:id", cfg.ScheduleHandler.Delete)
			protected.POST("/sequences/:id/templates", cfg.ScheduleHandler.AddTemplate)
			protected.DELETE("/sequences/:id/templates/:template_id", cfg.ScheduleHandler.RemoveTemplate)
			protected.PUT("/sequences/:id/templates/order", cfg.ScheduleHandler.Reorder)
			protected.POST("/sequences/:id/advance", cfg.ScheduleHandler.Advance)
			protected.POST("/sequences/:id/start", cfg.ScheduleHandler.Start)
		}

		// Meal-plan instances
		if cfg.MealPlanHandler != nil {
			protected.GET("/sequences/:id/instances", cfg.MealPlanHandler.ListInstances)
			protected.GET("/sequences/:id/instances/current", cfg.MealPlanHandler.CurrentInstance)
			protected.GET("/instances/:id", cfg.MealPlanHandler.GetInstance)
			protected.GET("/instances/:id/week", cfg.MealPlanHandler.EffectiveWeek)
			protected.PUT("/instances/:id/overrides", cfg.MealPlanHandler.UpsertOverride)
			protected.DELETE("/instances/:id/overrides/:override_id", cfg.MealPlanHandler.ResetToTemplate)
		}

		// Grocery lists
		if cfg.GroceryHandler != nil {
			protected.POST("/instances/:id/grocery-lists", cfg.GroceryHandler.Generate)
			protected.GET("/instances/:id/grocery-lists", cfg.GroceryHandler.ListByInstance)
			protected.GET("/grocery-lists/:id", cfg.GroceryHandler.Get)
		}
	}

	return r
}
