package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type RecipeIngredientInput struct {
	Name       string     `json:"name"`
	Quantity   *float64   `json:"quantity,omitempty"`
	Unit       *string    `json:"unit,omitempty"`
	PrepStepID *uuid.UUID `json:"prep_step_id,omitempty"`
}

type RecipeInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// RecipeDetail is a recipe with its ordered ingredients and prep steps.
type RecipeDetail struct {
	Recipe      *types.Recipe             `json:"recipe"`
	Ingredients []*types.RecipeIngredient `json:"ingredients"`
	PrepSteps   []*types.PrepStep         `json:"prep_steps"`
}

type RecipeService interface {
	Create(ctx context.Context, in RecipeInput) (*RecipeDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*RecipeDetail, error)
	List(ctx context.Context, includeRetired bool) ([]*types.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, in RecipeInput) (*RecipeDetail, error)
	// Retire soft-deletes: the recipe leaves cook-assignment pickers but stays
	// resolvable from existing plans. Refused while a template still cooks it.
	Retire(ctx context.Context, id uuid.UUID) error
}

type recipeService struct {
	db             *gorm.DB
	log            *logger.Logger
	recipeRepo     recipes.RecipeRepo
	ingredientRepo recipes.RecipeIngredientRepo
	prepStepRepo   recipes.PrepStepRepo
	dayRepo        planning.DayAssignmentRepo
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo recipes.RecipeRepo,
	ingredientRepo recipes.RecipeIngredientRepo,
	prepStepRepo recipes.PrepStepRepo,
	dayRepo planning.DayAssignmentRepo,
) RecipeService {
	return &recipeService{
		db:             db,
		log:            log.With("service", "RecipeService"),
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		prepStepRepo:   prepStepRepo,
		dayRepo:        dayRepo,
	}
}

func validateRecipeInput(in RecipeInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apierr.Validation("recipe name is required")
	}
	for i, ing := range in.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return apierr.Validation("ingredient %d: name is required", i)
		}
		if ing.Unit != nil && ing.Quantity == nil {
			return apierr.Validation("ingredient %q: unit requires a quantity", ing.Name)
		}
	}
	return nil
}

func (s *recipeService) Create(ctx context.Context, in RecipeInput) (*RecipeDetail, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}
	recipe := &types.Recipe{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return s.writeIngredients(ctx, tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

func (s *recipeService) writeIngredients(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, inputs []RecipeIngredientInput) error {
	rows := make([]*types.RecipeIngredient, 0, len(inputs))
	for i, ing := range inputs {
		rows = append(rows, &types.RecipeIngredient{
			ID:         uuid.New(),
			RecipeID:   recipeID,
			Name:       strings.TrimSpace(ing.Name),
			Quantity:   ing.Quantity,
			Unit:       ing.Unit,
			SortIndex:  i,
			PrepStepID: ing.PrepStepID,
		})
	}
	return s.ingredientRepo.ReplaceForRecipe(ctx, tx, recipeID, rows)
}

func (s *recipeService) Get(ctx context.Context, id uuid.UUID) (*RecipeDetail, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return nil, apierr.NotFound("recipe %s not found", id)
	}
	ingredients, err := s.ingredientRepo.GetByRecipeIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("get ingredients: %w", err)
	}
	steps, err := s.prepStepRepo.GetByRecipeIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("get prep steps: %w", err)
	}
	return &RecipeDetail{Recipe: recipe, Ingredients: ingredients, PrepSteps: steps}, nil
}

func (s *recipeService) List(ctx context.Context, includeRetired bool) ([]*types.Recipe, error) {
	return s.recipeRepo.List(ctx, nil, includeRetired)
}

func (s *recipeService) Update(ctx context.Context, id uuid.UUID, in RecipeInput) (*RecipeDetail, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}
	recipe, err := s.recipeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return nil, apierr.NotFound("recipe %s not found", id)
	}
	recipe.Name = strings.TrimSpace(in.Name)
	recipe.Description = in.Description

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.recipeRepo.Update(ctx, tx, recipe); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		return s.writeIngredients(ctx, tx, id, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *recipeService) Retire(ctx context.Context, id uuid.UUID) error {
	recipe, err := s.recipeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return apierr.NotFound("recipe %s not found", id)
	}
	uses, err := s.dayRepo.CountCookUsesOfRecipe(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("count cook uses: %w", err)
	}
	if uses > 0 {
		return apierr.Conflict("recipe %q is cooked by %d template days", recipe.Name, uses)
	}
	now := time.Now()
	return s.recipeRepo.SetRetiredAt(ctx, nil, id, &now)
}
