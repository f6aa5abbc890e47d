package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/normalization"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// GroceryListDetail is a list with its aggregated items in display order.
type GroceryListDetail struct {
	List  *types.GroceryList   `json:"list"`
	Items []*types.GroceryItem `json:"items"`
}

type GroceryService interface {
	// Generate builds the shopping list for everything decided up through the
	// shopping date. Regenerating for the same (instance, date) replaces the
	// prior items; retries are safe.
	Generate(ctx context.Context, instanceID uuid.UUID, shoppingDate time.Time) (*GroceryListDetail, error)
	GetList(ctx context.Context, listID uuid.UUID) (*GroceryListDetail, error)
	ListLists(ctx context.Context, instanceID uuid.UUID) ([]*types.GroceryList, error)
}

type groceryService struct {
	db             *gorm.DB
	log            *logger.Logger
	groceryRepo    planning.GroceryRepo
	ingredientRepo recipes.RecipeIngredientRepo
	mealPlans      MealPlanService
	ingredients    IngredientService
}

func NewGroceryService(
	db *gorm.DB,
	log *logger.Logger,
	groceryRepo planning.GroceryRepo,
	ingredientRepo recipes.RecipeIngredientRepo,
	mealPlans MealPlanService,
	ingredients IngredientService,
) GroceryService {
	return &groceryService{
		db:             db,
		log:            log.With("service", "GroceryService"),
		groceryRepo:    groceryRepo,
		ingredientRepo: ingredientRepo,
		mealPlans:      mealPlans,
		ingredients:    ingredients,
	}
}

func (s *groceryService) Generate(ctx context.Context, instanceID uuid.UUID, shoppingDate time.Time) (*GroceryListDetail, error) {
	week, err := s.mealPlans.EffectiveWeek(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	// Cook days already decided up through the shopping trip.
	recipeIDs := []uuid.UUID{}
	for _, day := range week {
		if day.Action != types.ActionCook || day.RecipeID == nil {
			continue
		}
		if day.Date.After(shoppingDate) {
			continue
		}
		recipeIDs = append(recipeIDs, *day.RecipeID)
	}

	lines, err := s.collectLines(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	drafts := AggregateGroceryLines(lines)

	var list *types.GroceryList
	var items []*types.GroceryItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		list, err = s.groceryRepo.GetListByInstanceAndDate(ctx, tx, instanceID, shoppingDate)
		if err != nil {
			return fmt.Errorf("get list: %w", err)
		}
		if list == nil {
			list, err = s.groceryRepo.CreateList(ctx, tx, &types.GroceryList{
				ID:                 uuid.New(),
				MealPlanInstanceID: instanceID,
				ShoppingDate:       shoppingDate,
				GeneratedAt:        now,
			})
			if err != nil {
				return fmt.Errorf("create list: %w", err)
			}
		} else {
			if err := s.groceryRepo.DeleteItemsByList(ctx, tx, list.ID); err != nil {
				return fmt.Errorf("delete prior items: %w", err)
			}
			if err := s.groceryRepo.TouchGeneratedAt(ctx, tx, list.ID, now); err != nil {
				return fmt.Errorf("touch list: %w", err)
			}
			list.GeneratedAt = now
		}

		items = make([]*types.GroceryItem, 0, len(drafts))
		for i, d := range drafts {
			raw, err := json.Marshal(d.RecipeIDs)
			if err != nil {
				return fmt.Errorf("marshal recipe ids: %w", err)
			}
			items = append(items, &types.GroceryItem{
				ID:            uuid.New(),
				GroceryListID: list.ID,
				Name:          d.Name,
				Mapped:        d.Mapped,
				TotalQuantity: d.TotalQuantity,
				Unit:          d.Unit,
				RecipeIDs:     datatypes.JSON(raw),
				SortIndex:     i,
			})
		}
		_, err = s.groceryRepo.CreateItems(ctx, tx, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("generated grocery list", "instance_id", instanceID, "shopping_date", dateKey(shoppingDate), "items", len(items))
	return &GroceryListDetail{List: list, Items: items}, nil
}

// collectLines flattens the recipes' ingredient rows into aggregation input,
// resolving each free-text name through the alias table. Unresolved names keep
// the raw text as their key.
func (s *groceryService) collectLines(ctx context.Context, recipeIDs []uuid.UUID) ([]GroceryLine, error) {
	if len(recipeIDs) == 0 {
		return []GroceryLine{}, nil
	}
	rows, err := s.ingredientRepo.GetByRecipeIDs(ctx, nil, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("get recipe ingredients: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	resolved, err := s.ingredients.ResolveNames(ctx, nil, names)
	if err != nil {
		return nil, err
	}

	lines := make([]GroceryLine, 0, len(rows))
	for _, r := range rows {
		normalized := normalization.ParseInputString(r.Name)
		line := GroceryLine{
			RecipeID: r.RecipeID,
			Name:     normalized,
			Quantity: r.Quantity,
			Unit:     r.Unit,
		}
		if ci := resolved[normalized]; ci != nil {
			line.Name = ci.Name
			line.Mapped = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *groceryService) GetList(ctx context.Context, listID uuid.UUID) (*GroceryListDetail, error) {
	list, err := s.groceryRepo.GetListByID(ctx, nil, listID)
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	if list == nil {
		return nil, apierr.NotFound("grocery list %s not found", listID)
	}
	items, err := s.groceryRepo.GetItemsByList(ctx, nil, listID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return &GroceryListDetail{List: list, Items: items}, nil
}

func (s *groceryService) ListLists(ctx context.Context, instanceID uuid.UUID) ([]*types.GroceryList, error) {
	return s.groceryRepo.ListByInstance(ctx, nil, instanceID)
}
