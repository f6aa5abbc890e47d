package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// EffectiveDay is one resolved day of an instance week: the override if one
// exists for the date, else the template default. Consumers always read this,
// never raw template plus raw overrides.
type EffectiveDay struct {
	Date           time.Time        `json:"date"`
	DayOfWeek      int              `json:"day_of_week"`
	AssignedUserID uuid.UUID        `json:"assigned_user_id"`
	Action         types.MealAction `json:"action"`
	RecipeID       *uuid.UUID       `json:"recipe_id,omitempty"`
	Overridden     bool             `json:"overridden"`
	OverrideID     *uuid.UUID       `json:"override_id,omitempty"`
}

type OverrideInput struct {
	DayOfWeek      int              `json:"day_of_week"`
	AssignedUserID uuid.UUID        `json:"assigned_user_id"`
	Action         types.MealAction `json:"action"`
	RecipeID       *uuid.UUID       `json:"recipe_id,omitempty"`
}

type MealPlanService interface {
	GetInstance(ctx context.Context, id uuid.UUID) (*types.MealPlanInstance, error)
	ListInstances(ctx context.Context, sequenceID uuid.UUID) ([]*types.MealPlanInstance, error)
	CurrentInstance(ctx context.Context, sequenceID uuid.UUID) (*types.MealPlanInstance, error)

	EffectiveWeek(ctx context.Context, instanceID uuid.UUID) ([]EffectiveDay, error)
	UpsertOverride(ctx context.Context, instanceID uuid.UUID, in OverrideInput) (*types.MealAssignment, error)
	ResetToTemplate(ctx context.Context, instanceID, overrideID uuid.UUID) error
}

type mealPlanService struct {
	db             *gorm.DB
	log            *logger.Logger
	instanceRepo   planning.MealPlanInstanceRepo
	assignmentRepo planning.MealAssignmentRepo
	dayRepo        planning.DayAssignmentRepo
	recipeRepo     recipes.RecipeRepo
}

func NewMealPlanService(
	db *gorm.DB,
	log *logger.Logger,
	instanceRepo planning.MealPlanInstanceRepo,
	assignmentRepo planning.MealAssignmentRepo,
	dayRepo planning.DayAssignmentRepo,
	recipeRepo recipes.RecipeRepo,
) MealPlanService {
	return &mealPlanService{
		db:             db,
		log:            log.With("service", "MealPlanService"),
		instanceRepo:   instanceRepo,
		assignmentRepo: assignmentRepo,
		dayRepo:        dayRepo,
		recipeRepo:     recipeRepo,
	}
}

func (s *mealPlanService) GetInstance(ctx context.Context, id uuid.UUID) (*types.MealPlanInstance, error) {
	inst, err := s.instanceRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	if inst == nil {
		return nil, apierr.NotFound("instance %s not found", id)
	}
	return inst, nil
}

func (s *mealPlanService) ListInstances(ctx context.Context, sequenceID uuid.UUID) ([]*types.MealPlanInstance, error) {
	return s.instanceRepo.ListBySequence(ctx, nil, sequenceID)
}

func (s *mealPlanService) CurrentInstance(ctx context.Context, sequenceID uuid.UUID) (*types.MealPlanInstance, error) {
	inst, err := s.instanceRepo.LatestBySequence(ctx, nil, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("latest instance: %w", err)
	}
	if inst == nil {
		return nil, apierr.NotFound("sequence %s has no instances", sequenceID)
	}
	return inst, nil
}

func (s *mealPlanService) EffectiveWeek(ctx context.Context, instanceID uuid.UUID) ([]EffectiveDay, error) {
	inst, err := s.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return s.effectiveWeek(ctx, nil, inst)
}

// effectiveWeek resolves the seven days of the instance span in date order.
// The grocery aggregator calls this with its own transaction handle.
func (s *mealPlanService) effectiveWeek(ctx context.Context, tx *gorm.DB, inst *types.MealPlanInstance) ([]EffectiveDay, error) {
	defaults, err := s.dayRepo.GetByTemplateIDs(ctx, tx, []uuid.UUID{inst.WeekTemplateID})
	if err != nil {
		return nil, fmt.Errorf("get template days: %w", err)
	}
	byDay := make(map[int]*types.DayAssignment, len(defaults))
	for _, d := range defaults {
		byDay[d.DayOfWeek] = d
	}

	overrides, err := s.assignmentRepo.GetByInstance(ctx, tx, inst.ID)
	if err != nil {
		return nil, fmt.Errorf("get overrides: %w", err)
	}
	byDate := make(map[string]*types.MealAssignment, len(overrides))
	for _, o := range overrides {
		byDate[dateKey(o.Date)] = o
	}

	week := make([]EffectiveDay, 0, 7)
	for offset := 0; offset < 7; offset++ {
		date := inst.InstanceStartDate.AddDate(0, 0, offset)
		dayOfWeek := int(date.Weekday())
		day := EffectiveDay{Date: date, DayOfWeek: dayOfWeek}

		if o := byDate[dateKey(date)]; o != nil {
			day.AssignedUserID = o.AssignedUserID
			day.Action = o.Action
			day.RecipeID = o.RecipeID
			day.Overridden = true
			id := o.ID
			day.OverrideID = &id
		} else if d := byDay[dayOfWeek]; d != nil {
			day.AssignedUserID = d.AssignedUserID
			day.Action = d.Action
			day.RecipeID = d.RecipeID
		} else {
			day.Action = types.ActionRest
		}
		week = append(week, day)
	}
	return week, nil
}

func (s *mealPlanService) UpsertOverride(ctx context.Context, instanceID uuid.UUID, in OverrideInput) (*types.MealAssignment, error) {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return nil, apierr.Validation("day_of_week must be 0..6, got %d", in.DayOfWeek)
	}
	if !types.ValidMealAction(in.Action) {
		return nil, apierr.Validation("unknown action %q", in.Action)
	}
	if in.Action == types.ActionCook && in.RecipeID == nil {
		return nil, apierr.Validation("action cook requires recipe_id")
	}
	if in.AssignedUserID == uuid.Nil {
		return nil, apierr.Validation("assigned_user_id is required")
	}
	if in.RecipeID != nil {
		recipe, err := s.recipeRepo.GetByID(ctx, nil, *in.RecipeID)
		if err != nil {
			return nil, fmt.Errorf("get recipe: %w", err)
		}
		if recipe == nil {
			return nil, apierr.NotFound("recipe %s not found", *in.RecipeID)
		}
		if recipe.Retired() {
			return nil, apierr.Validation("recipe %s is retired", *in.RecipeID)
		}
	}

	inst, err := s.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	date := dateForDayOfWeek(inst.InstanceStartDate, in.DayOfWeek)

	var out *types.MealAssignment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.assignmentRepo.GetByInstanceAndDate(ctx, tx, instanceID, date)
		if err != nil {
			return fmt.Errorf("get override: %w", err)
		}
		if existing != nil {
			existing.AssignedUserID = in.AssignedUserID
			existing.Action = in.Action
			existing.RecipeID = in.RecipeID
			if err := s.assignmentRepo.Update(ctx, tx, existing); err != nil {
				return fmt.Errorf("update override: %w", err)
			}
			out = existing
			return nil
		}
		out, err = s.assignmentRepo.Create(ctx, tx, &types.MealAssignment{
			ID:                 uuid.New(),
			MealPlanInstanceID: instanceID,
			Date:               date,
			AssignedUserID:     in.AssignedUserID,
			Action:             in.Action,
			RecipeID:           in.RecipeID,
		})
		if err != nil {
			return fmt.Errorf("create override: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mealPlanService) ResetToTemplate(ctx context.Context, instanceID, overrideID uuid.UUID) error {
	override, err := s.assignmentRepo.GetByID(ctx, nil, overrideID)
	if err != nil {
		return fmt.Errorf("get override: %w", err)
	}
	if override == nil || override.MealPlanInstanceID != instanceID {
		return apierr.NotFound("override %s not found on instance %s", overrideID, instanceID)
	}
	return s.assignmentRepo.Delete(ctx, nil, overrideID)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
