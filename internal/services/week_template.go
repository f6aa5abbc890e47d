package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/auth"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type DayAssignmentInput struct {
	DayOfWeek      int              `json:"day_of_week"`
	AssignedUserID uuid.UUID        `json:"assigned_user_id"`
	Action         types.MealAction `json:"action"`
	RecipeID       *uuid.UUID       `json:"recipe_id,omitempty"`
}

// TemplateDetail is a template with its day assignments in weekday order.
type TemplateDetail struct {
	Template *types.WeekTemplate    `json:"template"`
	Days     []*types.DayAssignment `json:"days"`
}

type WeekTemplateService interface {
	Create(ctx context.Context, name string, days []DayAssignmentInput) (*TemplateDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*TemplateDetail, error)
	List(ctx context.Context, includeRetired bool) ([]*types.WeekTemplate, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*types.WeekTemplate, error)
	// Retire removes the template from pickers; sequences already referencing
	// it keep working.
	Retire(ctx context.Context, id uuid.UUID) error
	// Fork deep-copies the template and its day assignments into an
	// independent template.
	Fork(ctx context.Context, id uuid.UUID, name string) (*TemplateDetail, error)
	PutDay(ctx context.Context, templateID uuid.UUID, in DayAssignmentInput) (*TemplateDetail, error)
	ClearDay(ctx context.Context, templateID uuid.UUID, dayOfWeek int) error
}

type weekTemplateService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo planning.WeekTemplateRepo
	dayRepo      planning.DayAssignmentRepo
	userRepo     auth.UserRepo
	recipeRepo   recipes.RecipeRepo
}

func NewWeekTemplateService(
	db *gorm.DB,
	log *logger.Logger,
	templateRepo planning.WeekTemplateRepo,
	dayRepo planning.DayAssignmentRepo,
	userRepo auth.UserRepo,
	recipeRepo recipes.RecipeRepo,
) WeekTemplateService {
	return &weekTemplateService{
		db:           db,
		log:          log.With("service", "WeekTemplateService"),
		templateRepo: templateRepo,
		dayRepo:      dayRepo,
		userRepo:     userRepo,
		recipeRepo:   recipeRepo,
	}
}

func (s *weekTemplateService) validateDay(ctx context.Context, tx *gorm.DB, in DayAssignmentInput) error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return apierr.Validation("day_of_week must be 0..6, got %d", in.DayOfWeek)
	}
	if !types.ValidMealAction(in.Action) {
		return apierr.Validation("unknown action %q", in.Action)
	}
	if in.Action == types.ActionCook && in.RecipeID == nil {
		return apierr.Validation("action cook requires recipe_id")
	}
	if in.AssignedUserID == uuid.Nil {
		return apierr.Validation("assigned_user_id is required")
	}
	user, err := s.userRepo.GetByID(ctx, tx, in.AssignedUserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return apierr.NotFound("user %s not found", in.AssignedUserID)
	}
	if in.RecipeID != nil {
		recipe, err := s.recipeRepo.GetByID(ctx, tx, *in.RecipeID)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if recipe == nil {
			return apierr.NotFound("recipe %s not found", *in.RecipeID)
		}
		if recipe.Retired() {
			return apierr.Validation("recipe %s is retired", *in.RecipeID)
		}
	}
	return nil
}

func (s *weekTemplateService) Create(ctx context.Context, name string, days []DayAssignmentInput) (*TemplateDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("template name is required")
	}
	seen := map[int]struct{}{}
	for _, d := range days {
		if _, dup := seen[d.DayOfWeek]; dup {
			return nil, apierr.Validation("day_of_week %d appears more than once", d.DayOfWeek)
		}
		seen[d.DayOfWeek] = struct{}{}
	}

	template := &types.WeekTemplate{ID: uuid.New(), Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range days {
			if err := s.validateDay(ctx, tx, d); err != nil {
				return err
			}
		}
		if _, err := s.templateRepo.Create(ctx, tx, []*types.WeekTemplate{template}); err != nil {
			return fmt.Errorf("create template: %w", err)
		}
		rows := make([]*types.DayAssignment, 0, len(days))
		for _, d := range days {
			rows = append(rows, &types.DayAssignment{
				ID:             uuid.New(),
				WeekTemplateID: template.ID,
				DayOfWeek:      d.DayOfWeek,
				AssignedUserID: d.AssignedUserID,
				Action:         d.Action,
				RecipeID:       d.RecipeID,
			})
		}
		_, err := s.dayRepo.Create(ctx, tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, template.ID)
}

func (s *weekTemplateService) Get(ctx context.Context, id uuid.UUID) (*TemplateDetail, error) {
	template, err := s.templateRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if template == nil {
		return nil, apierr.NotFound("template %s not found", id)
	}
	days, err := s.dayRepo.GetByTemplateIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("get days: %w", err)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayOfWeek < days[j].DayOfWeek })
	return &TemplateDetail{Template: template, Days: days}, nil
}

func (s *weekTemplateService) List(ctx context.Context, includeRetired bool) ([]*types.WeekTemplate, error) {
	return s.templateRepo.List(ctx, nil, includeRetired)
}

func (s *weekTemplateService) Rename(ctx context.Context, id uuid.UUID, name string) (*types.WeekTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("template name is required")
	}
	template, err := s.templateRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if template == nil {
		return nil, apierr.NotFound("template %s not found", id)
	}
	if err := s.templateRepo.UpdateName(ctx, nil, id, name); err != nil {
		return nil, fmt.Errorf("rename template: %w", err)
	}
	template.Name = name
	return template, nil
}

func (s *weekTemplateService) Retire(ctx context.Context, id uuid.UUID) error {
	template, err := s.templateRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("get template: %w", err)
	}
	if template == nil {
		return apierr.NotFound("template %s not found", id)
	}
	now := time.Now()
	return s.templateRepo.SetRetiredAt(ctx, nil, id, &now)
}

func (s *weekTemplateService) Fork(ctx context.Context, id uuid.UUID, name string) (*TemplateDetail, error) {
	name = strings.TrimSpace(name)
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = source.Template.Name + " (copy)"
	}

	fork := &types.WeekTemplate{ID: uuid.New(), Name: name}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.templateRepo.Create(ctx, tx, []*types.WeekTemplate{fork}); err != nil {
			return fmt.Errorf("create fork: %w", err)
		}
		rows := make([]*types.DayAssignment, 0, len(source.Days))
		for _, d := range source.Days {
			rows = append(rows, &types.DayAssignment{
				ID:             uuid.New(),
				WeekTemplateID: fork.ID,
				DayOfWeek:      d.DayOfWeek,
				AssignedUserID: d.AssignedUserID,
				Action:         d.Action,
				RecipeID:       d.RecipeID,
				SortIndex:      d.SortIndex,
			})
		}
		_, err := s.dayRepo.Create(ctx, tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, fork.ID)
}

func (s *weekTemplateService) PutDay(ctx context.Context, templateID uuid.UUID, in DayAssignmentInput) (*TemplateDetail, error) {
	template, err := s.templateRepo.GetByID(ctx, nil, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if template == nil {
		return nil, apierr.NotFound("template %s not found", templateID)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateDay(ctx, tx, in); err != nil {
			return err
		}
		return s.dayRepo.Upsert(ctx, tx, &types.DayAssignment{
			ID:             uuid.New(),
			WeekTemplateID: templateID,
			DayOfWeek:      in.DayOfWeek,
			AssignedUserID: in.AssignedUserID,
			Action:         in.Action,
			RecipeID:       in.RecipeID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, templateID)
}

func (s *weekTemplateService) ClearDay(ctx context.Context, templateID uuid.UUID, dayOfWeek int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return apierr.Validation("day_of_week must be 0..6, got %d", dayOfWeek)
	}
	template, err := s.templateRepo.GetByID(ctx, nil, templateID)
	if err != nil {
		return fmt.Errorf("get template: %w", err)
	}
	if template == nil {
		return apierr.NotFound("template %s not found", templateID)
	}
	return s.dayRepo.DeleteByTemplateAndDay(ctx, nil, templateID, dayOfWeek)
}
