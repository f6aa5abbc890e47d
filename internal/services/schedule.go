package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/planning"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// SequenceDetail is a sequence with its active mappings in display order.
type SequenceDetail struct {
	Sequence *types.ScheduleSequence      `json:"sequence"`
	Mappings []*types.WeekTemplateMapping `json:"mappings"`
}

type ScheduleService interface {
	CreateSequence(ctx context.Context, name string, advancementDayOfWeek int, advancementTime string) (*types.ScheduleSequence, error)
	GetSequence(ctx context.Context, id uuid.UUID) (*SequenceDetail, error)
	ListSequences(ctx context.Context) ([]*types.ScheduleSequence, error)
	UpdateSequence(ctx context.Context, id uuid.UUID, name string, advancementDayOfWeek int, advancementTime string) (*types.ScheduleSequence, error)
	DeleteSequence(ctx context.Context, id uuid.UUID) error

	AddTemplate(ctx context.Context, sequenceID, templateID uuid.UUID) (*types.WeekTemplateMapping, error)
	RemoveTemplate(ctx context.Context, sequenceID, templateID uuid.UUID) error
	ReorderTemplates(ctx context.Context, sequenceID uuid.UUID, orderedTemplateIDs []uuid.UUID) error

	AdvanceWeek(ctx context.Context, sequenceID uuid.UUID) (*types.MealPlanInstance, error)
	StartOnWeek(ctx context.Context, sequenceID, templateID uuid.UUID) (*types.MealPlanInstance, error)
}

type scheduleService struct {
	db           *gorm.DB
	log          *logger.Logger
	sequenceRepo planning.ScheduleSequenceRepo
	mappingRepo  planning.WeekTemplateMappingRepo
	templateRepo planning.WeekTemplateRepo
	instanceRepo planning.MealPlanInstanceRepo
}

func NewScheduleService(
	db *gorm.DB,
	log *logger.Logger,
	sequenceRepo planning.ScheduleSequenceRepo,
	mappingRepo planning.WeekTemplateMappingRepo,
	templateRepo planning.WeekTemplateRepo,
	instanceRepo planning.MealPlanInstanceRepo,
) ScheduleService {
	return &scheduleService{
		db:           db,
		log:          log.With("service", "ScheduleService"),
		sequenceRepo: sequenceRepo,
		mappingRepo:  mappingRepo,
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
	}
}

func validateCadence(advancementDayOfWeek int, advancementTime string) error {
	if advancementDayOfWeek < 0 || advancementDayOfWeek > 6 {
		return apierr.Validation("advancement_day_of_week must be 0..6, got %d", advancementDayOfWeek)
	}
	if _, err := parseAdvancementTime(advancementTime); err != nil {
		return apierr.Validation("advancement_time: %v", err)
	}
	return nil
}

func (s *scheduleService) CreateSequence(ctx context.Context, name string, advancementDayOfWeek int, advancementTime string) (*types.ScheduleSequence, error) {
	if name == "" {
		return nil, apierr.Validation("sequence name is required")
	}
	if err := validateCadence(advancementDayOfWeek, advancementTime); err != nil {
		return nil, err
	}
	seq := &types.ScheduleSequence{
		ID:                   uuid.New(),
		Name:                 name,
		AdvancementDayOfWeek: advancementDayOfWeek,
		AdvancementTime:      advancementTime,
		CurrentWeekIndex:     0,
	}
	if _, err := s.sequenceRepo.Create(ctx, nil, []*types.ScheduleSequence{seq}); err != nil {
		return nil, fmt.Errorf("create sequence: %w", err)
	}
	return seq, nil
}

func (s *scheduleService) GetSequence(ctx context.Context, id uuid.UUID) (*SequenceDetail, error) {
	seq, err := s.sequenceRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	if seq == nil {
		return nil, apierr.NotFound("sequence %s not found", id)
	}
	mappings, err := s.mappingRepo.GetBySequence(ctx, nil, id, true)
	if err != nil {
		return nil, fmt.Errorf("get sequence mappings: %w", err)
	}
	return &SequenceDetail{Sequence: seq, Mappings: mappings}, nil
}

func (s *scheduleService) ListSequences(ctx context.Context) ([]*types.ScheduleSequence, error) {
	return s.sequenceRepo.List(ctx, nil)
}

func (s *scheduleService) UpdateSequence(ctx context.Context, id uuid.UUID, name string, advancementDayOfWeek int, advancementTime string) (*types.ScheduleSequence, error) {
	if name == "" {
		return nil, apierr.Validation("sequence name is required")
	}
	if err := validateCadence(advancementDayOfWeek, advancementTime); err != nil {
		return nil, err
	}
	seq, err := s.sequenceRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	if seq == nil {
		return nil, apierr.NotFound("sequence %s not found", id)
	}
	seq.Name = name
	seq.AdvancementDayOfWeek = advancementDayOfWeek
	seq.AdvancementTime = advancementTime
	if err := s.sequenceRepo.Update(ctx, nil, seq); err != nil {
		return nil, fmt.Errorf("update sequence: %w", err)
	}
	return seq, nil
}

func (s *scheduleService) DeleteSequence(ctx context.Context, id uuid.UUID) error {
	seq, err := s.sequenceRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("get sequence: %w", err)
	}
	if seq == nil {
		return apierr.NotFound("sequence %s not found", id)
	}
	count, err := s.instanceRepo.CountBySequence(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("count instances: %w", err)
	}
	if count > 0 {
		return apierr.Conflict("sequence %s has %d meal plan instances", id, count)
	}
	return s.sequenceRepo.Delete(ctx, nil, id)
}

func (s *scheduleService) AddTemplate(ctx context.Context, sequenceID, templateID uuid.UUID) (*types.WeekTemplateMapping, error) {
	var mapping *types.WeekTemplateMapping
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.sequenceRepo.GetByID(ctx, tx, sequenceID)
		if err != nil {
			return fmt.Errorf("get sequence: %w", err)
		}
		if seq == nil {
			return apierr.NotFound("sequence %s not found", sequenceID)
		}
		tpl, err := s.templateRepo.GetByID(ctx, tx, templateID)
		if err != nil {
			return fmt.Errorf("get template: %w", err)
		}
		if tpl == nil {
			return apierr.NotFound("template %s not found", templateID)
		}
		if tpl.Retired() {
			return apierr.Validation("template %s is retired", templateID)
		}
		existing, err := s.mappingRepo.GetActiveByTemplate(ctx, tx, sequenceID, templateID)
		if err != nil {
			return fmt.Errorf("check existing mapping: %w", err)
		}
		if existing != nil {
			return apierr.Conflict("template %s is already in sequence %s", templateID, sequenceID)
		}
		max, err := s.mappingRepo.MaxPosition(ctx, tx, sequenceID)
		if err != nil {
			return fmt.Errorf("max position: %w", err)
		}
		mapping = &types.WeekTemplateMapping{
			ID:                 uuid.New(),
			ScheduleSequenceID: sequenceID,
			WeekTemplateID:     templateID,
			Position:           max + 1,
		}
		_, err = s.mappingRepo.Create(ctx, tx, []*types.WeekTemplateMapping{mapping})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (s *scheduleService) RemoveTemplate(ctx context.Context, sequenceID, templateID uuid.UUID) error {
	mapping, err := s.mappingRepo.GetActiveByTemplate(ctx, nil, sequenceID, templateID)
	if err != nil {
		return fmt.Errorf("get mapping: %w", err)
	}
	if mapping == nil {
		return apierr.NotFound("template %s is not active in sequence %s", templateID, sequenceID)
	}
	now := time.Now()
	return s.mappingRepo.SetRemovedAt(ctx, nil, mapping.ID, &now)
}

// ReorderTemplates reassigns positions 0..N-1 to match the given order. The
// submitted set must equal the active mapping set: duplicates or unknown ids
// fail validation, and a set that no longer matches what is active means the
// caller is working from stale state.
func (s *scheduleService) ReorderTemplates(ctx context.Context, sequenceID uuid.UUID, orderedTemplateIDs []uuid.UUID) error {
	seen := map[uuid.UUID]struct{}{}
	for _, id := range orderedTemplateIDs {
		if _, dup := seen[id]; dup {
			return apierr.Validation("template %s appears more than once in the new order", id)
		}
		seen[id] = struct{}{}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.sequenceRepo.GetByIDLocked(ctx, tx, sequenceID)
		if err != nil {
			return fmt.Errorf("lock sequence: %w", err)
		}
		if seq == nil {
			return apierr.NotFound("sequence %s not found", sequenceID)
		}
		active, err := s.mappingRepo.GetBySequence(ctx, tx, sequenceID, true)
		if err != nil {
			return fmt.Errorf("get active mappings: %w", err)
		}
		if len(orderedTemplateIDs) != len(active) {
			return apierr.Concurrency("active template set changed: expected %d templates, got %d", len(active), len(orderedTemplateIDs))
		}
		byTemplate := make(map[uuid.UUID]*types.WeekTemplateMapping, len(active))
		for _, m := range active {
			byTemplate[m.WeekTemplateID] = m
		}
		for position, templateID := range orderedTemplateIDs {
			m, ok := byTemplate[templateID]
			if !ok {
				return apierr.Concurrency("template %s is no longer active in sequence %s", templateID, sequenceID)
			}
			if err := s.mappingRepo.UpdatePosition(ctx, tx, m.ID, position); err != nil {
				return fmt.Errorf("update position: %w", err)
			}
		}
		return nil
	})
}

// AdvanceWeek moves the rotation pointer forward one step and materializes the
// week it lands on. The row lock taken by GetByIDLocked serializes concurrent
// advances so the counter increments exactly once per call.
func (s *scheduleService) AdvanceWeek(ctx context.Context, sequenceID uuid.UUID) (*types.MealPlanInstance, error) {
	var instance *types.MealPlanInstance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.sequenceRepo.GetByIDLocked(ctx, tx, sequenceID)
		if err != nil {
			return fmt.Errorf("lock sequence: %w", err)
		}
		if seq == nil {
			return apierr.NotFound("sequence %s not found", sequenceID)
		}
		active, err := s.mappingRepo.GetBySequence(ctx, tx, sequenceID, true)
		if err != nil {
			return fmt.Errorf("get active mappings: %w", err)
		}
		if len(active) == 0 {
			return apierr.NotFound("sequence %s has no active templates", sequenceID)
		}

		nextIndex := seq.CurrentWeekIndex + 1
		instance, err = s.materialize(ctx, tx, seq, mappingAtIndex(active, nextIndex))
		if err != nil {
			return err
		}
		return s.sequenceRepo.UpdateCurrentWeekIndex(ctx, tx, sequenceID, nextIndex)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("advanced sequence", "sequence_id", sequenceID, "instance_id", instance.ID, "week_number", instance.WeekNumber)
	return instance, nil
}

// StartOnWeek is the one-time administrative override that chooses where in
// the rotation a sequence begins.
func (s *scheduleService) StartOnWeek(ctx context.Context, sequenceID, templateID uuid.UUID) (*types.MealPlanInstance, error) {
	var instance *types.MealPlanInstance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.sequenceRepo.GetByIDLocked(ctx, tx, sequenceID)
		if err != nil {
			return fmt.Errorf("lock sequence: %w", err)
		}
		if seq == nil {
			return apierr.NotFound("sequence %s not found", sequenceID)
		}
		mapping, err := s.mappingRepo.GetActiveByTemplate(ctx, tx, sequenceID, templateID)
		if err != nil {
			return fmt.Errorf("get mapping: %w", err)
		}
		if mapping == nil {
			return apierr.NotFound("template %s is not active in sequence %s", templateID, sequenceID)
		}

		instance, err = s.materialize(ctx, tx, seq, mapping)
		if err != nil {
			return err
		}
		return s.sequenceRepo.UpdateCurrentWeekIndex(ctx, tx, sequenceID, mapping.Position)
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// materialize creates the dated instance for the mapping the rotation landed
// on, anchored at the most recent advancement boundary. ThemeName snapshots
// the template name so later renames leave history alone.
func (s *scheduleService) materialize(ctx context.Context, tx *gorm.DB, seq *types.ScheduleSequence, mapping *types.WeekTemplateMapping) (*types.MealPlanInstance, error) {
	tpl, err := s.templateRepo.GetByID(ctx, tx, mapping.WeekTemplateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tpl == nil {
		return nil, apierr.NotFound("template %s not found", mapping.WeekTemplateID)
	}
	start, err := AdvancementAnchor(time.Now(), seq.AdvancementDayOfWeek, seq.AdvancementTime)
	if err != nil {
		return nil, apierr.Validation("advancement anchor: %v", err)
	}
	latest, err := s.instanceRepo.LatestBySequence(ctx, tx, seq.ID)
	if err != nil {
		return nil, fmt.Errorf("latest instance: %w", err)
	}
	weekNumber := 1
	if latest != nil {
		weekNumber = latest.WeekNumber + 1
	}
	return s.instanceRepo.Create(ctx, tx, &types.MealPlanInstance{
		ID:                 uuid.New(),
		ScheduleSequenceID: seq.ID,
		WeekTemplateID:     tpl.ID,
		InstanceStartDate:  start,
		ThemeName:          tpl.Name,
		WeekNumber:         weekNumber,
	})
}
