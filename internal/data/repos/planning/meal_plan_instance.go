package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type MealPlanInstanceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.MealPlanInstance) (*types.MealPlanInstance, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MealPlanInstance, error)
	ListBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) ([]*types.MealPlanInstance, error)
	LatestBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (*types.MealPlanInstance, error)
	CountBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (int64, error)
}

type mealPlanInstanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealPlanInstanceRepo(db *gorm.DB, baseLog *logger.Logger) MealPlanInstanceRepo {
	return &mealPlanInstanceRepo{db: db, log: baseLog.With("repo", "MealPlanInstanceRepo")}
}

func (r *mealPlanInstanceRepo) Create(ctx context.Context, tx *gorm.DB, row *types.MealPlanInstance) (*types.MealPlanInstance, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *mealPlanInstanceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MealPlanInstance, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MealPlanInstance
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mealPlanInstanceRepo) ListBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) ([]*types.MealPlanInstance, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MealPlanInstance
	if err := t.WithContext(ctx).
		Where("schedule_sequence_id = ?", sequenceID).
		Order("week_number DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mealPlanInstanceRepo) LatestBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (*types.MealPlanInstance, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MealPlanInstance
	if err := t.WithContext(ctx).
		Where("schedule_sequence_id = ?", sequenceID).
		Order("week_number DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mealPlanInstanceRepo) CountBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.MealPlanInstance{}).
		Where("schedule_sequence_id = ?", sequenceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
