package planning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type MealAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.MealAssignment) (*types.MealAssignment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MealAssignment, error)
	GetByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.MealAssignment, error)
	GetByInstanceAndDate(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, date time.Time) (*types.MealAssignment, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.MealAssignment) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type mealAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) MealAssignmentRepo {
	return &mealAssignmentRepo{db: db, log: baseLog.With("repo", "MealAssignmentRepo")}
}

func (r *mealAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.MealAssignment) (*types.MealAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *mealAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MealAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MealAssignment
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mealAssignmentRepo) GetByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.MealAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MealAssignment
	if err := t.WithContext(ctx).
		Where("meal_plan_instance_id = ?", instanceID).
		Order("date ASC, sort_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mealAssignmentRepo) GetByInstanceAndDate(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, date time.Time) (*types.MealAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MealAssignment
	if err := t.WithContext(ctx).
		Where("meal_plan_instance_id = ? AND date = ?", instanceID, date).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mealAssignmentRepo) Update(ctx context.Context, tx *gorm.DB, row *types.MealAssignment) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *mealAssignmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.MealAssignment{}).Error
}
