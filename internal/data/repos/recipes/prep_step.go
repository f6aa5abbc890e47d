package recipes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type PrepStepRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PrepStep) ([]*types.PrepStep, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PrepStep, error)
	GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.PrepStep, error)
	// FindByNormalizedDescription matches on lower(trim(description)).
	FindByNormalizedDescription(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, normalized string) (*types.PrepStep, error)
	UpdateDescription(ctx context.Context, tx *gorm.DB, id uuid.UUID, description string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type prepStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPrepStepRepo(db *gorm.DB, baseLog *logger.Logger) PrepStepRepo {
	return &prepStepRepo{db: db, log: baseLog.With("repo", "PrepStepRepo")}
}

func (r *prepStepRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PrepStep) ([]*types.PrepStep, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PrepStep{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *prepStepRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PrepStep, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PrepStep
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *prepStepRepo) GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.PrepStep, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PrepStep
	if len(recipeIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("recipe_id IN ?", recipeIDs).
		Order("recipe_id ASC, sort_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *prepStepRepo) FindByNormalizedDescription(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, normalized string) (*types.PrepStep, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PrepStep
	if err := t.WithContext(ctx).
		Where("recipe_id = ? AND lower(trim(description)) = ?", recipeID, normalized).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *prepStepRepo) UpdateDescription(ctx context.Context, tx *gorm.DB, id uuid.UUID, description string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.PrepStep{}).
		Where("id = ?", id).
		Update("description", description).Error
}

func (r *prepStepRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.PrepStep{}).Error
}
