package pantry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type CommonIngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CommonIngredient) ([]*types.CommonIngredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CommonIngredient, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CommonIngredient, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.CommonIngredient, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.CommonIngredient, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.CommonIngredient) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type commonIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommonIngredientRepo(db *gorm.DB, baseLog *logger.Logger) CommonIngredientRepo {
	return &commonIngredientRepo{db: db, log: baseLog.With("repo", "CommonIngredientRepo")}
}

func (r *commonIngredientRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CommonIngredient) ([]*types.CommonIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.CommonIngredient{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *commonIngredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CommonIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.CommonIngredient
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commonIngredientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CommonIngredient, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *commonIngredientRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.CommonIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.CommonIngredient
	if err := t.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *commonIngredientRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.CommonIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.CommonIngredient
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commonIngredientRepo) Update(ctx context.Context, tx *gorm.DB, row *types.CommonIngredient) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *commonIngredientRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.CommonIngredient{}).Error
}
