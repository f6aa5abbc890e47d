package recipes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Recipe) ([]*types.Recipe, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Recipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Recipe, error)
	List(ctx context.Context, tx *gorm.DB, includeRetired bool) ([]*types.Recipe, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Recipe) error
	SetRetiredAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, retiredAt *time.Time) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

func (r *recipeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Recipe) ([]*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Recipe{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Recipe
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Recipe, error) {
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

func (r *recipeRepo) List(ctx context.Context, tx *gorm.DB, includeRetired bool) ([]*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Order("name ASC")
	if !includeRetired {
		q = q.Where("retired_at IS NULL")
	}
	var out []*types.Recipe
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Recipe) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *recipeRepo) SetRetiredAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, retiredAt *time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("id = ?", id).
		Update("retired_at", retiredAt).Error
}
