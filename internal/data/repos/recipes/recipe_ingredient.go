package recipes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// NameUsage is one distinct normalized ingredient name with the number of
// recipes that use it.
type NameUsage struct {
	Name        string `gorm:"column:name"`
	RecipeCount int    `gorm:"column:recipe_count"`
}

type RecipeIngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.RecipeIngredient) ([]*types.RecipeIngredient, error)
	GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error)
	ReplaceForRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, rows []*types.RecipeIngredient) error
	DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
	// NameUsageCounts groups every ingredient row by lower(trim(name)) and
	// counts distinct recipes per name.
	NameUsageCounts(ctx context.Context, tx *gorm.DB) ([]NameUsage, error)
	// CountRecipesByNames counts distinct recipes using any of the given
	// normalized names.
	CountRecipesByNames(ctx context.Context, tx *gorm.DB, names []string) (int64, error)
	ClearPrepStepLinks(ctx context.Context, tx *gorm.DB, prepStepID uuid.UUID) error
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return &recipeIngredientRepo{db: db, log: baseLog.With("repo", "RecipeIngredientRepo")}
}

func (r *recipeIngredientRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RecipeIngredient{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeIngredientRepo) GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.RecipeIngredient
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

func (r *recipeIngredientRepo) ReplaceForRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, rows []*types.RecipeIngredient) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).Create(&rows).Error
}

func (r *recipeIngredientRepo) DeleteByRecipeID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeIngredient{}).Error
}

func (r *recipeIngredientRepo) NameUsageCounts(ctx context.Context, tx *gorm.DB) ([]NameUsage, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []NameUsage
	if err := t.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Select("lower(trim(name)) AS name, count(DISTINCT recipe_id) AS recipe_count").
		Group("lower(trim(name))").
		Order("recipe_count DESC, name ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeIngredientRepo) CountRecipesByNames(ctx context.Context, tx *gorm.DB, names []string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(names) == 0 {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Where("lower(trim(name)) IN ?", names).
		Distinct("recipe_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeIngredientRepo) ClearPrepStepLinks(ctx context.Context, tx *gorm.DB, prepStepID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Where("prep_step_id = ?", prepStepID).
		Update("prep_step_id", nil).Error
}
