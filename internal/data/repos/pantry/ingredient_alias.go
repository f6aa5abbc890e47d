package pantry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// Alias names are stored normalized (lower-cased, trimmed); lookups expect the
// caller to have normalized already.
type IngredientAliasRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.IngredientAlias) ([]*types.IngredientAlias, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IngredientAlias, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.IngredientAlias, error)
	GetByIngredientIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.IngredientAlias, error)
	ListNames(ctx context.Context, tx *gorm.DB) ([]string, error)
	Reassign(ctx context.Context, tx *gorm.DB, fromIngredientID, toIngredientID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type ingredientAliasRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientAliasRepo(db *gorm.DB, baseLog *logger.Logger) IngredientAliasRepo {
	return &ingredientAliasRepo{db: db, log: baseLog.With("repo", "IngredientAliasRepo")}
}

func (r *ingredientAliasRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.IngredientAlias) ([]*types.IngredientAlias, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.IngredientAlias{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ingredientAliasRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IngredientAlias, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.IngredientAlias
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *ingredientAliasRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.IngredientAlias, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.IngredientAlias
	if len(names) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("name IN ?", names).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientAliasRepo) GetByIngredientIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.IngredientAlias, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.IngredientAlias
	if len(ingredientIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("common_ingredient_id IN ?", ingredientIDs).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientAliasRepo) ListNames(ctx context.Context, tx *gorm.DB) ([]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []string
	if err := t.WithContext(ctx).
		Model(&types.IngredientAlias{}).
		Pluck("name", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ingredientAliasRepo) Reassign(ctx context.Context, tx *gorm.DB, fromIngredientID, toIngredientID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.IngredientAlias{}).
		Where("common_ingredient_id = ?", fromIngredientID).
		Update("common_ingredient_id", toIngredientID).Error
}

func (r *ingredientAliasRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.IngredientAlias{}).Error
}
