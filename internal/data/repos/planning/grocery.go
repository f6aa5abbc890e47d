package planning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type GroceryRepo interface {
	CreateList(ctx context.Context, tx *gorm.DB, row *types.GroceryList) (*types.GroceryList, error)
	GetListByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GroceryList, error)
	GetListByInstanceAndDate(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, shoppingDate time.Time) (*types.GroceryList, error)
	ListByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.GroceryList, error)
	TouchGeneratedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, generatedAt time.Time) error

	CreateItems(ctx context.Context, tx *gorm.DB, rows []*types.GroceryItem) ([]*types.GroceryItem, error)
	GetItemsByList(ctx context.Context, tx *gorm.DB, listID uuid.UUID) ([]*types.GroceryItem, error)
	DeleteItemsByList(ctx context.Context, tx *gorm.DB, listID uuid.UUID) error
}

type groceryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroceryRepo(db *gorm.DB, baseLog *logger.Logger) GroceryRepo {
	return &groceryRepo{db: db, log: baseLog.With("repo", "GroceryRepo")}
}

func (r *groceryRepo) CreateList(ctx context.Context, tx *gorm.DB, row *types.GroceryList) (*types.GroceryList, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *groceryRepo) GetListByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GroceryList, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GroceryList
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *groceryRepo) GetListByInstanceAndDate(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, shoppingDate time.Time) (*types.GroceryList, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GroceryList
	if err := t.WithContext(ctx).
		Where("meal_plan_instance_id = ? AND shopping_date = ?", instanceID, shoppingDate).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *groceryRepo) ListByInstance(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID) ([]*types.GroceryList, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GroceryList
	if err := t.WithContext(ctx).
		Where("meal_plan_instance_id = ?", instanceID).
		Order("shopping_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *groceryRepo) TouchGeneratedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, generatedAt time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.GroceryList{}).
		Where("id = ?", id).
		Update("generated_at", generatedAt).Error
}

func (r *groceryRepo) CreateItems(ctx context.Context, tx *gorm.DB, rows []*types.GroceryItem) ([]*types.GroceryItem, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.GroceryItem{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *groceryRepo) GetItemsByList(ctx context.Context, tx *gorm.DB, listID uuid.UUID) ([]*types.GroceryItem, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GroceryItem
	if err := t.WithContext(ctx).
		Where("grocery_list_id = ?", listID).
		Order("sort_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *groceryRepo) DeleteItemsByList(ctx context.Context, tx *gorm.DB, listID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("grocery_list_id = ?", listID).
		Delete(&types.GroceryItem{}).Error
}
