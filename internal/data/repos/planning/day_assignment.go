package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type DayAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.DayAssignment) ([]*types.DayAssignment, error)
	GetByTemplateIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) ([]*types.DayAssignment, error)
	// Upsert writes the assignment for (template, day_of_week), replacing any
	// existing row for that day.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.DayAssignment) error
	DeleteByTemplateAndDay(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, dayOfWeek int) error
	// CountCookUsesOfRecipe counts template days that cook the given recipe,
	// for delete-conflict checks.
	CountCookUsesOfRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (int64, error)
}

type dayAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDayAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) DayAssignmentRepo {
	return &dayAssignmentRepo{db: db, log: baseLog.With("repo", "DayAssignmentRepo")}
}

func (r *dayAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DayAssignment) ([]*types.DayAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.DayAssignment{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dayAssignmentRepo) GetByTemplateIDs(ctx context.Context, tx *gorm.DB, templateIDs []uuid.UUID) ([]*types.DayAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DayAssignment
	if len(templateIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("week_template_id IN ?", templateIDs).
		Order("week_template_id ASC, day_of_week ASC, sort_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dayAssignmentRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DayAssignment) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "week_template_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"assigned_user_id", "action", "recipe_id", "sort_index", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *dayAssignmentRepo) DeleteByTemplateAndDay(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, dayOfWeek int) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("week_template_id = ? AND day_of_week = ?", templateID, dayOfWeek).
		Delete(&types.DayAssignment{}).Error
}

func (r *dayAssignmentRepo) CountCookUsesOfRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.DayAssignment{}).
		Where("recipe_id = ? AND action = ?", recipeID, types.ActionCook).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
