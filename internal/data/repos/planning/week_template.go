package planning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type WeekTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WeekTemplate) ([]*types.WeekTemplate, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WeekTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeekTemplate, error)
	List(ctx context.Context, tx *gorm.DB, includeRetired bool) ([]*types.WeekTemplate, error)
	UpdateName(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error
	SetRetiredAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, retiredAt *time.Time) error
}

type weekTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekTemplateRepo(db *gorm.DB, baseLog *logger.Logger) WeekTemplateRepo {
	return &weekTemplateRepo{db: db, log: baseLog.With("repo", "WeekTemplateRepo")}
}

func (r *weekTemplateRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WeekTemplate) ([]*types.WeekTemplate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WeekTemplate{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *weekTemplateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WeekTemplate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WeekTemplate
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weekTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeekTemplate, error) {
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

func (r *weekTemplateRepo) List(ctx context.Context, tx *gorm.DB, includeRetired bool) ([]*types.WeekTemplate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Order("name ASC")
	if !includeRetired {
		q = q.Where("retired_at IS NULL")
	}
	var out []*types.WeekTemplate
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weekTemplateRepo) UpdateName(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.WeekTemplate{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *weekTemplateRepo) SetRetiredAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, retiredAt *time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.WeekTemplate{}).
		Where("id = ?", id).
		Update("retired_at", retiredAt).Error
}
