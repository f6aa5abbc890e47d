package planning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type WeekTemplateMappingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WeekTemplateMapping) ([]*types.WeekTemplateMapping, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeekTemplateMapping, error)
	// GetBySequence returns mappings in position order. activeOnly skips
	// removed mappings.
	GetBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID, activeOnly bool) ([]*types.WeekTemplateMapping, error)
	GetActiveByTemplate(ctx context.Context, tx *gorm.DB, sequenceID, templateID uuid.UUID) (*types.WeekTemplateMapping, error)
	MaxPosition(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (int, error)
	SetRemovedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, removedAt *time.Time) error
	UpdatePosition(ctx context.Context, tx *gorm.DB, id uuid.UUID, position int) error
	CountActiveBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (int64, error)
	CountActiveByTemplate(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (int64, error)
}

type weekTemplateMappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekTemplateMappingRepo(db *gorm.DB, baseLog *logger.Logger) WeekTemplateMappingRepo {
	return &weekTemplateMappingRepo{db: db, log: baseLog.With("repo", "WeekTemplateMappingRepo")}
}

func (r *weekTemplateMappingRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WeekTemplateMapping) ([]*types.WeekTemplateMapping, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WeekTemplateMapping{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *weekTemplateMappingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeekTemplateMapping, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WeekTemplateMapping
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *weekTemplateMappingRepo) GetBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID, activeOnly bool) ([]*types.WeekTemplateMapping, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("schedule_sequence_id = ?", sequenceID).
		Order("position ASC")
	if activeOnly {
		q = q.Where("removed_at IS NULL")
	}
	var out []*types.WeekTemplateMapping
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weekTemplateMappingRepo) GetActiveByTemplate(ctx context.Context, tx *gorm.DB, sequenceID, templateID uuid.UUID) (*types.WeekTemplateMapping, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WeekTemplateMapping
	if err := t.WithContext(ctx).
		Where("schedule_sequence_id = ? AND week_template_id = ? AND removed_at IS NULL", sequenceID, templateID).
		Order("position ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *weekTemplateMappingRepo) MaxPosition(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var max *int
	if err := t.WithContext(ctx).
		Model(&types.WeekTemplateMapping{}).
		Where("schedule_sequence_id = ?", sequenceID).
		Select("max(position)").
		Scan(&max).Error; err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *weekTemplateMappingRepo) SetRemovedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, removedAt *time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.WeekTemplateMapping{}).
		Where("id = ?", id).
		Update("removed_at", removedAt).Error
}

func (r *weekTemplateMappingRepo) UpdatePosition(ctx context.Context, tx *gorm.DB, id uuid.UUID, position int) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.WeekTemplateMapping{}).
		Where("id = ?", id).
		Update("position", position).Error
}

func (r *weekTemplateMappingRepo) CountActiveBySequence(ctx context.Context, tx *gorm.DB, sequenceID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.WeekTemplateMapping{}).
		Where("schedule_sequence_id = ? AND removed_at IS NULL", sequenceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *weekTemplateMappingRepo) CountActiveByTemplate(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.WeekTemplateMapping{}).
		Where("week_template_id = ? AND removed_at IS NULL", templateID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
