package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type ScheduleSequenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleSequence) ([]*types.ScheduleSequence, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScheduleSequence, error)
	// GetByIDLocked takes a row-level lock on the sequence. Callers must hold a
	// transaction; this is what serializes concurrent advances.
	GetByIDLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScheduleSequence, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ScheduleSequence, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.ScheduleSequence) error
	UpdateCurrentWeekIndex(ctx context.Context, tx *gorm.DB, id uuid.UUID, index int) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type scheduleSequenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleSequenceRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleSequenceRepo {
	return &scheduleSequenceRepo{db: db, log: baseLog.With("repo", "ScheduleSequenceRepo")}
}

func (r *scheduleSequenceRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleSequence) ([]*types.ScheduleSequence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ScheduleSequence{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduleSequenceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScheduleSequence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ScheduleSequence
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *scheduleSequenceRepo) GetByIDLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScheduleSequence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ScheduleSequence
	if err := t.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *scheduleSequenceRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ScheduleSequence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ScheduleSequence
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scheduleSequenceRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ScheduleSequence) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *scheduleSequenceRepo) UpdateCurrentWeekIndex(ctx context.Context, tx *gorm.DB, id uuid.UUID, index int) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.ScheduleSequence{}).
		Where("id = ?", id).
		Update("current_week_index", index).Error
}

func (r *scheduleSequenceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.ScheduleSequence{}).Error
}
