package recipes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type PrepStepClaimRepo interface {
	// Insert claims the (recipe, normalized description) key. On key conflict
	// the existing row wins and is returned with inserted=false.
	Insert(ctx context.Context, tx *gorm.DB, row *types.PrepStepClaim) (claimed *types.PrepStepClaim, inserted bool, err error)
	GetByKey(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, normalized string) (*types.PrepStepClaim, error)
	DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error
}

type prepStepClaimRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPrepStepClaimRepo(db *gorm.DB, baseLog *logger.Logger) PrepStepClaimRepo {
	return &prepStepClaimRepo{db: db, log: baseLog.With("repo", "PrepStepClaimRepo")}
}

func (r *prepStepClaimRepo) Insert(ctx context.Context, tx *gorm.DB, row *types.PrepStepClaim) (*types.PrepStepClaim, bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "normalized_description"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return row, true, nil
	}
	existing, err := r.GetByKey(ctx, t, row.RecipeID, row.NormalizedDescription)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *prepStepClaimRepo) GetByKey(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, normalized string) (*types.PrepStepClaim, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PrepStepClaim
	if err := t.WithContext(ctx).
		Where("recipe_id = ? AND normalized_description = ?", recipeID, normalized).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *prepStepClaimRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&types.PrepStepClaim{}).Error
}
