package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.UserToken) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserToken, error)
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, token string) (*types.UserToken, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserToken) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *userTokenRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserToken, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserToken
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, token string) (*types.UserToken, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserToken
	if err := t.WithContext(ctx).
		Where("refresh_token = ?", token).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&types.UserToken{}).Error
}
