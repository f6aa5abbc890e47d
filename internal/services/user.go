package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/auth"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/ctxutil"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	// List returns the household members, for assignment pickers.
	List(ctx context.Context) ([]*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo auth.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo auth.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("not logged in")
	}
	return s.Get(ctx, rd.UserID)
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user %s not found", id)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*types.User, error) {
	return s.userRepo.List(ctx, nil)
}
