package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/auth"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/normalization"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/ctxutil"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context) (*TokenPair, error)
	Logout(ctx context.Context) error
	// SetContextFromToken validates an access token and stamps the caller's
	// identity into the context for downstream handlers.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     auth.UserRepo
	tokenRepo    auth.UserTokenRepo
	jwtSecretKey string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo auth.UserRepo,
	tokenRepo auth.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := normalization.ParseInputString(in.Email)
	if email == "" {
		return nil, apierr.Validation("email is required")
	}
	if len(in.Password) < 8 {
		return nil, apierr.Validation("password must be at least 8 characters")
	}
	if in.FirstName == "" {
		return nil, apierr.Validation("first_name is required")
	}
	exists, err := s.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("email %q is already registered", email)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if _, err := s.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("registered user", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalization.ParseInputString(email)
	users, err := s.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("invalid credentials")
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("clear refresh tokens: %w", err)
		}
		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context) (*TokenPair, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return nil, apierr.Unauthorized("missing refresh token")
	}
	stored, err := s.tokenRepo.GetByRefreshToken(ctx, nil, rd.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	if stored == nil || stored.ExpiresAt.Before(time.Now()) {
		return nil, apierr.Unauthorized("refresh token expired")
	}
	user, err := s.userRepo.GetByID(ctx, nil, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apierr.Unauthorized("user no longer exists")
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}
		pair, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("not logged in")
	}
	return s.tokenRepo.DeleteByUserID(ctx, nil, rd.UserID)
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apierr.Unauthorized("invalid access token")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ctx, apierr.Unauthorized("token has no subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.Unauthorized("token subject is not a user id")
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		rd = &ctxutil.RequestData{}
	}
	rd.TokenString = tokenString
	rd.UserID = userID
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.tokenRepo.Create(ctx, tx, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.refreshTTL),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
