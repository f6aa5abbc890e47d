package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/normalization"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
	"github.com/hearthplan/hearthplan-backend/internal/platform/redis"
)

const (
	prepStepGuardTTL = 10 * time.Second
	prepStepClaimTTL = time.Minute
)

type PrepStepService interface {
	// Ensure returns the prep step for (recipe, normalized description),
	// creating it at most once no matter how many rapid repeated triggers race
	// on the same text.
	Ensure(ctx context.Context, recipeID uuid.UUID, description string) (*types.PrepStep, error)
	Rename(ctx context.Context, id uuid.UUID, description string) (*types.PrepStep, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// prepStepService layers three duplicate-suppression guards around creation:
// singleflight collapses concurrent callers in this process, the redis lock
// suppresses racing instances, and the unique claim row in the store is the
// terminal arbiter either way.
type prepStepService struct {
	db             *gorm.DB
	log            *logger.Logger
	stepRepo       recipes.PrepStepRepo
	claimRepo      recipes.PrepStepClaimRepo
	ingredientRepo recipes.RecipeIngredientRepo
	recipeRepo     recipes.RecipeRepo
	guard          redis.CreationGuard
	inflight       singleflight.Group
}

func NewPrepStepService(
	db *gorm.DB,
	log *logger.Logger,
	stepRepo recipes.PrepStepRepo,
	claimRepo recipes.PrepStepClaimRepo,
	ingredientRepo recipes.RecipeIngredientRepo,
	recipeRepo recipes.RecipeRepo,
	guard redis.CreationGuard,
) PrepStepService {
	return &prepStepService{
		db:             db,
		log:            log.With("service", "PrepStepService"),
		stepRepo:       stepRepo,
		claimRepo:      claimRepo,
		ingredientRepo: ingredientRepo,
		recipeRepo:     recipeRepo,
		guard:          guard,
	}
}

func (s *prepStepService) Ensure(ctx context.Context, recipeID uuid.UUID, description string) (*types.PrepStep, error) {
	normalized := normalization.ParseInputString(description)
	if normalized == "" {
		return nil, apierr.Validation("prep step description is required")
	}
	recipe, err := s.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}

	key := recipeID.String() + ":" + normalized
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.ensure(ctx, recipeID, normalized, strings.TrimSpace(description), key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.PrepStep), nil
}

func (s *prepStepService) ensure(ctx context.Context, recipeID uuid.UUID, normalized, display, key string) (*types.PrepStep, error) {
	existing, err := s.stepRepo.FindByNormalizedDescription(ctx, nil, recipeID, normalized)
	if err != nil {
		return nil, fmt.Errorf("find prep step: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	if s.guard != nil {
		acquired, err := s.guard.Acquire(ctx, "prepstep:"+key, prepStepGuardTTL)
		if err != nil {
			s.log.Warn("creation guard unavailable, relying on store claim", "error", err)
		} else if acquired {
			defer func() { _ = s.guard.Release(ctx, "prepstep:"+key) }()
		} else {
			// Another instance is mid-create. Re-read once; if it has not
			// landed yet the claim row below still arbitrates.
			if existing, err := s.stepRepo.FindByNormalizedDescription(ctx, nil, recipeID, normalized); err == nil && existing != nil {
				return existing, nil
			}
		}
	}

	var step *types.PrepStep
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stepID := uuid.New()
		claim, inserted, err := s.claimRepo.Insert(ctx, tx, &types.PrepStepClaim{
			ID:                    uuid.New(),
			RecipeID:              recipeID,
			NormalizedDescription: normalized,
			PrepStepID:            stepID,
			ExpiresAt:             time.Now().Add(prepStepClaimTTL),
		})
		if err != nil {
			return fmt.Errorf("insert claim: %w", err)
		}
		if !inserted {
			// Lost the race; resolve to the winner's step.
			step, err = s.stepRepo.GetByID(ctx, tx, claim.PrepStepID)
			if err != nil {
				return fmt.Errorf("get claimed step: %w", err)
			}
			if step == nil {
				step, err = s.stepRepo.FindByNormalizedDescription(ctx, tx, recipeID, normalized)
				if err != nil {
					return fmt.Errorf("find prep step: %w", err)
				}
			}
			if step == nil {
				return apierr.Concurrency("prep step creation for %q is in flight", normalized)
			}
			return nil
		}

		siblings, err := s.stepRepo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipeID})
		if err != nil {
			return fmt.Errorf("get prep steps: %w", err)
		}
		created, err := s.stepRepo.Create(ctx, tx, []*types.PrepStep{{
			ID:          stepID,
			RecipeID:    recipeID,
			Description: display,
			SortIndex:   len(siblings),
		}})
		if err != nil {
			return fmt.Errorf("create prep step: %w", err)
		}
		step = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// Rename is a single-row update: ingredient links reference the step by id,
// so display text follows everywhere.
func (s *prepStepService) Rename(ctx context.Context, id uuid.UUID, description string) (*types.PrepStep, error) {
	display := strings.TrimSpace(description)
	if display == "" {
		return nil, apierr.Validation("prep step description is required")
	}
	step, err := s.stepRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get prep step: %w", err)
	}
	if step == nil {
		return nil, apierr.NotFound("prep step %s not found", id)
	}
	if err := s.stepRepo.UpdateDescription(ctx, nil, id, display); err != nil {
		return nil, fmt.Errorf("update prep step: %w", err)
	}
	step.Description = display
	return step, nil
}

func (s *prepStepService) Delete(ctx context.Context, id uuid.UUID) error {
	step, err := s.stepRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("get prep step: %w", err)
	}
	if step == nil {
		return apierr.NotFound("prep step %s not found", id)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ingredientRepo.ClearPrepStepLinks(ctx, tx, id); err != nil {
			return fmt.Errorf("clear ingredient links: %w", err)
		}
		return s.stepRepo.Delete(ctx, tx, id)
	})
}
