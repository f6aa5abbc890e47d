package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthplan/hearthplan-backend/internal/data/repos/pantry"
	"github.com/hearthplan/hearthplan-backend/internal/data/repos/recipes"
	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/normalization"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/logger"
)

// Suggestion is one ranked "did you mean" candidate. Ranking is advisory; no
// threshold rejects candidates.
type Suggestion struct {
	Ingredient  *types.CommonIngredient `json:"ingredient"`
	Score       int                     `json:"score"`
	RecipeCount int                     `json:"recipe_count"`
}

// UnmappedName is a free-text ingredient name with no alias. Not an error
// condition: it feeds the human resolution workflow.
type UnmappedName struct {
	Name        string `json:"name"`
	RecipeCount int    `json:"recipe_count"`
}

type IngredientService interface {
	// Resolve returns the canonical ingredient for a free-text name via exact
	// alias match, or nil when the name is unmapped.
	Resolve(ctx context.Context, name string) (*types.CommonIngredient, error)
	// ResolveNames resolves a batch, keyed by normalized name. Missing keys are
	// unmapped.
	ResolveNames(ctx context.Context, tx *gorm.DB, names []string) (map[string]*types.CommonIngredient, error)
	Suggest(ctx context.Context, name string, limit int) ([]Suggestion, error)
	ListUnmapped(ctx context.Context) ([]UnmappedName, error)

	List(ctx context.Context) ([]*types.CommonIngredient, error)
	Get(ctx context.Context, id uuid.UUID) (*types.CommonIngredient, error)
	MapToExisting(ctx context.Context, name string, ingredientID uuid.UUID) (*types.IngredientAlias, error)
	CreateWithMapping(ctx context.Context, name string, category *types.IngredientCategory, initialAlias string) (*types.CommonIngredient, error)
	AutoMapCommon(ctx context.Context, minRecipeCount int) (int, error)
	Update(ctx context.Context, id uuid.UUID, name string, category *types.IngredientCategory) (*types.CommonIngredient, error)
	DeleteAlias(ctx context.Context, aliasID uuid.UUID) error
	Merge(ctx context.Context, fromID, toID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ingredientService struct {
	db             *gorm.DB
	log            *logger.Logger
	ingredientRepo pantry.CommonIngredientRepo
	aliasRepo      pantry.IngredientAliasRepo
	usageRepo      recipes.RecipeIngredientRepo
}

func NewIngredientService(
	db *gorm.DB,
	log *logger.Logger,
	ingredientRepo pantry.CommonIngredientRepo,
	aliasRepo pantry.IngredientAliasRepo,
	usageRepo recipes.RecipeIngredientRepo,
) IngredientService {
	return &ingredientService{
		db:             db,
		log:            log.With("service", "IngredientService"),
		ingredientRepo: ingredientRepo,
		aliasRepo:      aliasRepo,
		usageRepo:      usageRepo,
	}
}

func (s *ingredientService) Resolve(ctx context.Context, name string) (*types.CommonIngredient, error) {
	resolved, err := s.ResolveNames(ctx, nil, []string{name})
	if err != nil {
		return nil, err
	}
	return resolved[normalization.ParseInputString(name)], nil
}

func (s *ingredientService) ResolveNames(ctx context.Context, tx *gorm.DB, names []string) (map[string]*types.CommonIngredient, error) {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if p := normalization.ParseInputString(n); p != "" {
			normalized = append(normalized, p)
		}
	}
	out := make(map[string]*types.CommonIngredient, len(normalized))
	if len(normalized) == 0 {
		return out, nil
	}

	aliases, err := s.aliasRepo.GetByNames(ctx, tx, normalized)
	if err != nil {
		return nil, fmt.Errorf("get aliases: %w", err)
	}
	if len(aliases) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(aliases))
	for _, a := range aliases {
		ids = append(ids, a.CommonIngredientID)
	}
	ingredients, err := s.ingredientRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("get ingredients: %w", err)
	}
	byID := make(map[uuid.UUID]*types.CommonIngredient, len(ingredients))
	for _, ci := range ingredients {
		byID[ci.ID] = ci
	}
	for _, a := range aliases {
		if ci := byID[a.CommonIngredientID]; ci != nil {
			out[a.Name] = ci
		}
	}
	return out, nil
}

func (s *ingredientService) Suggest(ctx context.Context, name string, limit int) ([]Suggestion, error) {
	candidates, err := s.ingredientRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	usage, err := s.usageRepo.NameUsageCounts(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("usage counts: %w", err)
	}

	// Usage count per candidate sums over the names its aliases cover.
	aliases, err := s.aliasRepo.GetByIngredientIDs(ctx, nil, ingredientIDs(candidates))
	if err != nil {
		return nil, fmt.Errorf("get aliases: %w", err)
	}
	usageByName := make(map[string]int, len(usage))
	for _, u := range usage {
		usageByName[u.Name] = u.RecipeCount
	}
	usageByIngredient := make(map[uuid.UUID]int, len(candidates))
	for _, a := range aliases {
		usageByIngredient[a.CommonIngredientID] += usageByName[a.Name]
	}

	out := make([]Suggestion, 0, len(candidates))
	for _, ci := range candidates {
		out = append(out, Suggestion{
			Ingredient:  ci,
			Score:       normalization.ScoreNames(name, ci.Name),
			RecipeCount: usageByIngredient[ci.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].RecipeCount != out[j].RecipeCount {
			return out[i].RecipeCount > out[j].RecipeCount
		}
		return out[i].Ingredient.Name < out[j].Ingredient.Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ingredientService) ListUnmapped(ctx context.Context) ([]UnmappedName, error) {
	usage, err := s.usageRepo.NameUsageCounts(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("usage counts: %w", err)
	}
	aliasNames, err := s.aliasRepo.ListNames(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list alias names: %w", err)
	}
	mapped := make(map[string]struct{}, len(aliasNames))
	for _, n := range aliasNames {
		mapped[n] = struct{}{}
	}

	out := []UnmappedName{}
	for _, u := range usage {
		if _, ok := mapped[u.Name]; ok {
			continue
		}
		out = append(out, UnmappedName{Name: u.Name, RecipeCount: u.RecipeCount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecipeCount != out[j].RecipeCount {
			return out[i].RecipeCount > out[j].RecipeCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *ingredientService) List(ctx context.Context) ([]*types.CommonIngredient, error) {
	return s.ingredientRepo.List(ctx, nil)
}

func (s *ingredientService) Get(ctx context.Context, id uuid.UUID) (*types.CommonIngredient, error) {
	ci, err := s.ingredientRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if ci == nil {
		return nil, apierr.NotFound("ingredient %s not found", id)
	}
	return ci, nil
}

func (s *ingredientService) MapToExisting(ctx context.Context, name string, ingredientID uuid.UUID) (*types.IngredientAlias, error) {
	normalized := normalization.ParseInputString(name)
	if normalized == "" {
		return nil, apierr.Validation("alias name is required")
	}
	if _, err := s.Get(ctx, ingredientID); err != nil {
		return nil, err
	}
	existing, err := s.aliasRepo.GetByNames(ctx, nil, []string{normalized})
	if err != nil {
		return nil, fmt.Errorf("check alias: %w", err)
	}
	if len(existing) > 0 {
		return nil, apierr.Conflict("name %q is already mapped", normalized)
	}
	alias := &types.IngredientAlias{
		ID:                 uuid.New(),
		CommonIngredientID: ingredientID,
		Name:               normalized,
	}
	if _, err := s.aliasRepo.Create(ctx, nil, []*types.IngredientAlias{alias}); err != nil {
		return nil, fmt.Errorf("create alias: %w", err)
	}
	return alias, nil
}

func (s *ingredientService) CreateWithMapping(ctx context.Context, name string, category *types.IngredientCategory, initialAlias string) (*types.CommonIngredient, error) {
	canonical := normalization.ParseInputString(name)
	aliasName := normalization.ParseInputString(initialAlias)
	if canonical == "" {
		return nil, apierr.Validation("ingredient name is required")
	}
	if aliasName == "" {
		aliasName = canonical
	}
	if category != nil && !types.ValidIngredientCategory(*category) {
		return nil, apierr.Validation("unknown category %q", *category)
	}

	var out *types.CommonIngredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.ingredientRepo.GetByName(ctx, tx, canonical)
		if err != nil {
			return fmt.Errorf("check ingredient name: %w", err)
		}
		if existing != nil {
			return apierr.Conflict("ingredient %q already exists", canonical)
		}
		taken, err := s.aliasRepo.GetByNames(ctx, tx, []string{aliasName})
		if err != nil {
			return fmt.Errorf("check alias: %w", err)
		}
		if len(taken) > 0 {
			return apierr.Conflict("name %q is already mapped", aliasName)
		}

		out = &types.CommonIngredient{ID: uuid.New(), Name: canonical, Category: category}
		if _, err := s.ingredientRepo.Create(ctx, tx, []*types.CommonIngredient{out}); err != nil {
			return fmt.Errorf("create ingredient: %w", err)
		}
		_, err = s.aliasRepo.Create(ctx, tx, []*types.IngredientAlias{{
			ID:                 uuid.New(),
			CommonIngredientID: out.ID,
			Name:               aliasName,
		}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AutoMapCommon bulk-creates ingredients for every unmapped name used in at
// least minRecipeCount recipes, aliasing the raw text as-is. Explicit action,
// never automatic.
func (s *ingredientService) AutoMapCommon(ctx context.Context, minRecipeCount int) (int, error) {
	if minRecipeCount < 1 {
		return 0, apierr.Validation("min_recipe_count must be >= 1, got %d", minRecipeCount)
	}
	unmapped, err := s.ListUnmapped(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range unmapped {
			if u.RecipeCount < minRecipeCount {
				continue
			}
			target, err := s.ingredientRepo.GetByName(ctx, tx, u.Name)
			if err != nil {
				return fmt.Errorf("check ingredient name: %w", err)
			}
			if target == nil {
				target = &types.CommonIngredient{ID: uuid.New(), Name: u.Name}
				if _, err := s.ingredientRepo.Create(ctx, tx, []*types.CommonIngredient{target}); err != nil {
					return fmt.Errorf("create ingredient: %w", err)
				}
			}
			if _, err := s.aliasRepo.Create(ctx, tx, []*types.IngredientAlias{{
				ID:                 uuid.New(),
				CommonIngredientID: target.ID,
				Name:               u.Name,
			}}); err != nil {
				return fmt.Errorf("create alias: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("auto-mapped ingredients", "created", created, "min_recipe_count", minRecipeCount)
	return created, nil
}

func (s *ingredientService) Update(ctx context.Context, id uuid.UUID, name string, category *types.IngredientCategory) (*types.CommonIngredient, error) {
	canonical := normalization.ParseInputString(name)
	if canonical == "" {
		return nil, apierr.Validation("ingredient name is required")
	}
	if category != nil && !types.ValidIngredientCategory(*category) {
		return nil, apierr.Validation("unknown category %q", *category)
	}
	ci, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if canonical != ci.Name {
		existing, err := s.ingredientRepo.GetByName(ctx, nil, canonical)
		if err != nil {
			return nil, fmt.Errorf("check ingredient name: %w", err)
		}
		if existing != nil {
			return nil, apierr.Conflict("ingredient %q already exists", canonical)
		}
	}
	ci.Name = canonical
	ci.Category = category
	if err := s.ingredientRepo.Update(ctx, nil, ci); err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return ci, nil
}

// DeleteAlias unmaps one free-text name. The canonical ingredient stays.
func (s *ingredientService) DeleteAlias(ctx context.Context, aliasID uuid.UUID) error {
	alias, err := s.aliasRepo.GetByID(ctx, nil, aliasID)
	if err != nil {
		return fmt.Errorf("get alias: %w", err)
	}
	if alias == nil {
		return apierr.NotFound("alias %s not found", aliasID)
	}
	return s.aliasRepo.Delete(ctx, nil, aliasID)
}

// Merge moves every alias of fromID onto toID and deletes fromID. Recipe rows
// keep their free text; they re-resolve through the moved aliases.
func (s *ingredientService) Merge(ctx context.Context, fromID, toID uuid.UUID) error {
	if fromID == toID {
		return apierr.Validation("cannot merge an ingredient into itself")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from, err := s.ingredientRepo.GetByID(ctx, tx, fromID)
		if err != nil {
			return fmt.Errorf("get ingredient: %w", err)
		}
		if from == nil {
			return apierr.NotFound("ingredient %s not found", fromID)
		}
		to, err := s.ingredientRepo.GetByID(ctx, tx, toID)
		if err != nil {
			return fmt.Errorf("get ingredient: %w", err)
		}
		if to == nil {
			return apierr.NotFound("ingredient %s not found", toID)
		}
		if err := s.aliasRepo.Reassign(ctx, tx, fromID, toID); err != nil {
			return fmt.Errorf("reassign aliases: %w", err)
		}
		if to.Category == nil && from.Category != nil {
			to.Category = from.Category
			if err := s.ingredientRepo.Update(ctx, tx, to); err != nil {
				return fmt.Errorf("update survivor: %w", err)
			}
		}
		return s.ingredientRepo.Delete(ctx, tx, fromID)
	})
}

func (s *ingredientService) Delete(ctx context.Context, id uuid.UUID) error {
	ci, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	aliases, err := s.aliasRepo.GetByIngredientIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("get aliases: %w", err)
	}
	names := make([]string, 0, len(aliases))
	for _, a := range aliases {
		names = append(names, a.Name)
	}
	if len(names) > 0 {
		used, err := s.usageRepo.CountRecipesByNames(ctx, nil, names)
		if err != nil {
			return fmt.Errorf("count usage: %w", err)
		}
		if used > 0 {
			return apierr.Conflict("ingredient %q is used by %d recipes", ci.Name, used)
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range aliases {
			if err := s.aliasRepo.Delete(ctx, tx, a.ID); err != nil {
				return fmt.Errorf("delete alias: %w", err)
			}
		}
		return s.ingredientRepo.Delete(ctx, tx, id)
	})
}

func ingredientIDs(rows []*types.CommonIngredient) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
