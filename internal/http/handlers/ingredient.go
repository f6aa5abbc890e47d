package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/hearthplan/hearthplan-backend/internal/domain"
	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// GET /ingredients
func (h *IngredientHandler) List(c *gin.Context) {
	ingredients, err := h.ingredientService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ingredients": ingredients})
}

// GET /ingredients/unmapped
func (h *IngredientHandler) ListUnmapped(c *gin.Context) {
	unmapped, err := h.ingredientService.ListUnmapped(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"unmapped": unmapped})
}

// GET /ingredients/suggest?name=...&limit=5
func (h *IngredientHandler) Suggest(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.FromError(c, apierr.Validation("name query parameter is required"))
		return
	}
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.FromError(c, apierr.Validation("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	suggestions, err := h.ingredientService.Suggest(c.Request.Context(), name, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": suggestions})
}

// POST /ingredients
// body: { "name": "...", "category": "...", "initial_alias": "..." }
func (h *IngredientHandler) Create(c *gin.Context) {
	var req struct {
		Name         string                    `json:"name"`
		Category     *types.IngredientCategory `json:"category"`
		InitialAlias string                    `json:"initial_alias"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	ingredient, err := h.ingredientService.CreateWithMapping(c.Request.Context(), req.Name, req.Category, req.InitialAlias)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ingredient": ingredient})
}

// POST /ingredients/:id/aliases
func (h *IngredientHandler) MapToExisting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	alias, err := h.ingredientService.MapToExisting(c.Request.Context(), req.Name, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"alias": alias})
}

// POST /ingredients/auto-map
// Explicit bulk action, never automatic.
func (h *IngredientHandler) AutoMap(c *gin.Context) {
	var req struct {
		MinRecipeCount int `json:"min_recipe_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	created, err := h.ingredientService.AutoMapCommon(c.Request.Context(), req.MinRecipeCount)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"created": created})
}

// PATCH /ingredients/:id
func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name     string                    `json:"name"`
		Category *types.IngredientCategory `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	ingredient, err := h.ingredientService.Update(c.Request.Context(), id, req.Name, req.Category)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ingredient": ingredient})
}

// POST /ingredients/:id/merge
// body: { "into": "<ingredient uuid>" }
func (h *IngredientHandler) Merge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Into uuid.UUID `json:"into"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	if err := h.ingredientService.Merge(c.Request.Context(), id, req.Into); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /ingredients/:id
func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredientService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /ingredient-aliases/:id
func (h *IngredientHandler) DeleteAlias(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredientService.DeleteAlias(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
