package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type RecipeHandler struct {
	recipeService   services.RecipeService
	prepStepService services.PrepStepService
}

func NewRecipeHandler(recipeService services.RecipeService, prepStepService services.PrepStepService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, prepStepService: prepStepService}
}

// POST /recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req services.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	detail, err := h.recipeService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, detail)
}

// GET /recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /recipes?include_retired=true
func (h *RecipeHandler) List(c *gin.Context) {
	includeRetired := c.Query("include_retired") == "true"
	recipes, err := h.recipeService.List(c.Request.Context(), includeRetired)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recipes": recipes})
}

// PUT /recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	detail, err := h.recipeService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// POST /recipes/:id/retire
func (h *RecipeHandler) Retire(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.Retire(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /recipes/:id/prep-steps
// Idempotent on normalized description: retrying or double-clicking returns
// the same step.
func (h *RecipeHandler) EnsurePrepStep(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	step, err := h.prepStepService.Ensure(c.Request.Context(), id, req.Description)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"prep_step": step})
}

// PATCH /prep-steps/:id
func (h *RecipeHandler) RenamePrepStep(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	step, err := h.prepStepService.Rename(c.Request.Context(), id, req.Description)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"prep_step": step})
}

// DELETE /prep-steps/:id
func (h *RecipeHandler) DeletePrepStep(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.prepStepService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
