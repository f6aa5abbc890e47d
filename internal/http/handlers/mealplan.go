package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type MealPlanHandler struct {
	mealPlanService services.MealPlanService
}

func NewMealPlanHandler(mealPlanService services.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{mealPlanService: mealPlanService}
}

// GET /sequences/:id/instances
func (h *MealPlanHandler) ListInstances(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	instances, err := h.mealPlanService.ListInstances(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"instances": instances})
}

// GET /sequences/:id/instances/current
func (h *MealPlanHandler) CurrentInstance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	instance, err := h.mealPlanService.CurrentInstance(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"instance": instance})
}

// GET /instances/:id
func (h *MealPlanHandler) GetInstance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	instance, err := h.mealPlanService.GetInstance(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"instance": instance})
}

// GET /instances/:id/week
// The one read path: template defaults with overrides already resolved.
func (h *MealPlanHandler) EffectiveWeek(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	week, err := h.mealPlanService.EffectiveWeek(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week": week})
}

// PUT /instances/:id/overrides
func (h *MealPlanHandler) UpsertOverride(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.OverrideInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	override, err := h.mealPlanService.UpsertOverride(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"override": override})
}

// DELETE /instances/:id/overrides/:override_id
func (h *MealPlanHandler) ResetToTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	overrideID, ok := pathID(c, "override_id")
	if !ok {
		return
	}
	if err := h.mealPlanService.ResetToTemplate(c.Request.Context(), id, overrideID); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
