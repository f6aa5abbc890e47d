package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type WeekTemplateHandler struct {
	templateService services.WeekTemplateService
}

func NewWeekTemplateHandler(templateService services.WeekTemplateService) *WeekTemplateHandler {
	return &WeekTemplateHandler{templateService: templateService}
}

// POST /week-templates
func (h *WeekTemplateHandler) Create(c *gin.Context) {
	var req struct {
		Name string                        `json:"name"`
		Days []services.DayAssignmentInput `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	detail, err := h.templateService.Create(c.Request.Context(), req.Name, req.Days)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, detail)
}

// GET /week-templates/:id
func (h *WeekTemplateHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.templateService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /week-templates?include_retired=true
func (h *WeekTemplateHandler) List(c *gin.Context) {
	includeRetired := c.Query("include_retired") == "true"
	templates, err := h.templateService.List(c.Request.Context(), includeRetired)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"templates": templates})
}

// PATCH /week-templates/:id
func (h *WeekTemplateHandler) Rename(c *gin.Context) {
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
	template, err := h.templateService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"template": template})
}

// POST /week-templates/:id/retire
func (h *WeekTemplateHandler) Retire(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.Retire(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /week-templates/:id/fork
func (h *WeekTemplateHandler) Fork(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	_ = c.ShouldBindJSON(&req)
	detail, err := h.templateService.Fork(c.Request.Context(), id, req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, detail)
}

// PUT /week-templates/:id/days
func (h *WeekTemplateHandler) PutDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.DayAssignmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	detail, err := h.templateService.PutDay(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// DELETE /week-templates/:id/days/:day
func (h *WeekTemplateHandler) ClearDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.FromError(c, apierr.Validation("day must be an integer"))
		return
	}
	if err := h.templateService.ClearDay(c.Request.Context(), id, day); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
