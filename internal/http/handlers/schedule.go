package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

type sequenceRequest struct {
	Name                 string `json:"name"`
	AdvancementDayOfWeek int    `json:"advancement_day_of_week"`
	AdvancementTime      string `json:"advancement_time"`
}

// POST /sequences
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req sequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	if req.AdvancementTime == "" {
		req.AdvancementTime = "00:00"
	}
	seq, err := h.scheduleService.CreateSequence(c.Request.Context(), req.Name, req.AdvancementDayOfWeek, req.AdvancementTime)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"sequence": seq})
}

// GET /sequences/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.scheduleService.GetSequence(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /sequences
func (h *ScheduleHandler) List(c *gin.Context) {
	sequences, err := h.scheduleService.ListSequences(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sequences": sequences})
}

// PUT /sequences/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	seq, err := h.scheduleService.UpdateSequence(c.Request.Context(), id, req.Name, req.AdvancementDayOfWeek, req.AdvancementTime)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sequence": seq})
}

// DELETE /sequences/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteSequence(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /sequences/:id/templates
// body: { "template_id": "<uuid>" }
func (h *ScheduleHandler) AddTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TemplateID uuid.UUID `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	mapping, err := h.scheduleService.AddTemplate(c.Request.Context(), id, req.TemplateID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"mapping": mapping})
}

// DELETE /sequences/:id/templates/:template_id
func (h *ScheduleHandler) RemoveTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	templateID, ok := pathID(c, "template_id")
	if !ok {
		return
	}
	if err := h.scheduleService.RemoveTemplate(c.Request.Context(), id, templateID); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /sequences/:id/templates/order
// body: { "template_ids": ["<uuid>", ...] }
func (h *ScheduleHandler) Reorder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TemplateIDs []uuid.UUID `json:"template_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	if err := h.scheduleService.ReorderTemplates(c.Request.Context(), id, req.TemplateIDs); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /sequences/:id/advance
func (h *ScheduleHandler) Advance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	instance, err := h.scheduleService.AdvanceWeek(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"instance": instance})
}

// POST /sequences/:id/start
// body: { "template_id": "<uuid>" }
func (h *ScheduleHandler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TemplateID uuid.UUID `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	instance, err := h.scheduleService.StartOnWeek(c.Request.Context(), id, req.TemplateID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"instance": instance})
}
