package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	me, err := h.userService.GetMe(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}
