package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/ctxutil"
	"github.com/hearthplan/hearthplan-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /refresh
// The refresh token arrives in the X-Refresh-Token header or the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	if req.RefreshToken != "" {
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil {
			rd = &ctxutil.RequestData{}
		}
		rd.RefreshToken = req.RefreshToken
		ctx = ctxutil.WithRequestData(ctx, rd)
	}

	pair, err := h.authService.Refresh(ctx)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
