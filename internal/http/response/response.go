package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// FromError maps a service error onto the wire. Expected failures carry their
// own status and code; anything else is a 500.
func FromError(c *gin.Context, err error) {
	if ae := apierr.From(err); ae != nil {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
