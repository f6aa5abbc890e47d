package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
)

// pathID parses a uuid path parameter, responding 422 itself on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.FromError(c, apierr.Validation("%s must be a uuid", name))
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
