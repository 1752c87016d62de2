package api

import (
	"strconv"

	"travelnest/internal/pkg/errs"
	"travelnest/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errs.New("user not authenticated")

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// parseListParams reads the shared pagination query parameters. An invalid
// limit falls back to the default rather than erroring.
func parseListParams(c *gin.Context) (*queries.Cursor, int) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	return cursor, limit
}
