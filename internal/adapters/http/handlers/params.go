package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-service/internal/adapters/http/dto"
)

// Mutation operation labels for metrics.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// pathID reads the :id path parameter. An id that is not a non-negative
// integer cannot match any row, so it gets the regular not-found response
// for entity and ok=false.
func pathID(c *gin.Context, entity string) (int64, bool) {
	raw := c.Param("id")

	id, ok := dto.ParseID(raw)
	if !ok {
		dto.NotFound(c, entity, raw)
		return 0, false
	}

	return id, true
}
