// Package middleware holds the gin middleware of the quotes API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotes-service/internal/platform/logging"
)

// ID headers echoed on every response.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// gin.Context keys.
const (
	requestIDKey     = "request_id"
	correlationIDKey = "correlation_id"
)

// maxIncomingIDLength caps caller-supplied IDs so they cannot bloat logs.
const maxIncomingIDLength = 128

// RequestID tags the request with X-Request-ID. A usable caller value is
// kept, anything else is replaced with a UUID v4.
func RequestID() gin.HandlerFunc {
	return propagateID(HeaderRequestID, requestIDKey, logging.WithRequestID)
}

// CorrelationID does the same for X-Correlation-ID, which callers use to
// tie several requests together.
func CorrelationID() gin.HandlerFunc {
	return propagateID(HeaderCorrelationID, correlationIDKey, logging.WithCorrelationID)
}

// GetRequestID returns the request ID, or "" outside RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// GetCorrelationID returns the correlation ID, or "" outside CorrelationID.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

func propagateID(header, key string, enrich func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(key, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}

// acceptableID allows non-empty printable ASCII without spaces.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIncomingIDLength {
		return false
	}

	return strings.IndexFunc(id, func(r rune) bool { return r < '!' || r > '~' }) < 0
}
