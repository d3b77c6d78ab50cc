package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gbgcf/crp-questionnaire/pkg/utils"
)

// CorrelationIDHeader is echoed on every response
const CorrelationIDHeader = "X-Correlation-ID"

// ContextKey is the gin context key holding the correlation ID
const ContextKey = "correlation_id"

var correlationHeaders = []string{CorrelationIDHeader, "X-Request-ID", "X-Trace-ID"}

// CorrelationID reads the caller's correlation ID or generates one, stores it
// on the request context for downstream calls and echoes it on the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = utils.GenerateCorrelationID()
		}

		c.Set(ContextKey, correlationID)
		c.Request = c.Request.WithContext(utils.WithCorrelationID(c.Request.Context(), correlationID))
		c.Header(CorrelationIDHeader, correlationID)
		c.Next()
	}
}

func extractCorrelationID(c *gin.Context) string {
	for _, header := range correlationHeaders {
		id := c.GetHeader(header)
		if id == "" {
			continue
		}
		if err := utils.ValidateCorrelationID(id); err == nil {
			return id
		}
	}
	return ""
}
