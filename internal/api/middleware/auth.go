package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the request header carrying the shared secret.
const APIKeyHeader = "x-api-key"

// APIKeyAuth returns a middleware that rejects requests whose x-api-key
// header does not match the configured key. The rejection is uniform for a
// missing or wrong key, and runs before any domain logic.
// Parameters:
//   - apiKey: configured shared secret.
// Returns:
//   - gin.HandlerFunc: middleware handler.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(APIKeyHeader) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			return
		}
		c.Next()
	}
}
