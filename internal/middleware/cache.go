package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl marks catalog responses as publicly cacheable for maxAgeSeconds.
// Responses vary by encoding because of brotli compression.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	if maxAgeSeconds <= 0 {
		value = "no-cache"
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Header("Vary", "Accept-Encoding")
		c.Next()
	}
}
