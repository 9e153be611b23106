// Package middleware contains Gin middleware: API key authentication, CORS
// and per-client rate limiting.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClientKey is the gin context key holding the authenticated API key.
const ClientKey = "api_key"

// APIKeyAuth returns middleware that accepts any of keys in the X-API-Key
// header, or the api_key query parameter so preview images can be embedded
// with a plain <img src>. With no keys configured the API is open; this is
// meant for local development.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return keyAuth(keys, "API key", http.StatusUnauthorized)
}

// AdminKeyAuth guards admin endpoints. Unlike APIKeyAuth it never runs open:
// without admin keys every admin request is refused. A known but wrong key
// gets 403.
func AdminKeyAuth(keys []string) gin.HandlerFunc {
	return keyAuth(keys, "admin API key", http.StatusForbidden)
}

func keyAuth(keys []string, label string, invalidStatus int) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + label})
			return
		}
		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(invalidStatus, gin.H{"error": "invalid " + label})
			return
		}

		c.Set(ClientKey, key)
		c.Next()
	}
}
