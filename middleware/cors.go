package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func allowedOrigin(origin, frontendOrigin string) bool {
	switch {
	case origin == "":
		return false
	case frontendOrigin != "" && origin == frontendOrigin:
		return true
	case strings.HasPrefix(origin, "http://localhost:"), strings.HasPrefix(origin, "http://127.0.0.1:"):
		return true
	case strings.HasPrefix(origin, "chrome-extension://"), strings.HasPrefix(origin, "moz-extension://"):
		return true
	}
	return false
}

// CORS admits the dashboard origin, local development and browser extensions.
func CORS(frontendOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if allowedOrigin(origin, frontendOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-API-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
