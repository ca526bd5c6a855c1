package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP returns an AllowFunc that is true for loopback and
// private-range clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// OnlyIf aborts with 404 unless allow accepts the request.
func OnlyIf(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}
