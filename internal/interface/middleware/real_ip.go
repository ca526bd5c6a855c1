package middleware

import (
	"github.com/gin-gonic/gin"
)

// clientIPHeaders are read only when the direct peer is a trusted proxy.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// TrustProxies makes c.ClientIP honour forwarding headers only from peers in
// proxies (IPs or CIDRs). An empty list trusts no one, so the socket address
// is used as is.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = clientIPHeaders
	return r.SetTrustedProxies(proxies)
}

// RealIP stores the resolved client address under "real_ip" for rate
// limiting and the private-network check on debug routes.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
