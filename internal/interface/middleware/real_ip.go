package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey is the gin context key carrying the resolved client IP.
const CtxRealIPKey = "real_ip"

// RealIP resolves the originating client IP once per request and stores it
// under CtxRealIPKey, so rate limiting keys on the same address the whole way
// through. CF-Connecting-IP wins over X-Forwarded-For; anything unparseable
// falls back to gin's ClientIP.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetHeader("CF-Connecting-IP")
		if ip == "" {
			// left-most XFF entry is the original client
			ip, _, _ = strings.Cut(c.GetHeader("X-Forwarded-For"), ",")
		}
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) == nil {
			ip = c.ClientIP()
		}
		c.Set(CtxRealIPKey, ip)
		c.Next()
	}
}
