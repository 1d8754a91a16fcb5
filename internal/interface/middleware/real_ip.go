package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bienesraices/internal/application"
)

// RealIP sets the real client IP into Gin context (key: "real_ip") and attaches
// the caller's IP and user agent to the request context for the audit log.
// Priority:
// 1) CF-Connecting-IP (Cloudflare)
// 2) X-Forwarded-For (left-most)
// 3) fallback to c.ClientIP()
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := realIP(c)
		c.Set("real_ip", ip)
		ctx := application.WithClientInfo(c.Request.Context(), application.ClientInfo{
			IP:        ip,
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
		if ip := net.ParseIP(cf); ip != nil {
			return ip.String()
		}
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
