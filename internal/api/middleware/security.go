package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders 安全响应头
// 服务只返回 JSON、xlsx 与 ics，不渲染页面，因此 CSP 一律拒绝
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// 带令牌的响应含个人数据（成绩、报名信息），禁止缓存
		if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
