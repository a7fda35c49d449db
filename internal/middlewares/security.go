package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 设置通用的安全相关响应头。
// 跨域访问由 CORS 中间件单独放开，这里只限制嗅探与 Referer 泄漏。
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
