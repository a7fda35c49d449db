package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey 为请求 ID 在 gin.Context 中的键。
	RequestIDKey    = "request_id"
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 128
)

// RequestID 透传上游的 X-Request-Id（需为可打印 ASCII 且不超长），否则生成 UUID。
// 结果写入 Context 并回写到响应头，供日志与客户端关联。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}
