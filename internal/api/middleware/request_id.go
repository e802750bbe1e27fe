package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"

	// 限制外部传入 ID 的长度，防止日志注入
	requestIDMaxLen = 64
)

// RequestID 为每个请求分配追踪 ID。
// 优先沿用调用方带来的 X-Request-ID（便于与外部系统的回写日志关联），
// 缺失或超长时生成新的 UUID，并回写到响应头。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}
