package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"store-roster/backend/pkg/response"
)

// BodyLimit 限制请求体大小，防止超大 JSON 拖垮服务
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		var tooLarge *http.MaxBytesError
		for _, ginErr := range c.Errors {
			if errors.As(ginErr.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
