// Package response 统一 HTTP JSON 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

// Success 以 200 返回数据本身
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// ErrorWithStatus 以指定状态码返回错误
func ErrorWithStatus(c *gin.Context, status int, msg string, detail any) {
	if s, ok := detail.(string); ok && s == "" {
		detail = nil
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Detail: detail})
}
