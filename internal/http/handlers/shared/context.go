package shared

import (
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// Actor 从请求上下文构建操作方信息，未登录时 UserID 为 0。
func Actor(c *gin.Context) service.ActorContext {
	actor := service.ActorContext{}
	if c == nil {
		return actor
	}
	actor.IP = c.ClientIP()
	if c.Request != nil {
		actor.UserAgent = c.Request.UserAgent()
	}
	if value, ok := c.Get("admin_id"); ok {
		if id, ok := value.(uint); ok {
			actor.UserID = id
		}
	}
	return actor
}
