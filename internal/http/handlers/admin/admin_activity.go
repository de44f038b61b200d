package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/cryptologowall/internal/http/handlers/shared"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetActivityLogs 活动日志列表
func (h *Handler) GetActivityLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	userID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("user_id")), 10, 64)
	logs, total, err := h.ActivityService.List(repository.ActivityLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uint(userID),
		Action:      strings.TrimSpace(c.Query("action")),
		EntityType:  strings.TrimSpace(c.Query("entity_type")),
		CreatedFrom: parseOptionalDate(c.Query("created_from"), false),
		CreatedTo:   parseOptionalDate(c.Query("created_to"), true),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}
