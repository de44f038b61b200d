package service

import (
	"fmt"
	"strings"

	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"
)

// ActorContext 发起操作的请求方信息，由 handler 从请求上下文构建
type ActorContext struct {
	UserID    uint
	IP        string
	UserAgent string
}

// ActivityService 活动日志服务
type ActivityService struct {
	repo repository.ActivityLogRepository
}

// NewActivityService 创建活动日志服务
func NewActivityService(repo repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record 记录一条活动日志，失败只记录告警不影响主流程
func (s *ActivityService) Record(actor ActorContext, action, entityType string, entityID interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.ActivityLog{
		Action:     strings.TrimSpace(action),
		EntityType: strings.TrimSpace(entityType),
		IPAddress:  truncate(actor.IP, 64),
		UserAgent:  truncate(actor.UserAgent, 255),
	}
	if entityID != nil {
		entry.EntityID = fmt.Sprint(entityID)
	}
	if actor.UserID > 0 {
		uid := actor.UserID
		entry.UserID = &uid
	}
	if err := s.repo.Create(entry); err != nil {
		logger.Warnw("activity_log_write_failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}

// List 分页查询活动日志
func (s *ActivityService) List(filter repository.ActivityLogListFilter) ([]models.ActivityLog, int64, error) {
	return s.repo.List(filter)
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max > 0 && len(value) > max {
		return value[:max]
	}
	return value
}
