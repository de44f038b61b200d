package repository

import (
	"github.com/cryptologowall/internal/models"

	"gorm.io/gorm"
)

// ActivityLogRepository 活动日志数据访问接口
type ActivityLogRepository interface {
	Create(log *models.ActivityLog) error
	List(filter ActivityLogListFilter) ([]models.ActivityLog, int64, error)
	ListLatest(limit int) ([]ActivityEntry, error)
	WithTx(tx *gorm.DB) *GormActivityLogRepository
}

// GormActivityLogRepository GORM 实现
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository 创建活动日志仓库
func NewActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormActivityLogRepository) WithTx(tx *gorm.DB) *GormActivityLogRepository {
	if tx == nil {
		return r
	}
	return &GormActivityLogRepository{db: tx}
}

// Create 写入日志
func (r *GormActivityLogRepository) Create(log *models.ActivityLog) error {
	return r.db.Create(log).Error
}

// List 查询日志
func (r *GormActivityLogRepository) List(filter ActivityLogListFilter) ([]models.ActivityLog, int64, error) {
	query := r.db.Model(&models.ActivityLog{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.ActivityLog
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListLatest 最近操作，关联后台账号用户名
func (r *GormActivityLogRepository) ListLatest(limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ActivityEntry
	err := r.db.Table("activity_logs AS a").
		Select("a.id, a.user_id, COALESCE(u.username, '') AS username, a.action, a.entity_type, a.entity_id, a.ip_address, a.created_at").
		Joins("LEFT JOIN admins AS u ON u.id = a.user_id").
		Order("a.created_at desc").Order("a.id desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
