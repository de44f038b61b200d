package models

import "time"

// ActivityLog 后台与支付相关操作日志
type ActivityLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"` // 系统动作（如 webhook）为空
	Action     string    `gorm:"size:64;index;not null" json:"action"`
	EntityType string    `gorm:"size:32;index" json:"entity_type"`
	EntityID   string    `gorm:"size:96" json:"entity_id"`
	IPAddress  string    `gorm:"size:64" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (ActivityLog) TableName() string {
	return "activity_logs"
}
