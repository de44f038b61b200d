package models

import (
	"time"
)

// Admin 后台账号（管理员 / 版主）
type Admin struct {
	ID            uint       `gorm:"primarykey" json:"id"`                             // 主键
	Username      string     `gorm:"uniqueIndex;size:64;not null" json:"username"`     // 登录名
	Email         string     `gorm:"uniqueIndex;size:255;not null" json:"email"`       // 邮箱
	PasswordHash  string     `gorm:"not null" json:"-"`                                // 密码哈希（不返回给前端）
	Role          string     `gorm:"size:16;index;not null" json:"role"`               // admin / moderator
	IsActive      bool       `gorm:"not null;index" json:"is_active"`                  // 是否启用
	LoginAttempts int        `gorm:"not null;default:0" json:"-"`                      // 连续失败次数
	LockedUntil   *time.Time `json:"locked_until,omitempty"`                           // 锁定截止时间
	LastLoginAt   *time.Time `json:"last_login_at"`                                    // 最后登录时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
