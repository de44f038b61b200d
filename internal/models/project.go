package models

import "time"

// Project 徽标墙上的项目
type Project struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Website       string    `gorm:"size:255;not null" json:"website"`
	Telegram      string    `gorm:"size:64" json:"telegram"`
	LogoPath      string    `gorm:"size:255" json:"logo_path"`
	Position      int64     `gorm:"index;not null;default:0" json:"position"`
	Active        bool      `gorm:"index;not null;default:false" json:"active"`
	PaymentID     string    `gorm:"size:96;index" json:"payment_id"`
	PaymentStatus string    `gorm:"size:16;not null;default:none" json:"payment_status"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}
