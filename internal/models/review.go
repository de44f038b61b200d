package models

import "time"

// Review 项目评论，付费后自动通过审核
type Review struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProjectID     uint      `gorm:"index;not null" json:"project_id"`
	AuthorName    string    `gorm:"size:100;not null" json:"author_name"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	Approved      bool      `gorm:"index;not null;default:false" json:"approved"`
	PaymentID     string    `gorm:"size:96;index" json:"payment_id"`
	PaymentStatus string    `gorm:"size:16;not null;default:none" json:"payment_status"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
