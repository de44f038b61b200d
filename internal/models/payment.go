package models

import (
	"time"
)

// Payment 支付记录，每次签发支付链接生成一条
type Payment struct {
	ID          uint       `gorm:"primarykey" json:"id"`                             // 主键
	PaymentID   string     `gorm:"uniqueIndex;size:96;not null" json:"payment_id"`   // 对外支付标识（CryptoBot payload）
	Amount      Money      `gorm:"type:decimal(20,2);not null" json:"amount"`        // 金额
	Currency    string     `gorm:"size:16;not null" json:"currency"`                 // 币种
	Type        string     `gorm:"size:16;index;not null" json:"type"`               // logo / review
	Status      string     `gorm:"size:16;index;not null" json:"status"`             // pending / completed
	EntityID    uint       `gorm:"index;not null" json:"entity_id"`                  // 关联的项目或评论 ID
	ChargeRef   string     `gorm:"size:128;index" json:"charge_ref"`                 // CryptoBot 发票 ID
	CompletedAt *time.Time `gorm:"index" json:"completed_at"`                        // 完成时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
