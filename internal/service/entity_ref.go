package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cryptologowall/internal/constants"
)

// EntityKind 可付费激活的实体类型
type EntityKind int

const (
	// EntityUnknown 无法识别的实体
	EntityUnknown EntityKind = iota
	// EntityLogo 徽标（项目）
	EntityLogo
	// EntityReview 评论
	EntityReview
)

// String 返回支付类型字符串（与 payments.type 列一致）
func (k EntityKind) String() string {
	switch k {
	case EntityLogo:
		return constants.PaymentTypeLogo
	case EntityReview:
		return constants.PaymentTypeReview
	default:
		return "unknown"
	}
}

// EntityRef 支付所指向的实体
type EntityRef struct {
	Kind EntityKind
	ID   uint
}

// LogoRef 构造徽标引用
func LogoRef(projectID uint) EntityRef {
	return EntityRef{Kind: EntityLogo, ID: projectID}
}

// ReviewRef 构造评论引用
func ReviewRef(reviewID uint) EntityRef {
	return EntityRef{Kind: EntityReview, ID: reviewID}
}

// Valid 判断引用是否完整
func (r EntityRef) Valid() bool {
	return (r.Kind == EntityLogo || r.Kind == EntityReview) && r.ID > 0
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// EntityKindFromType 由 payments.type 列解析实体类型
func EntityKindFromType(paymentType string) EntityKind {
	switch strings.ToLower(strings.TrimSpace(paymentType)) {
	case constants.PaymentTypeLogo:
		return EntityLogo
	case constants.PaymentTypeReview:
		return EntityReview
	default:
		return EntityUnknown
	}
}

// ParseEntityKind 从支付标识前缀推断实体类型，仅在支付记录缺少 type 时兜底使用
func ParseEntityKind(paymentID string) EntityKind {
	prefix, _, found := strings.Cut(strings.TrimSpace(paymentID), "_")
	if !found {
		return EntityUnknown
	}
	return EntityKindFromType(prefix)
}

// newPaymentID 生成 <kind>_<16 位十六进制>_<unix 秒> 形式的支付标识
func newPaymentID(kind EntityKind, now time.Time) (string, error) {
	if kind != EntityLogo && kind != EntityReview {
		return "", ErrEntityKindInvalid
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate payment id: %w", err)
	}
	return fmt.Sprintf("%s_%s_%d", kind, hex.EncodeToString(buf), now.Unix()), nil
}
