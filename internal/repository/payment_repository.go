package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository 支付数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByPaymentID(paymentID string) (*models.Payment, error)
	GetByPaymentIDForUpdate(paymentID string) (*models.Payment, error)
	MarkCompleted(paymentID, chargeRef string, completedAt time.Time) (int64, error)
	ListPendingCreatedBefore(before time.Time, limit int) ([]models.Payment, error)
	ListAdmin(filter PaymentListFilter) ([]models.Payment, int64, error)
	DeleteByEntity(paymentType string, entityIDs []uint) error
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByPaymentID 根据对外支付标识获取支付记录
func (r *GormPaymentRepository) GetByPaymentID(paymentID string) (*models.Payment, error) {
	return r.getByPaymentID(r.db, paymentID)
}

// GetByPaymentIDForUpdate 在事务内锁定支付记录（PostgreSQL 使用 FOR UPDATE）
func (r *GormPaymentRepository) GetByPaymentIDForUpdate(paymentID string) (*models.Payment, error) {
	query := r.db
	if models.IsPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.getByPaymentID(query, paymentID)
}

func (r *GormPaymentRepository) getByPaymentID(query *gorm.DB, paymentID string) (*models.Payment, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, nil
	}
	var payment models.Payment
	if err := query.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// MarkCompleted 条件更新 pending -> completed，返回受影响行数
// 返回 0 表示记录已完成或不存在
func (r *GormPaymentRepository) MarkCompleted(paymentID, chargeRef string, completedAt time.Time) (int64, error) {
	result := r.db.Model(&models.Payment{}).
		Where("payment_id = ? AND status = ?", paymentID, constants.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       constants.PaymentStatusCompleted,
			"charge_ref":   chargeRef,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	return result.RowsAffected, result.Error
}

// ListPendingCreatedBefore 获取早于指定时间仍未完成的支付（用于对账）
func (r *GormPaymentRepository) ListPendingCreatedBefore(before time.Time, limit int) ([]models.Payment, error) {
	query := r.db.Where("status = ? AND created_at <= ?", constants.PaymentStatusPending, before).Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ListAdmin 管理端支付列表
func (r *GormPaymentRepository) ListAdmin(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EntityID != 0 {
		query = query.Where("entity_id = ?", filter.EntityID)
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

	var payments []models.Payment
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// DeleteByEntity 删除实体关联的支付记录
func (r *GormPaymentRepository) DeleteByEntity(paymentType string, entityIDs []uint) error {
	if len(entityIDs) == 0 {
		return nil
	}
	return r.db.Where("type = ? AND entity_id IN ?", paymentType, entityIDs).Delete(&models.Payment{}).Error
}
