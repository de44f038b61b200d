package repository

import (
	"errors"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评论数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	SetPayment(id uint, paymentID, status string) error
	ApproveByPayment(id uint, paymentID string) (int64, error)
	SetApproved(id uint, approved bool) error
	Delete(id uint) error
	ListIDsByProject(projectID uint) ([]uint, error)
	DeleteByProject(projectID uint) error
	ListApprovedByProject(projectID uint) ([]models.Review, error)
	StatsByProject(projectID uint) (ReviewStats, error)
	ListAdmin(filter ReviewListFilter) ([]models.Review, int64, error)
	Counts() (ReviewCounts, error)
	ListLatest(limit int) ([]ReviewDigest, error)
	WithTx(tx *gorm.DB) *GormReviewRepository
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create 创建评论
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// GetByID 根据 ID 获取评论
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	if id == 0 {
		return nil, nil
	}
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// SetPayment 写回当前支付标识与付费状态
func (r *GormReviewRepository) SetPayment(id uint, paymentID, status string) error {
	return r.db.Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_id":     paymentID,
		"payment_status": status,
	}).Error
}

// ApproveByPayment 付费完成后通过评论，仅匹配当前支付标识
func (r *GormReviewRepository) ApproveByPayment(id uint, paymentID string) (int64, error) {
	result := r.db.Model(&models.Review{}).
		Where("id = ? AND payment_id = ?", id, paymentID).
		Updates(map[string]interface{}{
			"payment_status": constants.EntityPaymentCompleted,
			"approved":       true,
		})
	return result.RowsAffected, result.Error
}

// SetApproved 后台手动审核
func (r *GormReviewRepository) SetApproved(id uint, approved bool) error {
	return r.db.Model(&models.Review{}).Where("id = ?", id).Update("approved", approved).Error
}

// Delete 删除评论
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// ListIDsByProject 获取项目下全部评论 ID
func (r *GormReviewRepository) ListIDsByProject(projectID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Review{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteByProject 删除项目下全部评论
func (r *GormReviewRepository) DeleteByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.Review{}).Error
}

// ListApprovedByProject 获取项目已通过的评论（最新在前）
func (r *GormReviewRepository) ListApprovedByProject(projectID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("project_id = ? AND approved = ?", projectID, true).
		Order("created_at desc, id desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// StatsByProject 统计项目已通过评论
func (r *GormReviewRepository) StatsByProject(projectID uint) (ReviewStats, error) {
	var stats ReviewStats
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(id) AS review_count").
		Where("project_id = ? AND approved = ?", projectID, true).
		Scan(&stats).Error
	return stats, err
}

// ListAdmin 后台评论列表
func (r *GormReviewRepository) ListAdmin(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{})
	if filter.ProjectID != 0 {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []models.Review
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Counts 统计评论总数、已通过数与待支付数
func (r *GormReviewRepository) Counts() (ReviewCounts, error) {
	var counts ReviewCounts
	err := r.db.Model(&models.Review{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN approved = ? THEN 1 ELSE 0 END), 0) AS approved, "+
			"COALESCE(SUM(CASE WHEN approved = ? AND payment_status = ? THEN 1 ELSE 0 END), 0) AS pending",
			true, false, constants.EntityPaymentPending).
		Scan(&counts).Error
	return counts, err
}

// ListLatest 最近提交的评论
func (r *GormReviewRepository) ListLatest(limit int) ([]ReviewDigest, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []ReviewDigest
	err := r.db.Table("reviews AS r").
		Select("r.id, r.project_id, p.name AS project_name, r.author_name, r.rating, r.approved, r.created_at").
		Joins("JOIN projects AS p ON p.id = r.project_id").
		Order("r.created_at desc").Order("r.id desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
