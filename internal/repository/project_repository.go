package repository

import (
	"errors"
	"strings"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	UpdateLogoPath(id uint, logoPath string) error
	SetPayment(id uint, paymentID, status string) error
	ActivateByPayment(id uint, paymentID string, position int64) (int64, error)
	SetActive(id uint, active bool) error
	Delete(id uint) error
	ListWall(filter WallListFilter) ([]WallEntry, error)
	ListActive() ([]models.Project, error)
	ListAdmin(filter ProjectListFilter) ([]models.Project, int64, error)
	Counts() (ProjectCounts, error)
	ListLatest(limit int) ([]models.Project, error)
	WithTx(tx *gorm.DB) *GormProjectRepository
}

// GormProjectRepository GORM 实现
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓库
func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProjectRepository) WithTx(tx *gorm.DB) *GormProjectRepository {
	if tx == nil {
		return r
	}
	return &GormProjectRepository{db: tx}
}

// Create 创建项目
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// GetByID 根据 ID 获取项目
func (r *GormProjectRepository) GetByID(id uint) (*models.Project, error) {
	if id == 0 {
		return nil, nil
	}
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// UpdateLogoPath 更新徽标路径
func (r *GormProjectRepository) UpdateLogoPath(id uint, logoPath string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Update("logo_path", logoPath).Error
}

// SetPayment 写回当前支付标识与付费状态
func (r *GormProjectRepository) SetPayment(id uint, paymentID, status string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_id":     paymentID,
		"payment_status": status,
	}).Error
}

// ActivateByPayment 付费完成后激活项目，仅匹配当前支付标识
func (r *GormProjectRepository) ActivateByPayment(id uint, paymentID string, position int64) (int64, error) {
	result := r.db.Model(&models.Project{}).
		Where("id = ? AND payment_id = ?", id, paymentID).
		Updates(map[string]interface{}{
			"payment_status": constants.EntityPaymentCompleted,
			"active":         true,
			"position":       position,
		})
	return result.RowsAffected, result.Error
}

// SetActive 后台切换显示状态
func (r *GormProjectRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Update("active", active).Error
}

// Delete 删除项目
func (r *GormProjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// ListWall 公开徽标墙列表，附带已通过评论的平均分与数量
func (r *GormProjectRepository) ListWall(filter WallListFilter) ([]WallEntry, error) {
	var order string
	switch filter.Sort {
	case constants.WallSortCreated:
		order = "projects.created_at DESC, projects.id DESC"
	case constants.WallSortName:
		order = "projects.name ASC, projects.id ASC"
	default:
		order = "projects.position ASC, projects.id ASC"
	}

	rows := make([]WallEntry, 0)
	err := r.db.Table("projects").
		Select("projects.id, projects.name, projects.website, projects.logo_path, projects.position, projects.created_at, "+
			"COALESCE(AVG(reviews.rating), 0) AS average_rating, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.project_id = projects.id AND reviews.approved = ?", true).
		Where("projects.active = ?", true).
		Group("projects.id").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive 获取全部激活项目（站点地图）
func (r *GormProjectRepository) ListActive() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("active = ?", true).Order("id asc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListAdmin 后台项目列表
func (r *GormProjectRepository) ListAdmin(filter ProjectListFilter) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, "name", "website", "telegram")
		query = query.Where(condition, repeatLikeArgs("%"+keyword+"%", argCount)...)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var projects []models.Project
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Counts 统计项目总数、已上墙数与待支付数
func (r *GormProjectRepository) Counts() (ProjectCounts, error) {
	var counts ProjectCounts
	err := r.db.Model(&models.Project{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN active = ? THEN 1 ELSE 0 END), 0) AS active, "+
			"COALESCE(SUM(CASE WHEN active = ? AND payment_status = ? THEN 1 ELSE 0 END), 0) AS pending",
			true, false, constants.EntityPaymentPending).
		Scan(&counts).Error
	return counts, err
}

// ListLatest 最近提交的项目
func (r *GormProjectRepository) ListLatest(limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 5
	}
	var projects []models.Project
	if err := r.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
