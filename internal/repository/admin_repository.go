package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/cryptologowall/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 后台账号数据访问接口
type AdminRepository interface {
	GetByUsername(username string) (*models.Admin, error)
	GetByID(id uint) (*models.Admin, error)
	List() ([]models.Admin, error)
	ExistsUsername(username string, excludeID uint) (bool, error)
	ExistsEmail(email string, excludeID uint) (bool, error)
	Create(admin *models.Admin) error
	Update(admin *models.Admin) error
	RecordLoginFailure(id uint, attempts int, lockedUntil *time.Time) error
	RecordLoginSuccess(id uint, at time.Time) error
	Delete(id uint) error
}

// GormAdminRepository GORM 实现
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建后台账号仓库
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByUsername 根据用户名获取账号
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", strings.TrimSpace(username)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByID 根据 ID 获取账号
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// List 获取账号列表（按用户名排序）
func (r *GormAdminRepository) List() ([]models.Admin, error) {
	admins := make([]models.Admin, 0)
	if err := r.db.Order("username ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// ExistsUsername 检查用户名是否被其他账号占用
func (r *GormAdminRepository) ExistsUsername(username string, excludeID uint) (bool, error) {
	return r.exists("username = ?", username, excludeID)
}

// ExistsEmail 检查邮箱是否被其他账号占用
func (r *GormAdminRepository) ExistsEmail(email string, excludeID uint) (bool, error) {
	return r.exists("email = ?", email, excludeID)
}

func (r *GormAdminRepository) exists(cond string, value string, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Admin{}).Where(cond, value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建账号
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

// Update 更新账号
func (r *GormAdminRepository) Update(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

// RecordLoginFailure 记录登录失败次数与锁定时间
func (r *GormAdminRepository) RecordLoginFailure(id uint, attempts int, lockedUntil *time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Updates(map[string]interface{}{
		"login_attempts": attempts,
		"locked_until":   lockedUntil,
	}).Error
}

// RecordLoginSuccess 重置失败计数并记录登录时间
func (r *GormAdminRepository) RecordLoginSuccess(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Updates(map[string]interface{}{
		"login_attempts": 0,
		"locked_until":   nil,
		"last_login_at":  at,
	}).Error
}

// Delete 删除账号
func (r *GormAdminRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Admin{}, id).Error
}
