package repository

import (
	"errors"
	"strings"

	"github.com/cryptologowall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TranslationRepository 翻译数据访问接口
type TranslationRepository interface {
	GetByID(id uint) (*models.Translation, error)
	ListByLang(langCode string) ([]models.Translation, error)
	ListLanguages() ([]string, error)
	List(filter TranslationListFilter) ([]models.Translation, int64, error)
	Upsert(langCode, key, value string) (*models.Translation, error)
	Delete(id uint) error
}

// GormTranslationRepository GORM 实现
type GormTranslationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository 创建翻译仓库
func NewTranslationRepository(db *gorm.DB) *GormTranslationRepository {
	return &GormTranslationRepository{db: db}
}

// GetByID 根据 ID 获取翻译
func (r *GormTranslationRepository) GetByID(id uint) (*models.Translation, error) {
	var row models.Translation
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByLang 获取某语言全部翻译
func (r *GormTranslationRepository) ListByLang(langCode string) ([]models.Translation, error) {
	var rows []models.Translation
	if err := r.db.Where("lang_code = ?", langCode).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLanguages 获取已有翻译的语言代码
func (r *GormTranslationRepository) ListLanguages() ([]string, error) {
	var langs []string
	if err := r.db.Model(&models.Translation{}).Distinct("lang_code").Order("lang_code asc").Pluck("lang_code", &langs).Error; err != nil {
		return nil, err
	}
	return langs, nil
}

// List 后台翻译列表
func (r *GormTranslationRepository) List(filter TranslationListFilter) ([]models.Translation, int64, error) {
	query := r.db.Model(&models.Translation{})
	if filter.LangCode != "" {
		query = query.Where("lang_code = ?", filter.LangCode)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, "translation_key", "translation_value")
		query = query.Where(condition, repeatLikeArgs("%"+keyword+"%", argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Translation
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("translation_key asc, lang_code asc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Upsert 按 (语言, 键) 新增或覆盖翻译
func (r *GormTranslationRepository) Upsert(langCode, key, value string) (*models.Translation, error) {
	row := models.Translation{LangCode: langCode, Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lang_code"}, {Name: "translation_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"translation_value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	var saved models.Translation
	if err := r.db.Where("lang_code = ? AND translation_key = ?", langCode, key).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete 删除翻译
func (r *GormTranslationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Translation{}, id).Error
}
