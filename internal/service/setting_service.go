package service

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"

	"github.com/shopspring/decimal"
)

const defaultEntityPrice = "1.00"

// GeneralSetting 站点基础设置
type GeneralSetting struct {
	SiteName    string `json:"site_name"`
	Tagline     string `json:"tagline"`
	AdminEmail  string `json:"admin_email"`
	DefaultLang string `json:"default_lang"`
	LogoPrice   string `json:"logo_price"`
	ReviewPrice string `json:"review_price"`
}

// SEOSetting 搜索引擎相关设置
type SEOSetting struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	OGImage         string `json:"og_image"`
}

// IntegrationSetting 第三方集成设置
type IntegrationSetting struct {
	GoogleAnalyticsID string `json:"google_analytics_id"`
	TelegramChannel   string `json:"telegram_channel"`
	TwitterHandle     string `json:"twitter_handle"`
}

// SiteSetting 全部站点设置
type SiteSetting struct {
	General      GeneralSetting     `json:"general"`
	SEO          SEOSetting         `json:"seo"`
	Integrations IntegrationSetting `json:"integrations"`
}

// PublicSiteSetting 对访客公开的站点信息
type PublicSiteSetting struct {
	SiteName     string             `json:"site_name"`
	Tagline      string             `json:"tagline"`
	DefaultLang  string             `json:"default_lang"`
	Languages    []string           `json:"languages"`
	LogoPrice    string             `json:"logo_price"`
	ReviewPrice  string             `json:"review_price"`
	SEO          SEOSetting         `json:"seo"`
	Integrations IntegrationSetting `json:"integrations"`
}

// SettingService 设置业务服务
type SettingService struct {
	repo repository.SettingRepository
	cfg  *config.Config

	mu     sync.RWMutex
	local  map[string]json.RawMessage
	stamps map[string]time.Time
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository, cfg *config.Config) *SettingService {
	return &SettingService{
		repo:   repo,
		cfg:    cfg,
		local:  make(map[string]json.RawMessage),
		stamps: make(map[string]time.Time),
	}
}

// DefaultGeneralSetting 基于启动配置的默认基础设置
func (s *SettingService) DefaultGeneralSetting() GeneralSetting {
	setting := GeneralSetting{
		SiteName:    "CryptoLogoWall",
		DefaultLang: constants.DefaultLang,
		LogoPrice:   defaultEntityPrice,
		ReviewPrice: defaultEntityPrice,
	}
	if s != nil && s.cfg != nil {
		if name := strings.TrimSpace(s.cfg.Site.Name); name != "" {
			setting.SiteName = name
		}
		if lang := i18n.Normalize(s.cfg.Site.DefaultLang); lang != "" {
			setting.DefaultLang = lang
		}
	}
	return setting
}

// GetGeneral 获取基础设置（合并默认值）
func (s *SettingService) GetGeneral() (GeneralSetting, error) {
	setting := s.DefaultGeneralSetting()
	if err := s.load(constants.SettingKeyGeneral, &setting); err != nil {
		return s.DefaultGeneralSetting(), err
	}
	return normalizeGeneralSetting(setting, s.DefaultGeneralSetting()), nil
}

// GetSEO 获取 SEO 设置
func (s *SettingService) GetSEO() (SEOSetting, error) {
	var setting SEOSetting
	if err := s.load(constants.SettingKeySEO, &setting); err != nil {
		return SEOSetting{}, err
	}
	return normalizeSEOSetting(setting), nil
}

// GetIntegrations 获取集成设置
func (s *SettingService) GetIntegrations() (IntegrationSetting, error) {
	var setting IntegrationSetting
	if err := s.load(constants.SettingKeyIntegrations, &setting); err != nil {
		return IntegrationSetting{}, err
	}
	return normalizeIntegrationSetting(setting), nil
}

// GetSiteSetting 获取全部设置
func (s *SettingService) GetSiteSetting() (SiteSetting, error) {
	general, err := s.GetGeneral()
	if err != nil {
		return SiteSetting{}, err
	}
	seo, err := s.GetSEO()
	if err != nil {
		return SiteSetting{}, err
	}
	integrations, err := s.GetIntegrations()
	if err != nil {
		return SiteSetting{}, err
	}
	return SiteSetting{General: general, SEO: seo, Integrations: integrations}, nil
}

// GetPublic 获取对访客公开的设置
func (s *SettingService) GetPublic() (PublicSiteSetting, error) {
	setting, err := s.GetSiteSetting()
	if err != nil {
		return PublicSiteSetting{}, err
	}
	return PublicSiteSetting{
		SiteName:     setting.General.SiteName,
		Tagline:      setting.General.Tagline,
		DefaultLang:  setting.General.DefaultLang,
		Languages:    i18n.Supported(),
		LogoPrice:    setting.General.LogoPrice,
		ReviewPrice:  setting.General.ReviewPrice,
		SEO:          setting.SEO,
		Integrations: setting.Integrations,
	}, nil
}

// PriceFor 获取实体对应的付费金额
func (s *SettingService) PriceFor(kind EntityKind) (models.Money, error) {
	general, err := s.GetGeneral()
	if err != nil {
		return models.Money{}, err
	}
	raw := general.LogoPrice
	if kind == EntityReview {
		raw = general.ReviewPrice
	}
	amount, err := models.ParseMoney(raw)
	if err != nil || !amount.GreaterThan(decimal.Zero) {
		return models.Money{}, ErrPriceInvalid
	}
	return amount, nil
}

// UpdateGeneral 更新基础设置
func (s *SettingService) UpdateGeneral(input GeneralSetting) (GeneralSetting, error) {
	setting := normalizeGeneralSetting(input, s.DefaultGeneralSetting())
	if strings.TrimSpace(input.SiteName) == "" {
		return GeneralSetting{}, ErrSiteNameRequired
	}
	if setting.AdminEmail != "" {
		if _, err := mail.ParseAddress(setting.AdminEmail); err != nil {
			return GeneralSetting{}, ErrAdminEmailInvalid
		}
	}
	if !isPositivePrice(input.LogoPrice) || !isPositivePrice(input.ReviewPrice) {
		return GeneralSetting{}, ErrPriceInvalid
	}
	if lang := strings.TrimSpace(input.DefaultLang); lang != "" && i18n.Normalize(lang) == "" {
		return GeneralSetting{}, ErrLangInvalid
	}
	if err := s.save(constants.SettingKeyGeneral, setting); err != nil {
		return GeneralSetting{}, err
	}
	return setting, nil
}

// UpdateSEO 更新 SEO 设置
func (s *SettingService) UpdateSEO(input SEOSetting) (SEOSetting, error) {
	setting := normalizeSEOSetting(input)
	if err := s.save(constants.SettingKeySEO, setting); err != nil {
		return SEOSetting{}, err
	}
	return setting, nil
}

// UpdateIntegrations 更新集成设置
func (s *SettingService) UpdateIntegrations(input IntegrationSetting) (IntegrationSetting, error) {
	setting := normalizeIntegrationSetting(input)
	if err := s.save(constants.SettingKeyIntegrations, setting); err != nil {
		return IntegrationSetting{}, err
	}
	return setting, nil
}

func (s *SettingService) load(key string, dest interface{}) error {
	raw, ok, err := s.raw(key)
	if err != nil || !ok {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *SettingService) raw(key string) (json.RawMessage, bool, error) {
	now := time.Now()
	s.mu.RLock()
	if stamp, ok := s.stamps[key]; ok && now.Sub(stamp) <= cache.SettingsTTL {
		raw := s.local[key]
		s.mu.RUnlock()
		return raw, raw != nil, nil
	}
	s.mu.RUnlock()

	ctx := context.Background()
	var cached json.RawMessage
	if hit, err := cache.GetJSON(ctx, cache.SettingsKey(key), &cached); err != nil {
		logger.Warnw("setting_cache_read_failed", "key", key, "error", err)
	} else if hit {
		s.remember(key, cached, now)
		return cached, cached != nil, nil
	}

	row, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, false, err
	}
	var raw json.RawMessage
	if row != nil && row.ValueJSON != nil {
		raw, err = json.Marshal(row.ValueJSON)
		if err != nil {
			return nil, false, err
		}
		if err := cache.SetJSON(ctx, cache.SettingsKey(key), raw, cache.SettingsTTL); err != nil {
			logger.Warnw("setting_cache_write_failed", "key", key, "error", err)
		}
	}
	s.remember(key, raw, now)
	return raw, raw != nil, nil
}

func (s *SettingService) remember(key string, raw json.RawMessage, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[key] = raw
	s.stamps[key] = at
}

func (s *SettingService) save(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var data models.JSON
	if err := json.Unmarshal(payload, &data); err != nil {
		return err
	}
	if _, err := s.repo.Upsert(key, data); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.stamps, key)
	delete(s.local, key)
	s.mu.Unlock()
	if err := cache.Del(context.Background(), cache.SettingsKey(key)); err != nil {
		logger.Warnw("setting_cache_invalidate_failed", "key", key, "error", err)
	}
	return nil
}

func normalizeGeneralSetting(input GeneralSetting, defaults GeneralSetting) GeneralSetting {
	out := GeneralSetting{
		SiteName:    sanitizeText(input.SiteName, 100),
		Tagline:     sanitizeText(input.Tagline, 255),
		AdminEmail:  strings.TrimSpace(input.AdminEmail),
		DefaultLang: i18n.Normalize(input.DefaultLang),
		LogoPrice:   normalizePrice(input.LogoPrice),
		ReviewPrice: normalizePrice(input.ReviewPrice),
	}
	if out.SiteName == "" {
		out.SiteName = defaults.SiteName
	}
	if out.DefaultLang == "" {
		out.DefaultLang = defaults.DefaultLang
	}
	if out.LogoPrice == "" {
		out.LogoPrice = defaults.LogoPrice
	}
	if out.ReviewPrice == "" {
		out.ReviewPrice = defaults.ReviewPrice
	}
	return out
}

func normalizeSEOSetting(input SEOSetting) SEOSetting {
	return SEOSetting{
		MetaTitle:       sanitizeText(input.MetaTitle, 120),
		MetaDescription: sanitizeText(input.MetaDescription, 320),
		MetaKeywords:    sanitizeText(input.MetaKeywords, 255),
		OGImage:         strings.TrimSpace(input.OGImage),
	}
}

func normalizeIntegrationSetting(input IntegrationSetting) IntegrationSetting {
	return IntegrationSetting{
		GoogleAnalyticsID: strings.TrimSpace(input.GoogleAnalyticsID),
		TelegramChannel:   strings.TrimSpace(input.TelegramChannel),
		TwitterHandle:     strings.TrimSpace(input.TwitterHandle),
	}
}

func normalizePrice(raw string) string {
	amount, err := models.ParseMoney(strings.TrimSpace(raw))
	if err != nil || !amount.GreaterThan(decimal.Zero) {
		return ""
	}
	return amount.String()
}

func isPositivePrice(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	return normalizePrice(raw) != ""
}
