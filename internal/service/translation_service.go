package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"
)

const translationLocalTTL = time.Minute

var translationKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,191}$`)

// LanguageOption 可选语言
type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UpsertTranslationInput 新增或覆盖翻译
type UpsertTranslationInput struct {
	LangCode string
	Key      string
	Value    string
}

type translationBundle struct {
	values   map[string]string
	loadedAt time.Time
}

// TranslationService 翻译服务，同时作为 i18n 的数据库翻译源
type TranslationService struct {
	repo        repository.TranslationRepository
	activitySvc *ActivityService

	mu      sync.RWMutex
	bundles map[string]translationBundle
}

// NewTranslationService 创建翻译服务
func NewTranslationService(repo repository.TranslationRepository, activitySvc *ActivityService) *TranslationService {
	return &TranslationService{
		repo:        repo,
		activitySvc: activitySvc,
		bundles:     make(map[string]translationBundle),
	}
}

// Lookup 实现 i18n.Store
func (s *TranslationService) Lookup(lang, key string) (string, bool) {
	values, err := s.dbBundle(context.Background(), lang)
	if err != nil {
		return "", false
	}
	value, ok := values[key]
	return value, ok
}

// Bundle 获取某语言完整翻译包：内置文案被数据库翻译覆盖，缺失键回退到英文
func (s *TranslationService) Bundle(ctx context.Context, lang string) (map[string]string, error) {
	lang = i18n.Normalize(lang)
	if lang == "" {
		return nil, ErrLangInvalid
	}
	builtin := i18n.Builtin()
	out := make(map[string]string)
	layers := []string{constants.LangEnglish}
	if lang != constants.LangEnglish {
		layers = append(layers, lang)
	}
	for _, layer := range layers {
		for key, value := range builtin[layer] {
			out[key] = value
		}
		values, err := s.dbBundle(ctx, layer)
		if err != nil {
			return nil, err
		}
		for key, value := range values {
			if value != "" {
				out[key] = value
			}
		}
	}
	return out, nil
}

// Languages 返回支持的语言及显示名称
func (s *TranslationService) Languages() []LanguageOption {
	supported := i18n.Supported()
	options := make([]LanguageOption, 0, len(supported))
	for _, code := range supported {
		name := constants.LanguageNames[code]
		if name == "" {
			name = strings.ToUpper(code)
		}
		options = append(options, LanguageOption{Code: code, Name: name})
	}
	return options
}

// List 后台翻译列表
func (s *TranslationService) List(filter repository.TranslationListFilter) ([]models.Translation, int64, error) {
	if filter.LangCode != "" {
		filter.LangCode = i18n.Normalize(filter.LangCode)
		if filter.LangCode == "" {
			return nil, 0, ErrLangInvalid
		}
	}
	return s.repo.List(filter)
}

// Upsert 新增或覆盖翻译
func (s *TranslationService) Upsert(ctx context.Context, input UpsertTranslationInput, actor ActorContext) (*models.Translation, error) {
	lang := i18n.Normalize(input.LangCode)
	if lang == "" {
		return nil, ErrLangInvalid
	}
	key := strings.TrimSpace(input.Key)
	if !translationKeyPattern.MatchString(key) {
		return nil, ErrTranslationInvalid
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, ErrTranslationInvalid
	}
	row, err := s.repo.Upsert(lang, key, value)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, lang)
	s.activitySvc.Record(actor, constants.ActivityUpsertTranslation, constants.EntityTypeTranslation, row.ID)
	return row, nil
}

// Delete 删除翻译
func (s *TranslationService) Delete(ctx context.Context, id uint, actor ActorContext) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrTranslationNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, row.LangCode)
	s.activitySvc.Record(actor, constants.ActivityDeleteTranslation, constants.EntityTypeTranslation, id)
	return nil
}

func (s *TranslationService) dbBundle(ctx context.Context, lang string) (map[string]string, error) {
	now := time.Now()
	s.mu.RLock()
	bundle, ok := s.bundles[lang]
	s.mu.RUnlock()
	if ok && now.Sub(bundle.loadedAt) <= translationLocalTTL {
		return bundle.values, nil
	}

	values := make(map[string]string)
	hit, err := cache.GetJSON(ctx, cache.I18nKey(lang), &values)
	if err != nil {
		logger.Warnw("i18n_cache_read_failed", "lang", lang, "error", err)
	}
	if !hit {
		rows, err := s.repo.ListByLang(lang)
		if err != nil {
			return nil, err
		}
		values = make(map[string]string, len(rows))
		for _, row := range rows {
			values[row.Key] = row.Value
		}
		if err := cache.SetJSON(ctx, cache.I18nKey(lang), values, cache.I18nTTL); err != nil {
			logger.Warnw("i18n_cache_write_failed", "lang", lang, "error", err)
		}
	}

	s.mu.Lock()
	s.bundles[lang] = translationBundle{values: values, loadedAt: now}
	s.mu.Unlock()
	return values, nil
}

func (s *TranslationService) invalidate(ctx context.Context, lang string) {
	s.mu.Lock()
	delete(s.bundles, lang)
	s.mu.Unlock()
	if err := cache.Del(ctx, cache.I18nKey(lang)); err != nil {
		logger.Warnw("i18n_cache_invalidate_failed", "lang", lang, "error", err)
	}
}
