package i18n

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en"
	LocaleRU = "ru"
	LocaleUK = "uk"

	// ContextKey gin 上下文中保存当前语言的键
	ContextKey = "locale"
	// CookieName 语言 Cookie 名称
	CookieName = "lang"
	// QueryKey 语言查询参数
	QueryKey = "lang"
)

// Store 翻译存储（数据库翻译表）
type Store interface {
	Lookup(lang, key string) (string, bool)
}

var (
	storeMu   sync.RWMutex
	store     Store
	supported = []string{LocaleEN, LocaleRU, LocaleUK}
	fallback  = LocaleEN
)

// SetStore 注册翻译存储，未注册时仅使用内置文案
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	store = s
}

// Configure 设置支持的语言与默认语言
func Configure(languages []string, defaultLang string) {
	storeMu.Lock()
	defer storeMu.Unlock()
	list := make([]string, 0, len(languages))
	for _, lang := range languages {
		if lang = normalizeTag(lang); lang != "" {
			list = append(list, lang)
		}
	}
	if len(list) > 0 {
		supported = list
	}
	if lang := normalizeTag(defaultLang); lang != "" && contains(supported, lang) {
		fallback = lang
	}
}

// Supported 返回支持的语言列表
func Supported() []string {
	storeMu.RLock()
	defer storeMu.RUnlock()
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// Default 返回默认语言
func Default() string {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return fallback
}

// Normalize 将任意语言标记规整为受支持的语言，不支持时返回空字符串
func Normalize(raw string) string {
	lang := normalizeTag(raw)
	if lang == "" {
		return ""
	}
	storeMu.RLock()
	defer storeMu.RUnlock()
	if contains(supported, lang) {
		return lang
	}
	return ""
}

// T 翻译指定键
// 查找顺序：数据库(当前语言) -> 内置(当前语言) -> 数据库(en) -> 内置(en) -> 键本身
func T(locale, key string) string {
	if value, ok := lookup(locale, key); ok {
		return value
	}
	return key
}

// Get 翻译指定键，缺失时返回给定默认值
func Get(locale, key, def string) string {
	if value, ok := lookup(locale, key); ok {
		return value
	}
	if def != "" {
		return def
	}
	return key
}

// Sprintf 翻译后格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	storeMu.RLock()
	s := store
	storeMu.RUnlock()

	locale = normalizeTag(locale)
	candidates := []string{locale}
	if locale != LocaleEN {
		candidates = append(candidates, LocaleEN)
	}
	for _, lang := range candidates {
		if lang == "" {
			continue
		}
		if s != nil {
			if value, ok := s.Lookup(lang, key); ok && value != "" {
				return value, true
			}
		}
		if value, ok := builtin[lang][key]; ok {
			return value, true
		}
	}
	return "", false
}

// ResolveLocale 读取中间件写入的语言，未设置时按请求头推断
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return Default()
	}
	if value, ok := c.Get(ContextKey); ok {
		if lang, ok := value.(string); ok && lang != "" {
			return lang
		}
	}
	lang, _ := FromRequest(c.Request)
	return lang
}

// FromRequest 按 ?lang -> Cookie -> Accept-Language -> 默认语言 解析
// explicit 为 true 表示来自查询参数，调用方应写回 Cookie
func FromRequest(r *http.Request) (lang string, explicit bool) {
	if r == nil {
		return Default(), false
	}
	if lang = Normalize(r.URL.Query().Get(QueryKey)); lang != "" {
		return lang, true
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if lang = Normalize(cookie.Value); lang != "" {
			return lang, false
		}
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		if lang = Normalize(part); lang != "" {
			return lang, false
		}
	}
	return Default(), false
}

// normalizeTag 取语言标记前两位并转小写，例如 "ru-RU;q=0.9" -> "ru"
func normalizeTag(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, ";-_"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	if len(raw) < 2 {
		return ""
	}
	return raw[:2]
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
