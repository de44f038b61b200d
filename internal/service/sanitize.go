package service

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy    = bluemonday.StrictPolicy()
	telegramPattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{5,32}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)
)

// sanitizeText 去除 HTML 标签与首尾空白，并按字符数截断（maxLen<=0 不截断）
func sanitizeText(raw string, maxLen int) string {
	cleaned := html.UnescapeString(strictPolicy.Sanitize(strings.TrimSpace(raw)))
	cleaned = strings.TrimSpace(cleaned)
	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		cleaned = string([]rune(cleaned)[:maxLen])
	}
	return cleaned
}

func runeLenBetween(value string, min, max int) bool {
	n := utf8.RuneCountInString(value)
	return n >= min && n <= max
}

// normalizeWebsite 校验并规整项目网站地址，仅接受 http/https
func normalizeWebsite(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" || len(value) > 255 {
		return "", false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return "", false
	}
	return parsed.String(), true
}

// normalizeTelegram 校验 Telegram 用户名，统一带 @ 前缀；空值合法
func normalizeTelegram(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", true
	}
	if !telegramPattern.MatchString(value) {
		return "", false
	}
	return "@" + strings.TrimPrefix(value, "@"), true
}
