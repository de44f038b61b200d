package i18n

import (
	"net/http/httptest"
	"testing"
)

type mapStore map[string]map[string]string

func (m mapStore) Lookup(lang, key string) (string, bool) {
	value, ok := m[lang][key]
	return value, ok
}

func TestTFallbackOrder(t *testing.T) {
	SetStore(mapStore{
		LocaleRU: {"site_name": "Стена логотипов"},
		LocaleEN: {"site_name": "Logo Wall", "tagline": "Crypto projects"},
	})
	t.Cleanup(func() { SetStore(nil) })

	if got := T(LocaleRU, "site_name"); got != "Стена логотипов" {
		t.Fatalf("expected store value for ru, got %s", got)
	}
	if got := T(LocaleRU, "tagline"); got != "Crypto projects" {
		t.Fatalf("expected english store fallback, got %s", got)
	}
	if got := T(LocaleUK, "error.not_found"); got != "Не знайдено." {
		t.Fatalf("expected builtin uk message, got %s", got)
	}
	if got := Get(LocaleUK, "missing.key", "Default text"); got != "Default text" {
		t.Fatalf("expected default, got %s", got)
	}
	if got := T(LocaleUK, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %s", got)
	}
}

func TestFromRequest(t *testing.T) {
	Configure([]string{"en", "ru", "uk"}, "en")

	req := httptest.NewRequest("GET", "/api/v1/logos?lang=uk", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	if lang, explicit := FromRequest(req); lang != LocaleUK || !explicit {
		t.Fatalf("expected explicit uk, got %s %v", lang, explicit)
	}

	req = httptest.NewRequest("GET", "/api/v1/logos", nil)
	req.Header.Set("Cookie", "lang=ru")
	req.Header.Set("Accept-Language", "uk")
	if lang, explicit := FromRequest(req); lang != LocaleRU || explicit {
		t.Fatalf("expected cookie ru, got %s %v", lang, explicit)
	}

	req = httptest.NewRequest("GET", "/api/v1/logos", nil)
	req.Header.Set("Accept-Language", "de-DE, uk-UA;q=0.8")
	if lang, _ := FromRequest(req); lang != LocaleUK {
		t.Fatalf("expected accept-language uk, got %s", lang)
	}

	req = httptest.NewRequest("GET", "/api/v1/logos?lang=fr", nil)
	if lang, explicit := FromRequest(req); lang != LocaleEN || explicit {
		t.Fatalf("expected default en, got %s %v", lang, explicit)
	}
}
