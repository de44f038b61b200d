package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/i18n"

	"github.com/gin-gonic/gin"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(cfg config.CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(cfg))
		r.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}
	serve := func(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/ping", nil)
		req.Header.Set("Origin", origin)
		if method == http.MethodOptions {
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		}
		r.ServeHTTP(w, req)
		return w
	}

	wildcard := newEngine(config.CORSConfig{})
	// 请求 Host 为 example.com，跨域来源必须使用不同的主机名
	w := serve(wildcard, http.MethodGet, "https://client.example.org")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %q", got)
	}

	withCredentials := newEngine(config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true})
	w = serve(withCredentials, http.MethodGet, "https://client.example.org")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://client.example.org" {
		t.Fatalf("wildcard with credentials should echo origin, got %q", got)
	}

	allowList := newEngine(config.CORSConfig{AllowedOrigins: []string{"https://a.example.com"}})
	w = serve(allowList, http.MethodGet, "https://a.example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %q", got)
	}
	w = serve(allowList, http.MethodGet, "https://x.example.com")
	if w.Code != http.StatusForbidden {
		t.Fatalf("unmatched origin should be rejected, got %d", w.Code)
	}

	w = serve(wildcard, http.MethodOptions, "https://client.example.org")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight should return 204, got %d", w.Code)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"https://a.example.com", "HTTPS://B.example.com"}
	if !isOriginAllowed("https://b.example.com", allowed) {
		t.Fatalf("origin match should be case-insensitive")
	}
	if isOriginAllowed("", []string{"*"}) {
		t.Fatalf("empty origin should not be allowed")
	}
	if !isOriginAllowed("https://any.example.com", []string{"*"}) {
		t.Fatalf("wildcard should allow any origin")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestLocaleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(LocaleMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, i18n.ResolveLocale(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping?lang=ru", nil)
	r.ServeHTTP(w, req)
	if w.Body.String() != i18n.LocaleRU {
		t.Fatalf("query lang want ru got %s", w.Body.String())
	}
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, i18n.CookieName+"=ru") {
		t.Fatalf("explicit lang should be written to cookie, got %q", cookie)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9")
	r.ServeHTTP(w, req)
	if w.Body.String() != i18n.LocaleUK {
		t.Fatalf("accept-language want uk got %s", w.Body.String())
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("implicit lang should not set cookie")
	}
	if w.Header().Get("Content-Language") != i18n.LocaleUK {
		t.Fatalf("content-language want uk got %s", w.Header().Get("Content-Language"))
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}
