package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/middleware"
)

func corsRequest(t *testing.T, cfg *config.CORSConfig, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	wrapped := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func TestCORS_Disabled(t *testing.T) {
	cfg := &config.CORSConfig{Enabled: false, Origins: []string{"http://example.com"}}

	rec := corsRequest(t, cfg, "GET", "http://example.com")
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set when disabled")
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}

	rec := corsRequest(t, cfg, "GET", "http://example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("unexpected methods header %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("unexpected headers header %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := &config.CORSConfig{Enabled: true, Origins: []string{"http://example.com"}}

	rec := corsRequest(t, cfg, "GET", "http://malicious.com")
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers should not be set for a disallowed origin")
	}
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := &config.CORSConfig{Enabled: true, Origins: []string{"*"}}

	rec := corsRequest(t, cfg, "GET", "http://anything.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://anything.example" {
		t.Errorf("wildcard should echo the origin, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"POST"},
		MaxAge:         600,
	}

	rec := corsRequest(t, cfg, "OPTIONS", "http://example.com")

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight should return 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("unexpected max age %q", got)
	}
}

func TestCORS_Credentials(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://example.com"},
		AllowCredentials: true,
	}

	rec := corsRequest(t, cfg, "GET", "http://example.com")
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials header")
	}
}
