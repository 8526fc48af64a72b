package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-boarding/internal/config"
)

func cacheKeyFor(t *testing.T, userID interface{}, target string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	// Manifest routes share one pattern; the key must not collapse to it.
	c.SetPath("/v1/manifests/:id/sequence")
	if userID != nil {
		c.Set("user_id", userID)
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	// claims["sub"] arrives as float64 from the JWT middleware
	a := cacheKeyFor(t, float64(1), "/v1/manifests")
	b := cacheKeyFor(t, float64(2), "/v1/manifests")
	if a == b {
		t.Error("two agents share one cache key for the same URL")
	}
	anon := cacheKeyFor(t, nil, "/v1/manifests")
	if anon == a || anon == b {
		t.Error("unauthenticated key collides with an agent's key")
	}
}

func TestCacheKeySeparatesManifestPaths(t *testing.T) {
	a := cacheKeyFor(t, float64(1), "/v1/manifests/1/sequence")
	b := cacheKeyFor(t, float64(1), "/v1/manifests/2/sequence")
	if a == b {
		t.Error("different manifest ids share one cache key")
	}
}

func TestCacheKeyStableForSameRequest(t *testing.T) {
	a := cacheKeyFor(t, float64(1), "/v1/manifests?limit=5")
	b := cacheKeyFor(t, float64(1), "/v1/manifests?limit=5")
	if a != b {
		t.Errorf("key is not deterministic: %q vs %q", a, b)
	}
	c := cacheKeyFor(t, float64(1), "/v1/manifests?limit=10")
	if a == c {
		t.Error("different query strings share one cache key")
	}
}

func TestNewRedisCacheNilClientPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	mw := NewRedisCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/manifests", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("middleware returned %v", err)
	}
	if !called {
		t.Error("handler was not reached without a redis client")
	}
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Errorf("X-Cache = %q, want unset when caching is off", got)
	}
}
