package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-boarding/internal/config"
)

func rateKeyFor(t *testing.T, strategy string, userID interface{}) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/manifests", nil)
	req.RemoteAddr = "192.0.2.10:4321"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/manifests")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
}

func TestBuildRateKeyDefaultOmitsUser(t *testing.T) {
	// The limiter runs before authentication, so the default strategy must
	// not fold every caller into one "anon" user bucket.
	key := rateKeyFor(t, "ip_route", nil)
	want := "rl:ip:192.0.2.10:route:GET /v1/manifests"
	if key != want {
		t.Errorf("key = %q, want %q", key, want)
	}
	if strings.Contains(key, "anon") {
		t.Errorf("default key %q contains a user component", key)
	}
	if rateKeyFor(t, "", nil) != key {
		t.Error("empty strategy does not fall back to ip_route")
	}
}

func TestBuildRateKeyUserScopedStrategies(t *testing.T) {
	a := rateKeyFor(t, "user_route", float64(1))
	b := rateKeyFor(t, "user_route", float64(2))
	if a == b {
		t.Error("user_route buckets two agents together")
	}
	if got := rateKeyFor(t, "user", float64(7)); got != "rl:user:7" {
		t.Errorf("user key = %q, want rl:user:7", got)
	}
}
