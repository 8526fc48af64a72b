package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-boarding/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTAuth(testSecret)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuth_ValidToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 42, "AGENT", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, c := runJWT(t, "Bearer "+access.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got, ok := c.Get("user_id").(float64); !ok || uint64(got) != 42 {
		t.Errorf("user_id in context = %v, want 42", c.Get("user_id"))
	}
	if role, ok := c.Get("role").(string); !ok || role != "AGENT" {
		t.Errorf("role in context = %v, want AGENT", c.Get("role"))
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	wrongSecret, err := utils.NewAccessToken("other-secret", 42, "AGENT", 5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, err := utils.NewAccessToken(testSecret, 42, "AGENT", -5)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrongSecret.Token},
		{"expired token", "Bearer " + expired.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runJWT(t, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       interface{}
		wantStatus int
	}{
		{"allowed role", "AGENT", http.StatusOK},
		{"other allowed role", "SUPERVISOR", http.StatusOK},
		{"unknown role", "VISITOR", http.StatusForbidden},
		{"missing role", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/manifests", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			mw := RequireRole("AGENT", "SUPERVISOR")
			handler := mw(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
