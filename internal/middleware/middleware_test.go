package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/r-yvan/healify/internal/auth"
	"github.com/r-yvan/healify/internal/middleware"
	"github.com/r-yvan/healify/internal/model"
)

const secret = "test-secret"

func protectedEcho(role model.Role) *echo.Echo {
	e := echo.New()
	grp := e.Group("/api", middleware.Auth(secret), middleware.RequireRole(role))
	grp.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, middleware.Identity(c).UserID)
	})
	return e
}

func bearerFor(t *testing.T, role model.Role) string {
	t.Helper()
	tok, err := auth.MakeToken(&model.User{ID: "uid-1", Email: "u@x.com", Role: role}, secret)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	return "Bearer " + tok
}

func TestAuthRejectsMissingToken(t *testing.T) {
	e := protectedEcho(model.RolePatient)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthPassesValidToken(t *testing.T) {
	e := protectedEcho(model.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, model.RolePatient))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "uid-1" {
		t.Errorf("identity not propagated: %s", rec.Body.String())
	}
}

func TestRequireRoleBlocksOtherRole(t *testing.T) {
	e := protectedEcho(model.RoleDoctor)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, bearerFor(t, model.RolePatient))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 2)

	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.RateLimit(rl))

	codes := []int{}
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass: %v", codes)
	}
	if codes[3] != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %v", codes)
	}
}
