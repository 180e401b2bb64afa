package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string             { return ":0" }
func (testConfig) GetCORSAllowAll() bool           { return false }
func (testConfig) GetCORSOrigins() []string        { return []string{"http://localhost:3000"} }
func (testConfig) GetCORSAllowCreds() bool         { return false }
func (testConfig) GetQueryRateLimitPerMinute() int { return 0 }
func (testConfig) GetJWTAccessSecret() string      { return "test-secret" }

type fakeCheck struct {
	name string
	err  error
}

func (f fakeCheck) Name() string                   { return f.name }
func (f fakeCheck) Ping(ctx context.Context) error { return f.err }

type adminProbe struct{}

func (adminProbe) Name() string { return "probe" }
func (adminProbe) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/probe", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
}

func newTestEngine(checks ...apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Discard(),
		Health:  checks,
		Modules: []apphttp.Module{adminProbe{}},
	})
}

func TestHealthOK(t *testing.T) {
	engine := newTestEngine(fakeCheck{name: "postgres"})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("expected ok health, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestHealthDegraded(t *testing.T) {
	engine := newTestEngine(fakeCheck{name: "postgres", err: errors.New("down")})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "postgres") {
		t.Fatalf("expected degraded health, got %d %s", rec.Code, rec.Body.String())
	}
}

func signToken(t *testing.T, roles []string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "ops@example.com",
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	engine := newTestEngine()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"viewer role", "Bearer " + signToken(t, []string{"viewer"}), http.StatusForbidden},
		{"admin role", "Bearer " + signToken(t, []string{"admin"}), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/probe", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}
