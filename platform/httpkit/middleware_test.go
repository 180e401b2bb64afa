package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type jwtConfig struct{}

func (jwtConfig) GetJWTAccessSecret() string { return "secret" }

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthRequired(jwtConfig{}), RequireRole("admin"), func(c *gin.Context) {
		OK(c, gin.H{"user": GetUserID(c)})
	})
	return r
}

func accessToken(t *testing.T, roles []string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "ops@example.com",
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthErrorsUseDomainErrorBodies(t *testing.T) {
	r := newAuthEngine()

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing token", "", http.StatusUnauthorized, `{"error":"missing token"}`},
		{"wrong secret", "Bearer abc.def.ghi", http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"no admin role", "Bearer " + accessToken(t, []string{"viewer"}), http.StatusForbidden, `{"error":"forbidden"}`},
		{"admin", "Bearer " + accessToken(t, []string{"admin"}), http.StatusOK, `{"user":"ops@example.com"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status || w.Body.String() != tc.body {
			t.Fatalf("%s: expected %d %s, got %d %s", tc.name, tc.status, tc.body, w.Code, w.Body.String())
		}
	}
}
