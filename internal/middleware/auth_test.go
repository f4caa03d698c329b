package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nova-solidum/app-onboarding/internal/config"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

func signToken(t *testing.T, claims models.IdentityClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func userClaims(subject, email string) models.IdentityClaims {
	return models.IdentityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func identityRouter(secret string, middlewares ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware(secret))
	router.Use(middlewares...)
	router.GET("/test", func(c *gin.Context) {
		identity, err := IdentityFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	return router
}

func doRequest(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	valid := signToken(t, userClaims("user-1", "user@example.com"), testSecret)
	wrongKey := signToken(t, userClaims("user-1", "user@example.com"), "other-secret")

	expiredClaims := userClaims("user-1", "user@example.com")
	expiredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	expired := signToken(t, expiredClaims, testSecret)

	noSubject := signToken(t, userClaims("", "user@example.com"), testSecret)

	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"valid signed token", testSecret, "Bearer " + valid, http.StatusOK},
		{"missing header", testSecret, "", http.StatusUnauthorized},
		{"basic scheme", testSecret, "Basic abc", http.StatusUnauthorized},
		{"wrong signing key", testSecret, "Bearer " + wrongKey, http.StatusUnauthorized},
		{"expired token", testSecret, "Bearer " + expired, http.StatusUnauthorized},
		{"token without subject", testSecret, "Bearer " + noSubject, http.StatusUnauthorized},
		{"garbage token", testSecret, "Bearer not.a.token", http.StatusUnauthorized},
		{"gateway verified token", "", "Bearer " + wrongKey, http.StatusOK},
		{"gateway mode still parses", "", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(identityRouter(tt.secret), tt.header)
			if w.Code != tt.want {
				t.Errorf("AuthMiddleware() status = %v, want %v (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, userClaims("user-1", "user@example.com")).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	w := doRequest(identityRouter(testSecret), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("AuthMiddleware() HS512 status = %v, want %v", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdmin(t *testing.T) {
	allowlist := config.ParseAdminAllowlist("admin@novasolidum.com, ops@novasolidum.com")

	tests := []struct {
		name      string
		allowlist config.AdminAllowlist
		email     string
		want      int
	}{
		{"listed admin", allowlist, "admin@novasolidum.com", http.StatusOK},
		{"listed admin different case", allowlist, "Ops@NovaSolidum.com", http.StatusOK},
		{"regular user", allowlist, "user@example.com", http.StatusForbidden},
		{"empty email", allowlist, "", http.StatusForbidden},
		{"allowlist not configured", config.AdminAllowlist{}, "admin@novasolidum.com", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := identityRouter(testSecret, RequireAdmin(tt.allowlist))
			token := signToken(t, userClaims("user-1", tt.email), testSecret)
			w := doRequest(router, "Bearer "+token)
			if w.Code != tt.want {
				t.Errorf("RequireAdmin() status = %v, want %v", w.Code, tt.want)
			}
		})
	}
}

func TestRequireAdmin_WithoutIdentity(t *testing.T) {
	router := gin.New()
	router.Use(RequireAdmin(config.ParseAdminAllowlist("admin@novasolidum.com")))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(router, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("RequireAdmin() status = %v, want %v", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_WarnsWithoutSecret(t *testing.T) {
	logs := captureLogs(t)

	AuthMiddleware(testSecret)
	if n := logs.FilterMessageSnippet("JWT_SECRET is not set").Len(); n != 0 {
		t.Errorf("warned %d times with a secret, want 0", n)
	}

	AuthMiddleware("")
	warnings := logs.FilterMessageSnippet("JWT_SECRET is not set").All()
	if len(warnings) != 1 || warnings[0].Level != zapcore.WarnLevel {
		t.Errorf("got %v, want one warning when mounted without a secret", warnings)
	}
}
