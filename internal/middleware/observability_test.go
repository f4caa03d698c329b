package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// captureLogs swaps the global logger for an observer for the test's duration
func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logging.Logger
	logging.Logger = logging.NewSafeLogger(zap.New(core))
	t.Cleanup(func() { logging.Logger = previous })
	return logs
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	w := serve(router, http.MethodGet, "/test")
	if seen == "" {
		t.Fatal("RequestID() did not set an id")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("X-Request-ID = %q, want %q", got, seen)
	}

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if seen != "upstream-id" || w.Header().Get("X-Request-ID") != "upstream-id" {
		t.Errorf("RequestID() did not keep the upstream id, got %q", seen)
	}
}

func TestRequestTracker_BalancesGauge(t *testing.T) {
	router := gin.New()
	router.Use(RequestTracker())

	before := testutil.ToFloat64(observability.ActiveConnections)
	var during float64
	router.GET("/test", func(c *gin.Context) {
		during = testutil.ToFloat64(observability.ActiveConnections)
		c.Status(http.StatusOK)
	})

	serve(router, http.MethodGet, "/test")
	if during != before+1 {
		t.Errorf("active connections during request = %v, want %v", during, before+1)
	}
	if after := testutil.ToFloat64(observability.ActiveConnections); after != before {
		t.Errorf("active connections after request = %v, want %v", after, before)
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/test", func(c *gin.Context) {
		_ = c.Error(http.ErrAbortHandler)
		c.Status(http.StatusTeapot)
	})

	if w := serve(router, http.MethodGet, "/test"); w.Code != http.StatusTeapot {
		t.Errorf("RequestLogger() status = %v, want %v", w.Code, http.StatusTeapot)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(http.StatusNotFound); got != "404" {
		t.Errorf("statusLabel() = %q, want 404", got)
	}
}

func TestRequestFlow(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/v1/onboarding/steps", "wizard"},
		{"/v1/onboarding/steps/:step/validate", "wizard"},
		{"/v1/onboarding/review", "wizard"},
		{"/v1/registrations", "wizard"},
		{"/v1/address/cep/:cep", "address_autofill"},
		{"/v1/admin/cnpj/:cnpj", "cnpj_lookup"},
		{"/v1/admin/registrations/:id", "admin"},
		{"/v1/admin/registrations/stream", "admin"},
		{"/v1/health", "system"},
		{"/metrics", "system"},
		{"", "unmatched"},
	}

	for _, tt := range tests {
		if got := requestFlow(tt.route); got != tt.want {
			t.Errorf("requestFlow(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestRequestLogger_RecordsFlowAndCaller(t *testing.T) {
	logs := captureLogs(t)

	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/v1/admin/registrations/:id", func(c *gin.Context) {
		c.Set(identityKey, models.Identity{ID: "user-7", Email: "ops@novasolidum.com.br"})
		c.Status(http.StatusOK)
	})
	router.POST("/v1/registrations", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	serve(router, http.MethodGet, "/v1/admin/registrations/abc")
	serve(router, http.MethodPost, "/v1/registrations")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}

	read := entries[0].ContextMap()
	if read["flow"] != "admin" || read["user_id"] != "user-7" {
		t.Errorf("admin read fields = %v, want flow admin and user_id user-7", read)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("admin read level = %v, want info", entries[0].Level)
	}

	failed := entries[1].ContextMap()
	if failed["flow"] != "wizard" {
		t.Errorf("submit flow = %v, want wizard", failed["flow"])
	}
	if _, ok := failed["user_id"]; ok {
		t.Error("anonymous submit should not log a user_id")
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].Message != "request failed" {
		t.Errorf("server error logged as %v %q, want error \"request failed\"", entries[1].Level, entries[1].Message)
	}
}
