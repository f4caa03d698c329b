package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/logging"
)

func TestHealthCheck(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]PingFunc
		wantStatus int
		wantHealth string
	}{
		{name: "all healthy", checks: map[string]PingFunc{"mongodb": ok, "redis": ok}, wantStatus: http.StatusOK, wantHealth: "healthy"},
		{name: "redis down", checks: map[string]PingFunc{"mongodb": ok, "redis": down}, wantStatus: http.StatusServiceUnavailable, wantHealth: "unhealthy"},
		{name: "nil checks skipped", checks: map[string]PingFunc{"mongodb": nil}, wantStatus: http.StatusOK, wantHealth: "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandlers(tt.checks, logging.Nop())
			r := gin.New()
			r.GET("/v1/health", h.HealthCheck)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/v1/health", nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("expected status %q, got %q", tt.wantHealth, resp.Status)
			}
			if tt.wantHealth == "unhealthy" && resp.Services["redis"] != "unhealthy" {
				t.Errorf("expected redis to be reported unhealthy, got %v", resp.Services)
			}
		})
	}
}
