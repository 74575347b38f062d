package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiguard/pkg/errors"
	"sentiguard/pkg/logger"
)

func ok(context.Context) error      { return nil }
func failing(context.Context) error { return errors.New("connection refused") }

func TestHandler_Liveness(t *testing.T) {
	h := New(logger.NewNop(), "sentiguard", "test", Check{Name: "analysis_service", Probe: failing})

	rec := httptest.NewRecorder()
	h.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all healthy",
			checks:     []Check{{Name: "analysis_service", Probe: ok}, {Name: "redis", Probe: ok, Optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name:       "optional failure degrades",
			checks:     []Check{{Name: "analysis_service", Probe: ok}, {Name: "redis", Probe: failing, Optional: true}},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
		{
			name:       "required failure is unhealthy",
			checks:     []Check{{Name: "analysis_service", Probe: failing}, {Name: "redis", Probe: ok, Optional: true}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logger.NewNop(), "sentiguard", "test", tt.checks...)

			rec := httptest.NewRecorder()
			h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)

			var status HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, "sentiguard", status.Service)
			assert.Len(t, status.Checks, len(tt.checks))
		})
	}
}

func TestHandler_HealthReportsErrors(t *testing.T) {
	h := New(logger.NewNop(), "sentiguard", "test", Check{Name: "redis", Probe: failing, Optional: true})

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "connection refused", status.Checks["redis"].Error)
	assert.True(t, status.Checks["redis"].Optional)
	assert.Equal(t, []string{"redis"}, h.Names())
}
