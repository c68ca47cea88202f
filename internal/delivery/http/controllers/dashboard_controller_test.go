package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardController_Stats(t *testing.T) {
	ctrl := NewDashboardController(testLogger(), &fakeDashboard{stats: &domain.Stats{TotalUsers: 4, TotalBranches: 2}}, nil)

	rr := httptest.NewRecorder()
	ctrl.Stats(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var stats domain.Stats
	require.Nil(t, decodeEnvelope(t, rr, &stats))
	assert.Equal(t, domain.Stats{TotalUsers: 4, TotalBranches: 2}, stats)

	ctrl.Service = &fakeDashboard{err: assert.AnError}
	rr = httptest.NewRecorder()
	ctrl.Stats(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestDashboardController_Health(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
	}{
		{name: "database up", db: fakePinger{}, wantStatus: http.StatusOK},
		{name: "database down", db: fakePinger{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewDashboardController(testLogger(), &fakeDashboard{}, tt.db)

			rr := httptest.NewRecorder()
			ctrl.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			var health HealthResponse
			apiErr := decodeEnvelope(t, rr, &health)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, apiErr)
				assert.Equal(t, "ok", health.Status)
				return
			}
			require.NotNil(t, apiErr)
			assert.Equal(t, helpers.ErrCodeUnavailable, apiErr.Code)
		})
	}
}
