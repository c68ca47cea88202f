package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/domain"
)

// StatsSuccessResponse is the success response envelope for GET /dashboard (200).
type StatsSuccessResponse struct {
	Data  *domain.Stats     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthSuccessResponse is the success response envelope for GET /health (200).
type HealthSuccessResponse struct {
	Data  HealthResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DashboardController serves the home counters and the health check.
type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
	DB      Pinger
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService, db Pinger) *DashboardController {
	return &DashboardController{
		Logger:  logger,
		Service: svc,
		DB:      db,
	}
}

// Stats godoc
// @Summary Home counters
// @Description Returns the total number of users and branches.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsSuccessResponse "data contains the counters"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard [get]
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Stats(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// Health godoc
// @Summary Health check
// @Description Reports whether the database answers a ping.
// @Tags health
// @Produce json
// @Success 200 {object} controllers.HealthSuccessResponse "database is reachable"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error"
// @Router /health [get]
func (c *DashboardController) Health(w http.ResponseWriter, r *http.Request) {
	if c.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := c.DB.PingContext(ctx); err != nil {
			c.Logger.WarnContext(r.Context(), "health check failed", "err", err)
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "Base de datos no disponible")
			return
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
