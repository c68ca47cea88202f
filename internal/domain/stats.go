package domain

import "context"

// Stats are the quick counters shown on the home module.
type Stats struct {
	TotalUsers    int `json:"total_users"`
	TotalBranches int `json:"total_branches"`
}

// DashboardService aggregates the home module counters.
type DashboardService interface {
	Stats(ctx context.Context) (*Stats, error)
}
