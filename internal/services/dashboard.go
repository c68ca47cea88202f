package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"adminpanel/internal/domain"
)

type counter interface {
	Count(ctx context.Context) (int, error)
}

type dashboardService struct {
	users          counter
	branches       counter
	contextTimeout time.Duration
}

// NewDashboardService creates a DashboardService that counts users and branches concurrently.
func NewDashboardService(users domain.UserRepository, branches domain.BranchRepository, timeout time.Duration) domain.DashboardService {
	return &dashboardService{users: users, branches: branches, contextTimeout: timeout}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var stats domain.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := s.branches.Count(gctx)
		if err != nil {
			return fmt.Errorf("count branches: %w", err)
		}
		stats.TotalBranches = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
