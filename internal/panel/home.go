package panel

import (
	"context"
	"log/slog"

	"adminpanel/internal/domain"
)

// HomeModule shows the signed-in user and quick counters.
type HomeModule struct {
	stats  domain.DashboardService
	logger *slog.Logger
}

func NewHomeModule(stats domain.DashboardService, logger *slog.Logger) *HomeModule {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HomeModule{stats: stats, logger: logger}
}

func (m *HomeModule) Name() string  { return "home" }
func (m *HomeModule) Title() string { return "Inicio" }
func (m *HomeModule) Icon() string  { return "bx bx-grid-alt" }

// Mount never fails on a stats error; the counters show N/A instead.
func (m *HomeModule) Mount(ctx context.Context, s *Session) (View, error) {
	v := &homeView{baseView: newBaseView("Inicio", m.logger), session: s}
	stats, err := m.stats.Stats(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "load home stats", "err", err)
	} else {
		v.stats = stats
	}
	v.doc.Append("home-user", templateNode("home-user", func() any { return v.session.User() }))
	v.doc.Append("home-stats", templateNode("home-stats", func() any { return v.stats }))
	return v, nil
}

type homeView struct {
	*baseView
	session *Session
	stats   *domain.Stats
}
