package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"adminpanel/config"
	_ "adminpanel/docs"
	"adminpanel/internal/adapters/auth"
	"adminpanel/internal/adapters/storage"
	apphttp "adminpanel/internal/delivery/http"
	"adminpanel/internal/delivery/http/controllers"
	"adminpanel/internal/domain"
	"adminpanel/internal/pagination"
	"adminpanel/internal/panel"
	"adminpanel/internal/repository/postgres"
	"adminpanel/internal/services"
)

// NewServeCmd creates the serve command, which runs the HTTP server until SIGINT or SIGTERM.
func NewServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Serves the administration panel, the JSON API and the Swagger UI on PORT.",
		Example: `  # Start the server
  adminpanel serve

  # Apply the schema first, then start
  adminpanel serve --migrate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")

	return cmd
}

func runServe(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	var avatars domain.AvatarStorage
	if s, err := storage.NewMinioStorage(ctx, cfg.S3); err != nil {
		logger.Warn("avatar storage unavailable, uploads disabled", "endpoint", cfg.S3.Endpoint, "err", err)
	} else {
		avatars = s
		logger.Info("connected to S3", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHandler(cfg, db, avatars, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "err", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// newHandler wires repositories, services, panel modules and controllers into the
// application handler. avatars may be nil.
func newHandler(cfg *config.Config, db *sql.DB, avatars domain.AvatarStorage, logger *slog.Logger) http.Handler {
	userRepo := postgres.NewUserRepository(db)
	branchRepo := postgres.NewBranchRepository(db)

	issuer := auth.NewJWTIssuer(cfg.Auth.JWTSecret)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.Auth.JWTExpiry, cfg.RequestTimeout)
	userService := services.NewUserService(userRepo, hasher, avatars, cfg.RequestTimeout)
	branchService := services.NewBranchService(branchRepo, cfg.RequestTimeout)
	dashboardService := services.NewDashboardService(userRepo, branchRepo, cfg.RequestTimeout)

	pageSize := pagination.WithInitialPageSize(cfg.PageSizeDefault)
	registry := panel.NewRegistry(
		panel.NewHomeModule(dashboardService, logger),
		panel.NewUsersModule(userService, branchService, logger, pageSize),
		panel.NewBranchesModule(branchService, logger, pageSize),
	)
	workspace := panel.NewWorkspace(registry, logger)

	c := apphttp.Controllers{
		Auth:      controllers.NewAuthController(logger, authService),
		Users:     controllers.NewUserController(logger, userService, cfg.S3.AvatarMaxBytes),
		Branches:  controllers.NewBranchController(logger, branchService),
		Dashboard: controllers.NewDashboardController(logger, dashboardService, db),
		Panel: controllers.NewPanelController(logger, authService, userService, issuer, workspace, controllers.PanelOptions{
			CookieSecure:   cfg.Auth.CookieSecure,
			SessionTTL:     cfg.Auth.JWTExpiry,
			AvatarMaxBytes: cfg.S3.AvatarMaxBytes,
		}),
	}

	return apphttp.NewHandler(apphttp.NewRouter(c, issuer, logger), cfg.CORSOrigins, logger)
}
