package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"adminpanel/internal/delivery/http/controllers"
	"adminpanel/internal/delivery/http/middleware"
	"adminpanel/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Branches  *controllers.BranchController
	Dashboard *controllers.DashboardController
	Panel     *controllers.PanelController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	api := middleware.RequireAuth(verifier, logger)
	page := middleware.RequireSession(verifier, logger, controllers.LoginPath)

	// Panel
	mux.HandleFunc("GET /{$}", c.Panel.Index)
	mux.HandleFunc("GET /login", c.Panel.LoginPage)
	mux.HandleFunc("POST /login", c.Panel.Login)
	mux.HandleFunc("POST /logout", c.Panel.Logout)
	mux.HandleFunc("GET /panel/{module}", page(c.Panel.Module))
	mux.HandleFunc("POST /panel/{module}/paging", page(c.Panel.Paging))
	mux.HandleFunc("GET /panel/{module}/new", page(c.Panel.New))
	mux.HandleFunc("GET /panel/{module}/{id}/edit", page(c.Panel.Edit))
	mux.HandleFunc("POST /panel/{module}/save", page(c.Panel.Save))
	mux.HandleFunc("POST /panel/{module}/{id}/delete", page(c.Panel.Delete))

	// Auth
	mux.HandleFunc("GET /auth/users", c.Auth.LoginOptions)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", api(c.Users.GetMe))
	mux.HandleFunc("GET /usuarios", api(c.Users.List))
	mux.HandleFunc("POST /usuarios", api(c.Users.Create))
	mux.HandleFunc("GET /usuarios/{id}", api(c.Users.Get))
	mux.HandleFunc("PUT /usuarios/{id}", api(c.Users.Update))
	mux.HandleFunc("DELETE /usuarios/{id}", api(c.Users.Delete))
	mux.HandleFunc("POST /usuarios/{id}/avatar", api(c.Users.UploadAvatar))

	// Branches
	mux.HandleFunc("GET /sucursales", api(c.Branches.List))
	mux.HandleFunc("POST /sucursales", api(c.Branches.Create))
	mux.HandleFunc("GET /sucursales/options", api(c.Branches.Options))
	mux.HandleFunc("GET /sucursales/{id}", api(c.Branches.Get))
	mux.HandleFunc("PUT /sucursales/{id}", api(c.Branches.Update))
	mux.HandleFunc("DELETE /sucursales/{id}", api(c.Branches.Delete))

	// Dashboard
	mux.HandleFunc("GET /dashboard", api(c.Dashboard.Stats))
	mux.HandleFunc("GET /health", c.Dashboard.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with request logging and CORS.
func NewHandler(mux http.Handler, corsOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(corsOrigins, mux))
}
