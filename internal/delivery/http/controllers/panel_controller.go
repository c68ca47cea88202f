package controllers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/delivery/http/middleware"
	"adminpanel/internal/domain"
	"adminpanel/internal/panel"
)

// Panel paths.
const (
	LoginPath = "/login"
	HomePath  = "/panel/home"
)

// PanelOptions configures the session cookie and upload limit of the panel.
type PanelOptions struct {
	CookieSecure   bool
	SessionTTL     time.Duration
	AvatarMaxBytes int64
}

// PanelController serves the server-rendered panel: PIN login, logout and the
// module pages mounted in the session workspace.
type PanelController struct {
	Logger    *slog.Logger
	Auth      domain.AuthService
	Users     domain.UserService
	Verifier  domain.TokenVerifier
	Workspace *panel.Workspace
	Options   PanelOptions
}

func NewPanelController(logger *slog.Logger, auth domain.AuthService, users domain.UserService, verifier domain.TokenVerifier, ws *panel.Workspace, opts PanelOptions) *PanelController {
	return &PanelController{
		Logger:    logger,
		Auth:      auth,
		Users:     users,
		Verifier:  verifier,
		Workspace: ws,
		Options:   opts,
	}
}

// LoginPage renders the user picker. A request that already carries a valid
// session goes straight to the home module.
func (c *PanelController) LoginPage(w http.ResponseWriter, r *http.Request) {
	if token, err := middleware.TokenFromRequest(r); err == nil {
		if _, err := c.Verifier.Verify(token); err == nil {
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
			return
		}
	}
	c.renderLogin(w, r, http.StatusOK, panel.LoginData{})
}

// Login checks the PIN of the selected user, attaches a new session to the
// workspace and sets the session cookie.
func (c *PanelController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderLogin(w, r, http.StatusBadRequest, panel.LoginData{Error: "Solicitud inválida"})
		return
	}
	userID := strings.TrimSpace(r.PostFormValue("usuario"))
	token, user, err := c.Auth.Login(r.Context(), userID, strings.TrimSpace(r.PostFormValue("pin")))
	if err != nil {
		data := panel.LoginData{Selected: userID}
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			data.Error = "PIN incorrecto"
			c.renderLogin(w, r, http.StatusUnauthorized, data)
		case errors.As(err, &verr):
			data.Error = strings.Join(verr.Problems, ". ")
			c.renderLogin(w, r, http.StatusBadRequest, data)
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			data.Error = "Hubo un problema al iniciar sesión"
			c.renderLogin(w, r, http.StatusInternalServerError, data)
		}
		return
	}

	p, err := c.Verifier.Verify(token)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "issued token rejected", "user_id", user.ID, "err", err)
		c.renderLogin(w, r, http.StatusInternalServerError, panel.LoginData{Selected: userID, Error: "Hubo un problema al iniciar sesión"})
		return
	}
	c.Workspace.Attach(panel.NewSession(p, user))
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.Options.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Options.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Logger.InfoContext(r.Context(), "user signed in", "user_id", user.ID, "session", p.SessionID)
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// Logout forgets the session of the request and clears the cookie.
func (c *PanelController) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := middleware.TokenFromRequest(r); err == nil {
		if p, err := c.Verifier.Verify(token); err == nil {
			c.Workspace.Close(p.SessionID)
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// Index redirects to the home module.
func (c *PanelController) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

// Module renders the mounted view of a module. ?fresh=1 (sidebar links)
// remounts it with default state.
func (c *PanelController) Module(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r)
	if !ok {
		return
	}
	name := r.PathValue("module")
	var (
		v   panel.View
		err error
	)
	if r.URL.Query().Has("fresh") {
		v, err = c.Workspace.Open(r.Context(), s, name)
	} else {
		v, err = c.Workspace.Current(r.Context(), s, name)
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.render(w, r, s, name, v, http.StatusOK)
}

// Paging applies a pagination action (prev, next, size or search) to the
// mounted table and redirects back to the module.
func (c *PanelController) Paging(w http.ResponseWriter, r *http.Request) {
	s, name, v, ok := c.mounted(w, r)
	if !ok {
		return
	}
	pg, ok := v.(panel.Pageable)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	pager := pg.Pager()
	ctx := r.Context()
	var err error
	switch r.PostFormValue("action") {
	case "prev":
		err = pager.PrevPage(ctx)
	case "next":
		err = pager.NextPage(ctx)
	case "size":
		size, convErr := strconv.Atoi(r.PostFormValue("page_size"))
		if convErr != nil {
			http.Error(w, "invalid page size", http.StatusBadRequest)
			return
		}
		err = pager.ChangePageSize(ctx, size)
	case "search", "":
		err = pager.UpdateSearchTerm(ctx, r.PostFormValue("search"))
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		// Load failures are already flashed on the view.
		c.Logger.WarnContext(ctx, "pagination action failed", "module", name, "session", s.ID(), "err", err)
	}
	http.Redirect(w, r, panelPath(name), http.StatusSeeOther)
}

// New opens the empty create form of the mounted module.
func (c *PanelController) New(w http.ResponseWriter, r *http.Request) {
	c.withEditor(w, r, func(ctx context.Context, ed panel.Editor) error {
		return ed.OpenNew(ctx)
	})
}

// Edit opens the edit form for {id}.
func (c *PanelController) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c.withEditor(w, r, func(ctx context.Context, ed panel.Editor) error {
		return ed.OpenEdit(ctx, id)
	})
}

// Delete removes {id} and redirects back to the refreshed table.
func (c *PanelController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c.withEditor(w, r, func(ctx context.Context, ed panel.Editor) error {
		return ed.Delete(ctx, id)
	})
}

// Save submits the open form. action=cancel closes it without saving. On
// failure the view is rendered with the form still open.
func (c *PanelController) Save(w http.ResponseWriter, r *http.Request) {
	s, name, v, ok := c.mounted(w, r)
	if !ok {
		return
	}
	ed, ok := v.(panel.Editor)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := helpers.ParseMultipart(w, r, c.Options.AvatarMaxBytes); err != nil {
		c.showError(w, r, s, name, v, err)
		return
	}
	if r.PostFormValue("action") == "cancel" {
		ed.CloseForm()
		http.Redirect(w, r, panelPath(name), http.StatusSeeOther)
		return
	}

	avatar, closeFile, err := helpers.FormUpload(r, "avatar")
	if err != nil {
		c.showError(w, r, s, name, v, err)
		return
	}
	defer closeFile()

	if err := ed.Save(r.Context(), panel.Form{Values: r.PostForm, Avatar: avatar}); err != nil {
		c.render(w, r, s, name, v, c.statusFor(r, err))
		return
	}
	http.Redirect(w, r, panelPath(name), http.StatusSeeOther)
}

func (c *PanelController) withEditor(w http.ResponseWriter, r *http.Request, fn func(context.Context, panel.Editor) error) {
	_, name, v, ok := c.mounted(w, r)
	if !ok {
		return
	}
	ed, ok := v.(panel.Editor)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := fn(r.Context(), ed); err != nil {
		// The view flashes the error.
		c.logUnexpected(r, err)
	}
	http.Redirect(w, r, panelPath(name), http.StatusSeeOther)
}

// mounted resolves the session and the view currently mounted for the module in the path.
func (c *PanelController) mounted(w http.ResponseWriter, r *http.Request) (*panel.Session, string, panel.View, bool) {
	s, ok := c.session(w, r)
	if !ok {
		return nil, "", nil, false
	}
	name := r.PathValue("module")
	v, err := c.Workspace.Current(r.Context(), s, name)
	if err != nil {
		c.fail(w, r, err)
		return nil, "", nil, false
	}
	return s, name, v, true
}

// session returns the workspace session of the request principal. Sessions
// lost on restart are rebuilt from the user record.
func (c *PanelController) session(w http.ResponseWriter, r *http.Request) (*panel.Session, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return nil, false
	}
	if s, ok := c.Workspace.Session(p.SessionID); ok {
		return s, true
	}
	user, err := c.Users.GetByID(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			middleware.ClearSessionCookie(w)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return nil, false
		}
		c.fail(w, r, err)
		return nil, false
	}
	s := panel.NewSession(p, user)
	c.Workspace.Attach(s)
	return s, true
}

func (c *PanelController) showError(w http.ResponseWriter, r *http.Request, s *panel.Session, name string, v panel.View, err error) {
	if f, ok := v.(panel.Failer); ok {
		f.Fail(err)
	}
	c.render(w, r, s, name, v, c.statusFor(r, err))
}

// statusFor maps err to the status of the re-rendered page and logs unexpected errors.
func (c *PanelController) statusFor(r *http.Request, err error) int {
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	c.logUnexpected(r, err)
	status, _ := helpers.StatusFor(err)
	return status
}

func (c *PanelController) logUnexpected(r *http.Request, err error) {
	if status, _ := helpers.StatusFor(err); status == http.StatusInternalServerError {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}

func (c *PanelController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, panel.ErrModuleNotFound) {
		http.NotFound(w, r)
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (c *PanelController) render(w http.ResponseWriter, r *http.Request, s *panel.Session, name string, v panel.View, status int) {
	var page bytes.Buffer
	if err := panel.RenderView(&page, c.Workspace.Registry(), s, name, v); err != nil {
		c.fail(w, r, err)
		return
	}
	writeHTML(w, status, &page)
}

func (c *PanelController) renderLogin(w http.ResponseWriter, r *http.Request, status int, data panel.LoginData) {
	opts, err := c.Auth.LoginOptions(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "load login users", "err", err)
		data.LoadFailed = true
	}
	data.Options = opts
	var page bytes.Buffer
	if err := panel.RenderLogin(&page, data); err != nil {
		c.fail(w, r, err)
		return
	}
	writeHTML(w, status, &page)
}

func writeHTML(w http.ResponseWriter, status int, page *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = page.WriteTo(w)
}

func panelPath(module string) string {
	return "/panel/" + module
}
