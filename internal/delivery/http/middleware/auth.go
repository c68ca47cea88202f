package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/domain"
)

// SessionCookie is the cookie carrying the panel session token.
const SessionCookie = "session_token"

type contextKey string

const principalKey contextKey = "principal"

var (
	errMissingToken  = errors.New("missing token")
	errInvalidFormat = errors.New("invalid authorization format")
)

// SetPrincipal returns a context with the authenticated principal set. Used by auth middleware.
func SetPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal from the context, if present.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// SetUserID returns a context carrying a principal with only the user ID set.
func SetUserID(ctx context.Context, userID string) context.Context {
	return SetPrincipal(ctx, domain.Principal{UserID: userID})
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == "" {
		return "", false
	}
	return p.UserID, true
}

// TokenFromRequest returns the Bearer token of r, falling back to the session cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			return "", errInvalidFormat
		}
		token := strings.TrimSpace(auth[len(prefix):])
		if token == "" {
			return "", errMissingToken
		}
		return token, nil
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", errMissingToken
	}
	return c.Value, nil
}

// RequireAuth returns a wrapper that validates the Bearer token (or session cookie)
// and sets the principal in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromRequest(r)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, err.Error())
				return
			}
			p, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetPrincipal(r.Context(), p)))
		}
	}
}

// RequireSession is RequireAuth for browser routes: instead of a JSON 401 it
// clears the session cookie and redirects to loginPath.
func RequireSession(verifier domain.TokenVerifier, logger *slog.Logger, loginPath string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromRequest(r)
			if err == nil {
				var p domain.Principal
				if p, err = verifier.Verify(token); err == nil {
					next(w, r.WithContext(SetPrincipal(r.Context(), p)))
					return
				}
				logger.DebugContext(r.Context(), "session rejected", "path", r.URL.Path, "err", err)
			}
			ClearSessionCookie(w)
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		}
	}
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
