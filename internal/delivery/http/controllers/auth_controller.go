package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	UserID string `json:"usuario_id"`
	PIN    string `json:"pin"`
}

// Validate rejects a request without a selected user.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return &domain.ValidationError{Problems: []string{"Selecciona un usuario"}}
	}
	return nil
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// LoginSuccessResponse is the success response envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// LoginOptionsSuccessResponse is the success response envelope for GET /auth/users (200).
type LoginOptionsSuccessResponse struct {
	Data  []*domain.LoginOption `json:"data"`
	Error *h.APIError           `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// LoginOptions godoc
// @Summary List login users
// @Description Returns id and username of every user, ordered by username, for the login picker.
// @Tags auth
// @Produce json
// @Success 200 {object} controllers.LoginOptionsSuccessResponse "data contains the users"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/users [get]
func (c *AuthController) LoginOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := c.Service.LoginOptions(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, opts)
}

// Login godoc
// @Summary Log in with a PIN
// @Description Authenticate a user with its 4-digit PIN. Returns a JWT and the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.UserID, req.PIN)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "PIN incorrecto")
			return
		}
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}
