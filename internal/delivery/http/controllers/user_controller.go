package controllers

import (
	"log/slog"
	"net/http"

	"adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/delivery/http/middleware"
	"adminpanel/internal/domain"
)

// UserRequest is the request body for POST /usuarios and PUT /usuarios/{id}.
// On update an empty pin keeps the stored one and an empty avatar_url keeps the current avatar.
type UserRequest struct {
	Name      string `json:"nombre"`
	Phone     string `json:"telefono"`
	Role      string `json:"rol"`
	Username  string `json:"usuario"`
	PIN       string `json:"pin"`
	BranchID  string `json:"sucursal_id"`
	AvatarURL string `json:"avatar_url"`
}

func (u UserRequest) input() domain.UserInput {
	return domain.UserInput{
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Username:  u.Username,
		PIN:       u.PIN,
		BranchID:  u.BranchID,
		AvatarURL: u.AvatarURL,
	}
}

// UserList is one page of users.
type UserList struct {
	Rows       []*domain.User         `json:"rows"`
	Count      int                    `json:"count"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// UserSuccessResponse is the success response envelope for endpoints returning one user.
type UserSuccessResponse struct {
	Data  *domain.User      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListUsersSuccessResponse is the success response envelope for GET /usuarios (200).
type ListUsersSuccessResponse struct {
	Data  UserList          `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeletedResponse is the data of a successful delete.
type DeletedResponse struct {
	ID string `json:"id"`
}

// DeleteSuccessResponse is the success response envelope for DELETE endpoints (200).
type DeleteSuccessResponse struct {
	Data  DeletedResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UserController handles the user profile and user management endpoints.
type UserController struct {
	Logger         *slog.Logger
	Service        domain.UserService
	AvatarMaxBytes int64
}

// NewUserController creates a UserController with the given logger and service.
// Avatar uploads larger than avatarMaxBytes are rejected.
func NewUserController(logger *slog.Logger, svc domain.UserService, avatarMaxBytes int64) *UserController {
	return &UserController{
		Logger:         logger,
		Service:        svc,
		AvatarMaxBytes: avatarMaxBytes,
	}
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile with its branch. Requires Bearer token or session cookie.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// List godoc
// @Summary List users
// @Description Returns one page of users ordered by name. Accepts offset and limit, or page and page_size. search filters by name, username, phone, role or branch.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Row offset"
// @Param limit query int false "Rows per page"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Rows per page"
// @Param search query string false "Search term"
// @Success 200 {object} controllers.ListUsersSuccessResponse "data contains rows, count and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /usuarios [get]
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	q := helpers.ParsePageQuery(r)
	page, err := c.Service.List(r.Context(), q)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UserList{
		Rows:       page.Rows,
		Count:      page.Count,
		Pagination: helpers.MetaFor(q, page.Count),
	})
}

// Get godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /usuarios/{id} [get]
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	user, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// Create godoc
// @Summary Create a user
// @Description Creates a user. nombre, rol, usuario and a 4-digit pin are required. The PIN is stored hashed.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UserRequest true "User data"
// @Success 201 {object} controllers.UserSuccessResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown sucursal_id)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /usuarios [post]
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	user, err := c.Service.Create(r.Context(), req.input(), nil)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Update godoc
// @Summary Update a user
// @Description Replaces the editable fields of a user. An empty pin keeps the current PIN.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body UserRequest true "User data"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /usuarios/{id} [put]
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), r.PathValue("id"), req.input(), nil)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} controllers.DeleteSuccessResponse "data contains the deleted id"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /usuarios/{id} [delete]
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.Service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeletedResponse{ID: id})
}

// UploadAvatar godoc
// @Summary Upload a user avatar
// @Description Stores the image sent in the avatar form field and sets it as the user's avatar.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 413 {object} helpers.APIResponse "error.code: payload_too_large"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /usuarios/{id}/avatar [post]
func (c *UserController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := helpers.ParseMultipart(w, r, c.AvatarMaxBytes); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	avatar, closeFile, err := helpers.FormUpload(r, "avatar")
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	defer closeFile()
	if avatar == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "avatar file is required")
		return
	}
	user, err := c.Service.SetAvatar(r.Context(), r.PathValue("id"), avatar)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}
