package controllers

import (
	"log/slog"
	"net/http"

	"adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/domain"
)

// BranchRequest is the request body for POST /sucursales and PUT /sucursales/{id}.
type BranchRequest struct {
	Company  string `json:"empresa"`
	Name     string `json:"nombre"`
	Phone    string `json:"telefono"`
	Address  string `json:"direccion"`
	Document string `json:"documento"`
}

func (b BranchRequest) input() domain.BranchInput {
	return domain.BranchInput{
		Company:  b.Company,
		Name:     b.Name,
		Phone:    b.Phone,
		Address:  b.Address,
		Document: b.Document,
	}
}

// BranchList is one page of branches.
type BranchList struct {
	Rows       []*domain.Branch       `json:"rows"`
	Count      int                    `json:"count"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// BranchSuccessResponse is the success response envelope for endpoints returning one branch.
type BranchSuccessResponse struct {
	Data  *domain.Branch    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListBranchesSuccessResponse is the success response envelope for GET /sucursales (200).
type ListBranchesSuccessResponse struct {
	Data  BranchList        `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BranchOptionsSuccessResponse is the success response envelope for GET /sucursales/options (200).
type BranchOptionsSuccessResponse struct {
	Data  []*domain.BranchRef `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type BranchController struct {
	Logger  *slog.Logger
	Service domain.BranchService
}

func NewBranchController(logger *slog.Logger, svc domain.BranchService) *BranchController {
	return &BranchController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List branches
// @Description Returns one page of branches ordered by name. Accepts offset and limit, or page and page_size. search filters by company, name, phone, address or document.
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Row offset"
// @Param limit query int false "Rows per page"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Rows per page"
// @Param search query string false "Search term"
// @Success 200 {object} controllers.ListBranchesSuccessResponse "data contains rows, count and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sucursales [get]
func (c *BranchController) List(w http.ResponseWriter, r *http.Request) {
	q := helpers.ParsePageQuery(r)
	page, err := c.Service.List(r.Context(), q)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BranchList{
		Rows:       page.Rows,
		Count:      page.Count,
		Pagination: helpers.MetaFor(q, page.Count),
	})
}

// Options godoc
// @Summary List branch options
// @Description Returns id and name of every branch for select inputs.
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.BranchOptionsSuccessResponse "data contains the options"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sucursales/options [get]
func (c *BranchController) Options(w http.ResponseWriter, r *http.Request) {
	refs, err := c.Service.Options(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, refs)
}

// Get godoc
// @Summary Get a branch
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Success 200 {object} controllers.BranchSuccessResponse "data contains the branch"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sucursales/{id} [get]
func (c *BranchController) Get(w http.ResponseWriter, r *http.Request) {
	b, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, b)
}

// Create godoc
// @Summary Create a branch
// @Description Creates a branch. empresa and nombre are required.
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BranchRequest true "Branch data"
// @Success 201 {object} controllers.BranchSuccessResponse "data contains the created branch"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sucursales [post]
func (c *BranchController) Create(w http.ResponseWriter, r *http.Request) {
	var req BranchRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	b, err := c.Service.Create(r.Context(), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, b)
}

// Update godoc
// @Summary Update a branch
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Param body body BranchRequest true "Branch data"
// @Success 200 {object} controllers.BranchSuccessResponse "data contains the updated branch"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sucursales/{id} [put]
func (c *BranchController) Update(w http.ResponseWriter, r *http.Request) {
	var req BranchRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	b, err := c.Service.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, b)
}

// Delete godoc
// @Summary Delete a branch
// @Description Deletes a branch. Branches with assigned users cannot be deleted.
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Success 200 {object} controllers.DeleteSuccessResponse "data contains the deleted id"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sucursales/{id} [delete]
func (c *BranchController) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := c.Service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeletedResponse{ID: id})
}
