package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"adminpanel/internal/delivery/http/helpers"
	"adminpanel/internal/delivery/http/middleware"
	"adminpanel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if data != nil && envelope.Error == nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.Error
}

func seededUserService() *fakeUserService {
	now := time.Now()
	return &fakeUserService{users: []*domain.User{
		{ID: "u-1", Name: "Ana", Role: "admin", Username: "ana", Branch: &domain.BranchRef{ID: "b-1", Name: "Centro"}, CreatedAt: now, UpdatedAt: now},
		{ID: "u-2", Name: "Beto", Role: "cajero", Username: "beto", CreatedAt: now, UpdatedAt: now},
		{ID: "u-3", Name: "Carla", Role: "cajero", Username: "carla", CreatedAt: now, UpdatedAt: now},
	}}
}

func TestUserController_GetMe(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		fakeErr       error
		wantStatus    int
		wantBodyCode  string
		checkUser     func(t *testing.T, u *domain.User)
	}{
		{
			name:          "success",
			contextUserID: "u-1",
			wantStatus:    http.StatusOK,
			checkUser: func(t *testing.T, u *domain.User) {
				assert.Equal(t, "u-1", u.ID)
				assert.Equal(t, "Ana", u.Name)
				require.NotNil(t, u.Branch)
				assert.Equal(t, "Centro", u.Branch.Name)
			},
		},
		{
			name:         "no user in context",
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:          "user not found",
			contextUserID: "u-404",
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "service error",
			contextUserID: "u-1",
			fakeErr:       assert.AnError,
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seededUserService()
			fake.getErr = tt.fakeErr
			ctrl := NewUserController(testLogger(), fake, 1024)

			req := httptest.NewRequest(http.MethodGet, "http://test/users/me", nil)
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.GetMe(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var u domain.User
			apiErr := decodeEnvelope(t, rr, &u)
			if tt.checkUser != nil {
				require.Nil(t, apiErr)
				tt.checkUser(t, &u)
			}
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
			}
		})
	}
}

func TestUserController_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		listErr    error
		wantStatus int
		wantQuery  domain.PageQuery
		wantRows   int
		wantMeta   helpers.PaginationMeta
	}{
		{
			name:       "offset and limit",
			query:      "offset=1&limit=1",
			wantStatus: http.StatusOK,
			wantQuery:  domain.PageQuery{Offset: 1, Limit: 1},
			wantRows:   1,
			wantMeta:   helpers.PaginationMeta{Page: 2, PageSize: 1, Total: 3, TotalPages: 3},
		},
		{
			name:       "page and page_size",
			query:      "page=1&page_size=2",
			wantStatus: http.StatusOK,
			wantQuery:  domain.PageQuery{Offset: 0, Limit: 2},
			wantRows:   2,
			wantMeta:   helpers.PaginationMeta{Page: 1, PageSize: 2, Total: 3, TotalPages: 2},
		},
		{
			name:       "validation error",
			listErr:    &domain.ValidationError{Problems: []string{"limit must be > 0"}},
			wantStatus: http.StatusBadRequest,
			wantQuery:  domain.PageQuery{Limit: helpers.DefaultPageSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seededUserService()
			fake.listErr = tt.listErr
			ctrl := NewUserController(testLogger(), fake, 1024)

			rr := httptest.NewRecorder()
			ctrl.List(rr, httptest.NewRequest(http.MethodGet, "/usuarios?"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantQuery, fake.lastQuery)
			var list UserList
			apiErr := decodeEnvelope(t, rr, &list)
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, apiErr)
				assert.Equal(t, helpers.ErrCodeBadRequest, apiErr.Code)
				return
			}
			assert.Len(t, list.Rows, tt.wantRows)
			assert.Equal(t, 3, list.Count)
			assert.Equal(t, tt.wantMeta, list.Pagination)
		})
	}
}

func TestUserController_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		saveErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"nombre":"Dario","rol":"cajero","usuario":"dario","pin":"4321","sucursal_id":"b-1"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "unknown field",
			body:         `{"nombre":"Dario","email":"x@y.z"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "validation error",
			body:         `{"nombre":"Dario"}`,
			saveErr:      &domain.ValidationError{Problems: []string{"el rol es obligatorio"}},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "duplicate username",
			body:         `{"nombre":"Dario","rol":"cajero","usuario":"ana","pin":"4321"}`,
			saveErr:      domain.ErrDuplicateUsername,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "unknown branch",
			body:         `{"nombre":"Dario","rol":"cajero","usuario":"dario","pin":"4321","sucursal_id":"b-9"}`,
			saveErr:      domain.ErrBranchNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seededUserService()
			fake.saveErr = tt.saveErr
			ctrl := NewUserController(testLogger(), fake, 1024)

			rr := httptest.NewRecorder()
			ctrl.Create(rr, httptest.NewRequest(http.MethodPost, "/usuarios", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			var u domain.User
			apiErr := decodeEnvelope(t, rr, &u)
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
				return
			}
			assert.Equal(t, "u-new", u.ID)
			assert.Equal(t, "4321", fake.lastInput.PIN)
			assert.Equal(t, "b-1", fake.lastInput.BranchID)
		})
	}
}

func TestUserController_UpdateAndDelete(t *testing.T) {
	fake := seededUserService()
	ctrl := NewUserController(testLogger(), fake, 1024)

	req := httptest.NewRequest(http.MethodPut, "/usuarios/u-2", strings.NewReader(`{"nombre":"Beto R","rol":"admin","usuario":"beto"}`))
	req.SetPathValue("id", "u-2")
	rr := httptest.NewRecorder()
	ctrl.Update(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var u domain.User
	require.Nil(t, decodeEnvelope(t, rr, &u))
	assert.Equal(t, "Beto R", u.Name)
	assert.Equal(t, "u-2", fake.lastID)
	assert.Empty(t, fake.lastInput.PIN)

	req = httptest.NewRequest(http.MethodDelete, "/usuarios/u-2", nil)
	req.SetPathValue("id", "u-2")
	rr = httptest.NewRecorder()
	ctrl.Delete(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var deleted DeletedResponse
	require.Nil(t, decodeEnvelope(t, rr, &deleted))
	assert.Equal(t, "u-2", deleted.ID)

	req = httptest.NewRequest(http.MethodDelete, "/usuarios/u-2", nil)
	req.SetPathValue("id", "u-2")
	rr = httptest.NewRecorder()
	ctrl.Delete(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func avatarRequest(t *testing.T, field, filename, contentType, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("note", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/usuarios/u-1/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", "u-1")
	return req
}

func TestUserController_UploadAvatar(t *testing.T) {
	tests := []struct {
		name         string
		req          func(t *testing.T) *http.Request
		saveErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			req:        func(t *testing.T) *http.Request { return avatarRequest(t, "avatar", "me.png", "image/png", "png-bytes") },
			wantStatus: http.StatusOK,
		},
		{
			name:         "missing file",
			req:          func(t *testing.T) *http.Request { return avatarRequest(t, "", "", "", "") },
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/usuarios/u-1/avatar", strings.NewReader("a=b"))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unsupported type",
			req:          func(t *testing.T) *http.Request { return avatarRequest(t, "avatar", "doc.pdf", "application/pdf", "pdf") },
			saveErr:      domain.ErrUnsupportedImage,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "too large",
			req:          func(t *testing.T) *http.Request { return avatarRequest(t, "avatar", "big.png", "image/png", "png") },
			saveErr:      domain.ErrImageTooLarge,
			wantStatus:   http.StatusRequestEntityTooLarge,
			wantBodyCode: helpers.ErrCodeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := seededUserService()
			fake.saveErr = tt.saveErr
			ctrl := NewUserController(testLogger(), fake, 1024)

			rr := httptest.NewRecorder()
			ctrl.UploadAvatar(rr, tt.req(t))

			require.Equal(t, tt.wantStatus, rr.Code)
			var u domain.User
			apiErr := decodeEnvelope(t, rr, &u)
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
				return
			}
			assert.Equal(t, "https://cdn.test/avatars/me.png", u.AvatarURL)
			require.NotNil(t, fake.lastAvatar)
			assert.Equal(t, "image/png", fake.lastAvatar.ContentType)
			assert.Equal(t, int64(len("png-bytes")), fake.lastAvatar.Size)
			assert.Equal(t, "png-bytes", fake.avatarBody)
		})
	}
}
