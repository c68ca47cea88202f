package controllers

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"adminpanel/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	mu sync.Mutex

	users      []*domain.User
	listErr    error
	getErr     error
	saveErr    error
	deleteErr  error
	lastQuery  domain.PageQuery
	lastInput  domain.UserInput
	lastID     string
	lastAvatar *domain.Upload
	avatarBody string
}

func (f *fakeUserService) List(_ context.Context, q domain.PageQuery) (*domain.Page[*domain.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	var match []*domain.User
	for _, u := range f.users {
		if q.Search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(q.Search)) {
			match = append(match, u)
		}
	}
	rows := []*domain.User{}
	for i, u := range match {
		if i >= q.Offset && i < q.Offset+q.Limit {
			rows = append(rows, u)
		}
	}
	return &domain.Page[*domain.User]{Rows: rows, Count: len(match)}, nil
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserService) Create(_ context.Context, in domain.UserInput, avatar *domain.Upload) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput, f.lastAvatar = in, avatar
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	u := &domain.User{ID: "u-new", Name: in.Name, Role: in.Role, Username: in.Username}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserService) Update(_ context.Context, id string, in domain.UserInput, avatar *domain.Upload) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID, f.lastInput, f.lastAvatar = id, in, avatar
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for _, u := range f.users {
		if u.ID == id {
			u.Name, u.Role, u.Username = in.Name, in.Role, in.Username
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserService) SetAvatar(_ context.Context, id string, avatar *domain.Upload) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID, f.lastAvatar = id, avatar
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	body, _ := io.ReadAll(avatar.Body)
	f.avatarBody = string(body)
	return &domain.User{ID: id, AvatarURL: "https://cdn.test/avatars/" + avatar.Filename}, nil
}

func (f *fakeUserService) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID = id
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (f *fakeUserService) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

// fakeBranchService implements domain.BranchService for handler tests.
type fakeBranchService struct {
	branches  []*domain.Branch
	err       error
	lastQuery domain.PageQuery
	lastInput domain.BranchInput
	lastID    string
}

func (f *fakeBranchService) List(_ context.Context, q domain.PageQuery) (*domain.Page[*domain.Branch], error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Page[*domain.Branch]{Rows: f.branches, Count: len(f.branches)}, nil
}

func (f *fakeBranchService) Options(context.Context) ([]*domain.BranchRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	refs := []*domain.BranchRef{}
	for _, b := range f.branches {
		refs = append(refs, &domain.BranchRef{ID: b.ID, Name: b.Name})
	}
	return refs, nil
}

func (f *fakeBranchService) GetByID(_ context.Context, id string) (*domain.Branch, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domain.ErrBranchNotFound
}

func (f *fakeBranchService) Create(_ context.Context, in domain.BranchInput) (*domain.Branch, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Branch{ID: "b-new", Company: in.Company, Name: in.Name}, nil
}

func (f *fakeBranchService) Update(_ context.Context, id string, in domain.BranchInput) (*domain.Branch, error) {
	f.lastID, f.lastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Branch{ID: id, Company: in.Company, Name: in.Name}, nil
}

func (f *fakeBranchService) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeBranchService) Count(context.Context) (int, error) {
	return len(f.branches), f.err
}

// fakeAuthService implements domain.AuthService. Login accepts pin "1234" for any known user.
type fakeAuthService struct {
	users   *fakeUserService
	optsErr error
	err     error
}

func (f *fakeAuthService) LoginOptions(context.Context) ([]*domain.LoginOption, error) {
	if f.optsErr != nil {
		return nil, f.optsErr
	}
	opts := []*domain.LoginOption{}
	for _, u := range f.users.users {
		opts = append(opts, &domain.LoginOption{ID: u.ID, Username: u.Username})
	}
	return opts, nil
}

func (f *fakeAuthService) Login(ctx context.Context, userID, pin string) (string, *domain.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	if userID == "" || len(pin) != 4 {
		return "", nil, &domain.ValidationError{Problems: []string{"El PIN debe tener 4 dígitos"}}
	}
	u, err := f.users.GetByID(ctx, userID)
	if err != nil || pin != "1234" {
		return "", nil, domain.ErrInvalidCredentials
	}
	return "token-for-" + u.ID, u, nil
}

// fakeVerifier accepts tokens of the form "token-for-<userID>". The session id is "sess-<userID>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (domain.Principal, error) {
	id, ok := strings.CutPrefix(token, "token-for-")
	if !ok || id == "" {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	return domain.Principal{UserID: id, SessionID: "sess-" + id, Role: "admin"}, nil
}

type fakeDashboard struct {
	stats *domain.Stats
	err   error
}

func (f *fakeDashboard) Stats(context.Context) (*domain.Stats, error) {
	return f.stats, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }
