package panel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"adminpanel/internal/domain"
)

type fakeUsers struct {
	mu      sync.Mutex
	users   []*domain.User
	listErr error
	saveErr error
	created []domain.UserInput
	updated map[string]domain.UserInput
	avatars []*domain.Upload
	deleted []string
}

func (f *fakeUsers) List(_ context.Context, q domain.PageQuery) (*domain.Page[*domain.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var match []*domain.User
	for _, u := range f.users {
		if q.Search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(q.Search)) {
			match = append(match, u)
		}
	}
	sort.Slice(match, func(i, j int) bool { return match[i].Name < match[j].Name })
	end := min(q.Offset+q.Limit, len(match))
	rows := []*domain.User{}
	if q.Offset < len(match) {
		rows = match[q.Offset:end]
	}
	return &domain.Page[*domain.User]{Rows: rows, Count: len(match)}, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) Create(_ context.Context, in domain.UserInput, avatar *domain.Upload) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.created = append(f.created, in)
	if avatar != nil {
		f.avatars = append(f.avatars, avatar)
	}
	u := &domain.User{ID: fmt.Sprintf("u-%d", len(f.users)+1), Name: in.Name, Role: in.Role, Username: in.Username}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, in domain.UserInput, _ *domain.Upload) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if f.updated == nil {
		f.updated = map[string]domain.UserInput{}
	}
	f.updated[id] = in
	for _, u := range f.users {
		if u.ID == id {
			u.Name = in.Name
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) SetAvatar(context.Context, string, *domain.Upload) (*domain.User, error) {
	return nil, domain.ErrUnsupportedImage
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

type fakeBranches struct {
	mu       sync.Mutex
	branches []*domain.Branch
	inUse    map[string]bool
	saveErr  error
	optsErr  error
}

func (f *fakeBranches) List(_ context.Context, q domain.PageQuery) (*domain.Page[*domain.Branch], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	end := min(q.Offset+q.Limit, len(f.branches))
	rows := []*domain.Branch{}
	if q.Offset < len(f.branches) {
		rows = f.branches[q.Offset:end]
	}
	return &domain.Page[*domain.Branch]{Rows: rows, Count: len(f.branches)}, nil
}

func (f *fakeBranches) Options(context.Context) ([]*domain.BranchRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.optsErr != nil {
		return nil, f.optsErr
	}
	refs := []*domain.BranchRef{}
	for _, b := range f.branches {
		refs = append(refs, &domain.BranchRef{ID: b.ID, Name: b.Name})
	}
	return refs, nil
}

func (f *fakeBranches) GetByID(_ context.Context, id string) (*domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.branches {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBranchNotFound
}

func (f *fakeBranches) Create(_ context.Context, in domain.BranchInput) (*domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	b := &domain.Branch{ID: fmt.Sprintf("b-%d", len(f.branches)+1), Company: in.Company, Name: in.Name}
	f.branches = append(f.branches, b)
	return b, nil
}

func (f *fakeBranches) Update(_ context.Context, id string, in domain.BranchInput) (*domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for _, b := range f.branches {
		if b.ID == id {
			b.Company, b.Name = in.Company, in.Name
			return b, nil
		}
	}
	return nil, domain.ErrBranchNotFound
}

func (f *fakeBranches) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[id] {
		return domain.ErrBranchInUse
	}
	for i, b := range f.branches {
		if b.ID == id {
			f.branches = append(f.branches[:i], f.branches[i+1:]...)
			return nil
		}
	}
	return domain.ErrBranchNotFound
}

func (f *fakeBranches) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.branches), nil
}

type fakeStats struct {
	stats *domain.Stats
	err   error
}

func (f fakeStats) Stats(context.Context) (*domain.Stats, error) { return f.stats, f.err }
