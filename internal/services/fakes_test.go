package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"adminpanel/internal/domain"
)

// fakeUserRepo is an in-memory domain.UserRepository.
type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	branches map[string]string
	nextID   int
	err      error
	lastQ    domain.PageQuery
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}, branches: map[string]string{}}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *fakeUserRepo) List(_ context.Context, q domain.PageQuery) (*domain.Page[*domain.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	if f.err != nil {
		return nil, f.err
	}
	var all []*domain.User
	for _, u := range f.users {
		if q.Search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(q.Search)) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	end := min(q.Offset+q.Limit, total)
	rows := []*domain.User{}
	if q.Offset < total {
		rows = all[q.Offset:end]
	}
	return &domain.Page[*domain.User]{Rows: rows, Count: total}, nil
}

func (f *fakeUserRepo) ListLoginOptions(context.Context) ([]*domain.LoginOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	opts := []*domain.LoginOption{}
	for _, u := range f.users {
		opts = append(opts, &domain.LoginOption{ID: u.ID, Username: u.Username})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Username < opts[j].Username })
	return opts, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	if name, ok := f.branches[cp.BranchID]; ok {
		cp.Branch = &domain.BranchRef{ID: cp.BranchID, Name: name}
	}
	return &cp, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, other := range f.users {
		if other.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	cp.Branch = nil
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(f.users), nil
}

// fakeBranchRepo is an in-memory domain.BranchRepository.
type fakeBranchRepo struct {
	branches map[string]*domain.Branch
	inUse    map[string]bool
	err      error
	nextID   int
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: map[string]*domain.Branch{}, inUse: map[string]bool{}}
}

func (f *fakeBranchRepo) List(_ context.Context, q domain.PageQuery) (*domain.Page[*domain.Branch], error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := []*domain.Branch{}
	for _, b := range f.branches {
		rows = append(rows, b)
	}
	return &domain.Page[*domain.Branch]{Rows: rows, Count: len(rows)}, nil
}

func (f *fakeBranchRepo) Options(context.Context) ([]*domain.BranchRef, error) {
	refs := []*domain.BranchRef{}
	for _, b := range f.branches {
		refs = append(refs, &domain.BranchRef{ID: b.ID, Name: b.Name})
	}
	return refs, f.err
}

func (f *fakeBranchRepo) GetByID(_ context.Context, id string) (*domain.Branch, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.branches[id]
	if !ok {
		return nil, domain.ErrBranchNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBranchRepo) Create(_ context.Context, b *domain.Branch) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	b.ID = fmt.Sprintf("b-%d", f.nextID)
	cp := *b
	f.branches[b.ID] = &cp
	return nil
}

func (f *fakeBranchRepo) Update(_ context.Context, b *domain.Branch) error {
	if _, ok := f.branches[b.ID]; !ok {
		return domain.ErrBranchNotFound
	}
	cp := *b
	f.branches[b.ID] = &cp
	return nil
}

func (f *fakeBranchRepo) Delete(_ context.Context, id string) error {
	if f.inUse[id] {
		return domain.ErrBranchInUse
	}
	if _, ok := f.branches[id]; !ok {
		return domain.ErrBranchNotFound
	}
	delete(f.branches, id)
	return nil
}

func (f *fakeBranchRepo) Count(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.branches), nil
}

// plainHasher stores "hashed:<pin>" so tests can assert on the stored value.
type plainHasher struct{ err error }

func (h plainHasher) Hash(pin string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + pin, nil
}

func (h plainHasher) Compare(hash, pin string) error {
	if hash != "hashed:"+pin {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokenIssuer struct {
	got    domain.Principal
	expiry time.Duration
	err    error
}

func (f *fakeTokenIssuer) Issue(p domain.Principal, expiry time.Duration) (string, error) {
	f.got, f.expiry = p, expiry
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + p.UserID, nil
}

type fakeAvatarStorage struct {
	uploads []*domain.Upload
	err     error
}

func (f *fakeAvatarStorage) Upload(_ context.Context, up *domain.Upload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, up)
	return "https://cdn.test/avatars/" + up.Filename, nil
}
