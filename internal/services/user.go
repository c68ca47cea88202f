package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adminpanel/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PINHasher
	avatars        domain.AvatarStorage
	contextTimeout time.Duration
}

// NewUserService creates a UserService. avatars may be nil, in which case uploads are rejected.
func NewUserService(userRepo domain.UserRepository, hasher domain.PINHasher, avatars domain.AvatarStorage, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		avatars:        avatars,
		contextTimeout: timeout,
	}
}

func (s *userService) List(ctx context.Context, q domain.PageQuery) (*domain.Page[*domain.User], error) {
	if err := checkPageQuery(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	page, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Create(ctx context.Context, in domain.UserInput, avatar *domain.Upload) (*domain.User, error) {
	in = in.Normalize()
	if err := validateUser(in, true); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	hash, err := s.hasher.Hash(in.PIN)
	if err != nil {
		return nil, err
	}
	if avatar != nil {
		if in.AvatarURL, err = s.upload(ctx, avatar); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &domain.User{
		Name:      in.Name,
		Phone:     in.Phone,
		Role:      in.Role,
		Username:  in.Username,
		PINHash:   hash,
		BranchID:  in.BranchID,
		AvatarURL: in.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	// Reload to pick up the joined branch name.
	return s.userRepo.GetByID(ctx, user.ID)
}

// Update replaces the editable fields of id. A blank PIN keeps the stored hash and a blank
// avatar URL keeps the current avatar unless a new image is uploaded.
func (s *userService) Update(ctx context.Context, id string, in domain.UserInput, avatar *domain.Upload) (*domain.User, error) {
	in = in.Normalize()
	if err := validateUser(in, false); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = in.Name
	user.Phone = in.Phone
	user.Role = in.Role
	user.Username = in.Username
	user.BranchID = in.BranchID
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}
	if in.PIN != "" {
		if user.PINHash, err = s.hasher.Hash(in.PIN); err != nil {
			return nil, err
		}
	}
	if avatar != nil {
		if user.AvatarURL, err = s.upload(ctx, avatar); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) SetAvatar(ctx context.Context, id string, avatar *domain.Upload) (*domain.User, error) {
	if avatar == nil {
		return nil, domain.ErrUnsupportedImage
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.AvatarURL, err = s.upload(ctx, avatar); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.Count(ctx)
}

func (s *userService) upload(ctx context.Context, avatar *domain.Upload) (string, error) {
	if s.avatars == nil {
		return "", fmt.Errorf("avatar storage not configured: %w", domain.ErrUnsupportedImage)
	}
	return s.avatars.Upload(ctx, avatar)
}

func validateUser(in domain.UserInput, creating bool) error {
	var p problems
	p.required(in.Name, "el nombre es obligatorio")
	p.required(in.Role, "el rol es obligatorio")
	p.required(in.Username, "el usuario es obligatorio")
	p.check(!strings.ContainsAny(in.Username, " \t"), "el usuario no puede contener espacios")
	if creating || in.PIN != "" {
		p.check(pinRegexp.MatchString(in.PIN), "El PIN debe tener 4 dígitos")
	}
	if in.BranchID != "" {
		p.check(uuid.Validate(in.BranchID) == nil, "la sucursal no es válida")
	}
	return p.err()
}

func checkPageQuery(q domain.PageQuery) error {
	var p problems
	p.check(q.Offset >= 0, "offset must be >= 0")
	p.check(q.Limit > 0, "limit must be > 0")
	return p.err()
}
