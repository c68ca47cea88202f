package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminpanel/internal/domain"
)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PINHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService that checks PINs with hasher and issues tokens valid for tokenExpiry.
func NewAuthService(userRepo domain.UserRepository, hasher domain.PINHasher, tokenIssuer domain.TokenIssuer, tokenExpiry, timeout time.Duration) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *authService) LoginOptions(ctx context.Context) ([]*domain.LoginOption, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	opts, err := s.userRepo.ListLoginOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return opts, nil
}

// Login verifies the 4-digit PIN of userID. Unknown users and wrong PINs both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, userID, pin string) (string, *domain.User, error) {
	var p problems
	p.required(userID, "Por favor seleccione un usuario")
	p.check(pinRegexp.MatchString(pin), "El PIN debe tener 4 dígitos")
	if err := p.err(); err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.PINHash == "" || s.hasher.Compare(user.PINHash, pin) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.Issue(domain.Principal{UserID: user.ID, Role: user.Role}, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}
