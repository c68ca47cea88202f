package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"adminpanel/internal/domain"
)

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PINHasher backed by bcrypt. A cost outside bcrypt's range uses bcrypt.DefaultCost.
func NewBcryptHasher(cost int) domain.PINHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}
