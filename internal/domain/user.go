package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultAvatarURL is shown for users without an uploaded avatar.
const DefaultAvatarURL = "https://cdn-icons-png.flaticon.com/512/3177/3177440.png"

// User represents a panel user stored in the usuarios table.
// swagger:model User
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"nombre"`
	Phone     string     `json:"telefono"`
	Role      string     `json:"rol"`
	Username  string     `json:"usuario"`
	PINHash   string     `json:"-"`
	BranchID  string     `json:"sucursal_id,omitempty"`
	AvatarURL string     `json:"avatar_url"`
	Branch    *BranchRef `json:"sucursal,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BranchName returns the joined branch name or "N/A".
func (u *User) BranchName() string {
	if u == nil || u.Branch == nil || u.Branch.Name == "" {
		return "N/A"
	}
	return u.Branch.Name
}

// Avatar returns the avatar URL, falling back to DefaultAvatarURL.
func (u *User) Avatar() string {
	if u == nil || u.AvatarURL == "" {
		return DefaultAvatarURL
	}
	return u.AvatarURL
}

// LoginOption is one entry of the login user picker.
type LoginOption struct {
	ID       string `json:"id"`
	Username string `json:"usuario"`
}

// UserInput carries the editable fields of a user. An empty PIN on update keeps the stored one.
type UserInput struct {
	Name      string `json:"nombre"`
	Phone     string `json:"telefono"`
	Role      string `json:"rol"`
	Username  string `json:"usuario"`
	PIN       string `json:"pin"`
	BranchID  string `json:"sucursal_id"`
	AvatarURL string `json:"avatar_url"`
}

// Normalize trims surrounding whitespace from every field.
func (in UserInput) Normalize() UserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.TrimSpace(in.Role)
	in.Username = strings.TrimSpace(in.Username)
	in.PIN = strings.TrimSpace(in.PIN)
	in.BranchID = strings.TrimSpace(in.BranchID)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	return in
}

// PINHasher hashes and verifies 4-digit PINs.
type PINHasher interface {
	Hash(pin string) (string, error)
	Compare(hash, pin string) error
}

// TokenIssuer issues session tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(p Principal, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the principal it was issued for.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// Principal identifies the signed-in user of a request.
type Principal struct {
	UserID    string
	SessionID string
	Role      string
	ExpiresAt time.Time
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	List(ctx context.Context, q PageQuery) (*Page[*User], error)
	ListLoginOptions(ctx context.Context) ([]*LoginOption, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// AuthService defines PIN login for the panel.
type AuthService interface {
	LoginOptions(ctx context.Context) ([]*LoginOption, error)
	Login(ctx context.Context, userID, pin string) (token string, user *User, err error)
}

// UserService defines the business logic for managing users.
type UserService interface {
	List(ctx context.Context, q PageQuery) (*Page[*User], error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, in UserInput, avatar *Upload) (*User, error)
	Update(ctx context.Context, id string, in UserInput, avatar *Upload) (*User, error)
	SetAvatar(ctx context.Context, id string, avatar *Upload) (*User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
