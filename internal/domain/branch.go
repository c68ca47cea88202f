package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors for branch operations.
var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrBranchInUse    = errors.New("branch has assigned users")
)

// Branch represents a company branch stored in the sucursales table.
// swagger:model Branch
type Branch struct {
	ID        string    `json:"id"`
	Company   string    `json:"empresa"`
	Name      string    `json:"nombre"`
	Phone     string    `json:"telefono"`
	Address   string    `json:"direccion"`
	Document  string    `json:"documento"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchRef is the joined branch shown next to a user, also used for select options.
type BranchRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"nombre"`
}

// BranchInput carries the editable fields of a branch.
type BranchInput struct {
	Company  string `json:"empresa"`
	Name     string `json:"nombre"`
	Phone    string `json:"telefono"`
	Address  string `json:"direccion"`
	Document string `json:"documento"`
}

func (in BranchInput) Normalize() BranchInput {
	in.Company = strings.TrimSpace(in.Company)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Document = strings.TrimSpace(in.Document)
	return in
}

// BranchRepository defines the interface for branch storage.
type BranchRepository interface {
	List(ctx context.Context, q PageQuery) (*Page[*Branch], error)
	Options(ctx context.Context) ([]*BranchRef, error)
	GetByID(ctx context.Context, id string) (*Branch, error)
	Create(ctx context.Context, b *Branch) error
	Update(ctx context.Context, b *Branch) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// BranchService defines the business logic for managing branches.
type BranchService interface {
	List(ctx context.Context, q PageQuery) (*Page[*Branch], error)
	Options(ctx context.Context) ([]*BranchRef, error)
	GetByID(ctx context.Context, id string) (*Branch, error)
	Create(ctx context.Context, in BranchInput) (*Branch, error)
	Update(ctx context.Context, id string, in BranchInput) (*Branch, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
