package services

import (
	"context"
	"fmt"
	"time"

	"adminpanel/internal/domain"
)

type branchService struct {
	branchRepo     domain.BranchRepository
	contextTimeout time.Duration
}

// NewBranchService creates a BranchService backed by branchRepo.
func NewBranchService(branchRepo domain.BranchRepository, timeout time.Duration) domain.BranchService {
	return &branchService{branchRepo: branchRepo, contextTimeout: timeout}
}

func (s *branchService) List(ctx context.Context, q domain.PageQuery) (*domain.Page[*domain.Branch], error) {
	if err := checkPageQuery(q); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	page, err := s.branchRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return page, nil
}

func (s *branchService) Options(ctx context.Context) ([]*domain.BranchRef, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.branchRepo.Options(ctx)
}

func (s *branchService) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.branchRepo.GetByID(ctx, id)
}

func (s *branchService) Create(ctx context.Context, in domain.BranchInput) (*domain.Branch, error) {
	in = in.Normalize()
	if err := validateBranch(in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	b := &domain.Branch{
		Company:   in.Company,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Document:  in.Document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.branchRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return b, nil
}

func (s *branchService) Update(ctx context.Context, id string, in domain.BranchInput) (*domain.Branch, error) {
	in = in.Normalize()
	if err := validateBranch(in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	b, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Company = in.Company
	b.Name = in.Name
	b.Phone = in.Phone
	b.Address = in.Address
	b.Document = in.Document
	b.UpdatedAt = time.Now()
	if err := s.branchRepo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return b, nil
}

func (s *branchService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.branchRepo.Delete(ctx, id)
}

func (s *branchService) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.branchRepo.Count(ctx)
}

func validateBranch(in domain.BranchInput) error {
	var p problems
	p.required(in.Company, "la empresa es obligatoria")
	p.required(in.Name, "el nombre es obligatorio")
	return p.err()
}
