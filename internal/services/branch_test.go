package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminpanel/internal/domain"
)

func TestBranchService_CreateUpdateDelete(t *testing.T) {
	repo := newFakeBranchRepo()
	svc := NewBranchService(repo, time.Second)
	ctx := context.Background()

	b, err := svc.Create(ctx, domain.BranchInput{Company: " Acme ", Name: "Centro", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Company)
	assert.NotEmpty(t, b.ID)

	b, err = svc.Update(ctx, b.ID, domain.BranchInput{Company: "Acme", Name: "Centro Sur", Document: "RUC-1"})
	require.NoError(t, err)
	assert.Equal(t, "Centro Sur", b.Name)
	assert.Equal(t, "RUC-1", b.Document)

	repo.inUse[b.ID] = true
	require.ErrorIs(t, svc.Delete(ctx, b.ID), domain.ErrBranchInUse)
	repo.inUse[b.ID] = false
	require.NoError(t, svc.Delete(ctx, b.ID))
	require.ErrorIs(t, svc.Delete(ctx, b.ID), domain.ErrBranchNotFound)
}

func TestBranchService_validation(t *testing.T) {
	svc := NewBranchService(newFakeBranchRepo(), time.Second)

	tests := []struct {
		name string
		in   domain.BranchInput
	}{
		{name: "missing company", in: domain.BranchInput{Name: "Centro"}},
		{name: "missing name", in: domain.BranchInput{Company: "Acme", Name: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			_, err = svc.Update(context.Background(), "b-1", tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBranchService_Update_notFound(t *testing.T) {
	svc := NewBranchService(newFakeBranchRepo(), time.Second)
	_, err := svc.Update(context.Background(), "b-404", domain.BranchInput{Company: "Acme", Name: "Centro"})
	require.ErrorIs(t, err, domain.ErrBranchNotFound)
}
