package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"adminpanel/internal/domain"
)

const branchColumns = `id, empresa, nombre, telefono, direccion, documento, created_at, updated_at`

var branchSearch = searchFilter{columns: []string{"empresa", "nombre", "telefono", "direccion", "documento"}}

type branchRepository struct {
	DB *sql.DB
}

// NewBranchRepository returns a domain.BranchRepository implemented with Postgres.
func NewBranchRepository(db *sql.DB) domain.BranchRepository {
	return &branchRepository{DB: db}
}

func scanBranch(s rowScanner) (*domain.Branch, error) {
	b := &domain.Branch{}
	if err := s.Scan(&b.ID, &b.Company, &b.Name, &b.Phone, &b.Address, &b.Document, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *branchRepository) List(ctx context.Context, q domain.PageQuery) (*domain.Page[*domain.Branch], error) {
	where, args := branchSearch.where(q.Search, 1)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sucursales `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count branches: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM sucursales %s ORDER BY nombre, id LIMIT $%d OFFSET $%d`,
		branchColumns, where, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	branches := []*domain.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &domain.Page[*domain.Branch]{Rows: branches, Count: total}, nil
}

func (r *branchRepository) Options(ctx context.Context) ([]*domain.BranchRef, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, nombre FROM sucursales ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	refs := []*domain.BranchRef{}
	for rows.Next() {
		ref := &domain.BranchRef{}
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	b, err := scanBranch(r.DB.QueryRowContext(ctx, `SELECT `+branchColumns+` FROM sucursales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pqCode(err) == codeInvalidText {
			return nil, domain.ErrBranchNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *branchRepository) Create(ctx context.Context, b *domain.Branch) error {
	query := `
		INSERT INTO sucursales (empresa, nombre, telefono, direccion, documento, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, b.Company, b.Name, b.Phone, b.Address, b.Document, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
}

func (r *branchRepository) Update(ctx context.Context, b *domain.Branch) error {
	query := `
		UPDATE sucursales
		SET empresa = $1, nombre = $2, telefono = $3, direccion = $4, documento = $5, updated_at = $6
		WHERE id = $7
	`
	res, err := r.DB.ExecContext(ctx, query, b.Company, b.Name, b.Phone, b.Address, b.Document, b.UpdatedAt, b.ID)
	if err != nil {
		if pqCode(err) == codeInvalidText {
			return domain.ErrBranchNotFound
		}
		return err
	}
	return affectedOrNotFound(res, domain.ErrBranchNotFound)
}

func (r *branchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sucursales WHERE id = $1`, id)
	if err != nil {
		switch pqCode(err) {
		case codeForeignKeyViolation:
			return domain.ErrBranchInUse
		case codeInvalidText:
			return domain.ErrBranchNotFound
		}
		return err
	}
	return affectedOrNotFound(res, domain.ErrBranchNotFound)
}

func (r *branchRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sucursales`).Scan(&n)
	return n, err
}
