package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"adminpanel/internal/domain"
)

const userColumns = `u.id, u.nombre, u.telefono, u.rol, u.usuario, u.pin_hash, u.sucursal_id, u.avatar_url, u.created_at, u.updated_at, s.nombre`

const userFrom = `FROM usuarios u LEFT JOIN sucursales s ON s.id = u.sucursal_id`

var userSearch = searchFilter{columns: []string{"u.nombre", "u.usuario", "u.telefono", "u.rol", "s.nombre"}}

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(s rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var branchID, branchName sql.NullString
	err := s.Scan(&u.ID, &u.Name, &u.Phone, &u.Role, &u.Username, &u.PINHash, &branchID, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt, &branchName)
	if err != nil {
		return nil, err
	}
	if branchID.Valid {
		u.BranchID = branchID.String
		u.Branch = &domain.BranchRef{ID: branchID.String, Name: branchName.String}
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, q domain.PageQuery) (*domain.Page[*domain.User], error) {
	where, args := userSearch.where(q.Search, 1)

	var total int
	countQuery := `SELECT COUNT(*) ` + userFrom + ` ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY u.nombre, u.id LIMIT $%d OFFSET $%d`,
		userColumns, userFrom, where, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &domain.Page[*domain.User]{Rows: users, Count: total}, nil
}

func (r *userRepository) ListLoginOptions(ctx context.Context) ([]*domain.LoginOption, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, usuario FROM usuarios ORDER BY usuario`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	opts := []*domain.LoginOption{}
	for rows.Next() {
		o := &domain.LoginOption{}
		if err := rows.Scan(&o.ID, &o.Username); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` ` + userFrom + ` WHERE u.id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pqCode(err) == codeInvalidText {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO usuarios (nombre, telefono, rol, usuario, pin_hash, sucursal_id, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Name, u.Phone, u.Role, u.Username, u.PINHash, nullString(u.BranchID), u.AvatarURL, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	return mapUserWriteErr(err)
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE usuarios
		SET nombre = $1, telefono = $2, rol = $3, usuario = $4, pin_hash = $5, sucursal_id = $6, avatar_url = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.DB.ExecContext(ctx, query, u.Name, u.Phone, u.Role, u.Username, u.PINHash, nullString(u.BranchID), u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return mapUserWriteErr(err)
	}
	return affectedOrNotFound(res, domain.ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == codeInvalidText {
			return domain.ErrUserNotFound
		}
		return err
	}
	return affectedOrNotFound(res, domain.ErrUserNotFound)
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n)
	return n, err
}

func mapUserWriteErr(err error) error {
	switch pqCode(err) {
	case "":
		return err
	case codeUniqueViolation:
		return domain.ErrDuplicateUsername
	case codeForeignKeyViolation:
		return domain.ErrBranchNotFound
	case codeInvalidText:
		return domain.ErrUserNotFound
	}
	return err
}
