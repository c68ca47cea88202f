package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminpanel/internal/domain"
)

var branchRowColumns = []string{"id", "empresa", "nombre", "telefono", "direccion", "documento", "created_at", "updated_at"}

func TestBranchRepository_List(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sucursales WHERE (empresa ILIKE $1 OR nombre ILIKE $1 OR telefono ILIKE $1 OR direccion ILIKE $1 OR documento ILIKE $1)`)).
		WithArgs("%norte%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY nombre, id LIMIT $2 OFFSET $3`)).
		WithArgs("%norte%", 5, 5).
		WillReturnRows(sqlmock.NewRows(branchRowColumns).
			AddRow("b-6", "Acme", "Norte 2", "555", "Calle 1", "RUC-1", now, now))

	page, err := NewBranchRepository(db).List(ctx, domain.PageQuery{Offset: 5, Limit: 5, Search: "norte"})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Count)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Acme", page.Rows[0].Company)
	assert.Equal(t, "RUC-1", page.Rows[0].Document)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepository_List_queryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM sucursales`).WillReturnError(sql.ErrConnDone)

	_, err = NewBranchRepository(db).List(context.Background(), domain.PageQuery{Limit: 5})
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestBranchRepository_Options(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, nombre FROM sucursales ORDER BY nombre`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).AddRow("b-1", "Centro").AddRow("b-2", "Norte"))

	refs, err := NewBranchRepository(db).Options(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Centro", refs[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepository_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				now := time.Now()
				mock.ExpectQuery(regexp.QuoteMeta(`FROM sucursales WHERE id = $1`)).
					WithArgs("b-1").
					WillReturnRows(sqlmock.NewRows(branchRowColumns).AddRow("b-1", "Acme", "Centro", "", "", "", now, now))
			},
		},
		{
			name: "no rows",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM sucursales WHERE id = $1`)).
					WithArgs("b-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrBranchNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			b, err := NewBranchRepository(db).GetByID(context.Background(), "b-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Centro", b.Name)
		})
	}
}

func TestBranchRepository_CreateUpdate(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	b := &domain.Branch{Company: "Acme", Name: "Centro", Phone: "555", Address: "Calle 1", Document: "RUC-1", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(`INSERT INTO sucursales`).
		WithArgs("Acme", "Centro", "555", "Calle 1", "RUC-1", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("b-1"))
	mock.ExpectExec(`UPDATE sucursales`).
		WithArgs("Acme", "Centro Sur", "555", "Calle 1", "RUC-1", now, "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE sucursales`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewBranchRepository(db)
	require.NoError(t, repo.Create(ctx, b))
	assert.Equal(t, "b-1", b.ID)

	b.Name = "Centro Sur"
	require.NoError(t, repo.Update(ctx, b))
	require.ErrorIs(t, repo.Update(ctx, &domain.Branch{ID: "gone", UpdatedAt: now}), domain.ErrBranchNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sucursales WHERE id = $1`)).
					WithArgs("b-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "referenced by users",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sucursales WHERE id = $1`)).
					WithArgs("b-1").
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrBranchInUse,
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sucursales WHERE id = $1`)).
					WithArgs("b-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrBranchNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewBranchRepository(db).Delete(context.Background(), "b-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
