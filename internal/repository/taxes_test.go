package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaxRepository(db)
	ctx := context.Background()

	t.Run("find by id", func(t *testing.T) {
		mock.ExpectQuery(quoted("SELECT tax.id, tax.version, tax.workspace_id, tax.title, tax.description, tax.rate_in_bps FROM general_taxes tax WHERE tax.id = $1 AND tax.workspace_id = $2")).
			WithArgs(int64(3), int64(7)).
			WillReturnRows(sqlmock.NewRows(taxColumns).AddRow(int64(3), int64(1), int64(7), "VAT", nil, 2000))

		tax, err := repo.FindByIDAndWorkspaceID(ctx, 3, 7)
		require.NoError(t, err)
		require.NotNil(t, tax)
		assert.Equal(t, "VAT", tax.Title)
		assert.Equal(t, 2000, tax.RateInBps)
		assert.Nil(t, tax.Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert", func(t *testing.T) {
		tax := &models.Tax{WorkspaceID: 7, Title: "VAT", RateInBps: 2000}
		mock.ExpectQuery(quoted("INSERT INTO general_taxes (workspace_id, title, description, rate_in_bps) VALUES ($1, $2, $3, $4) RETURNING id, version")).
			WithArgs(int64(7), "VAT", nil, 2000).
			WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(int64(4), int64(0)))

		require.NoError(t, repo.Save(ctx, tax))
		assert.Equal(t, int64(4), tax.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		tax := &models.Tax{ID: 4, WorkspaceID: 7, Title: "VAT", RateInBps: 2100}
		mock.ExpectQuery(quoted("UPDATE general_taxes SET workspace_id = $1, title = $2, description = $3, rate_in_bps = $4, version = version + 1 WHERE id = $5 AND workspace_id = $6 RETURNING version")).
			WithArgs(int64(7), "VAT", nil, 2100, int64(4), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))

		require.NoError(t, repo.Save(ctx, tax))
		assert.Equal(t, 1, tax.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("page", func(t *testing.T) {
		rate := query.NewPath(TaxAlias, "rateInBps", "rate_in_bps")
		page := query.PageRequest{
			PageSize:  10,
			Sort:      query.Sort{{Path: rate, Direction: query.Asc}},
			Predicate: rate.Goe(1000),
		}
		mock.ExpectQuery(quoted("SELECT COUNT(*) FROM general_taxes tax WHERE tax.workspace_id = $1 AND tax.rate_in_bps >= $2")).
			WithArgs(int64(7), 1000).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectQuery(quoted("ORDER BY tax.rate_in_bps ASC LIMIT $3 OFFSET $4")).
			WithArgs(int64(7), 1000, 10, 0).
			WillReturnRows(sqlmock.NewRows(taxColumns).AddRow(int64(3), int64(1), int64(7), "VAT", "standard", 2000))

		result, err := repo.FindPage(ctx, 7, page)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		require.NotNil(t, result.Items[0].Description)
		assert.Equal(t, "standard", *result.Items[0].Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
