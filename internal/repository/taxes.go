package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

// TaxAlias is the table alias tax predicates are built against.
const TaxAlias = "tax"

var taxColumns = []string{"id", "version", "workspace_id", "title", "description", "rate_in_bps"}

var taxesPage = pageQuery{
	columns: qualify(TaxAlias, taxColumns),
	from:    "general_taxes tax",
	alias:   TaxAlias,
}

type TaxRepository struct {
	base
}

func NewTaxRepository(db *sql.DB) *TaxRepository {
	return &TaxRepository{base{db: db}}
}

func scanTax(row interface{ Scan(...any) error }) (models.Tax, error) {
	var tax models.Tax
	err := row.Scan(&tax.ID, &tax.Version, &tax.WorkspaceID, &tax.Title, &tax.Description, &tax.RateInBps)
	return tax, err
}

func (r *TaxRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Tax, error) {
	row := r.q(ctx).QueryRowContext(ctx,
		"SELECT "+taxesPage.columns+" FROM general_taxes tax WHERE tax.id = $1 AND tax.workspace_id = $2",
		id, workspaceID)
	tax, err := notFoundOr(scanTax(row))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax %d: %w", id, err)
	}
	return tax, nil
}

func (r *TaxRepository) Save(ctx context.Context, tax *models.Tax) error {
	columns := taxColumns[2:]
	values := []any{tax.WorkspaceID, tax.Title, tax.Description, tax.RateInBps}

	if tax.ID == 0 {
		if err := r.q(ctx).QueryRowContext(ctx, insertSQL("general_taxes", columns), values...).Scan(&tax.ID, &tax.Version); err != nil {
			return fmt.Errorf("failed to insert tax: %w", err)
		}
		return nil
	}

	values = append(values, tax.ID, tax.WorkspaceID)
	if err := r.q(ctx).QueryRowContext(ctx, updateSQL("general_taxes", columns), values...).Scan(&tax.Version); err != nil {
		return updateFailed("Tax", tax.ID, err)
	}
	return nil
}

func (r *TaxRepository) FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Tax], error) {
	return findPage(ctx, r.q(ctx), taxesPage, workspaceID, page, func(rows *sql.Rows) (models.Tax, error) {
		return scanTax(rows)
	})
}
