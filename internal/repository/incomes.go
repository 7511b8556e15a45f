package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

// IncomeAlias is the table alias income predicates are built against.
const IncomeAlias = "income"

var incomeColumns = append(append([]string{}, recordColumns...), "date_received", "linked_invoice_id")

var incomesPage = pageQuery{
	columns: qualify(IncomeAlias, incomeColumns),
	from:    "incomes income LEFT JOIN categories category ON category.id = income.category_id",
	alias:   IncomeAlias,
}

type IncomeRepository struct {
	base
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{base{db: db}}
}

func scanIncome(row interface{ Scan(...any) error }) (models.Income, error) {
	var income models.Income
	targets := append(recordScanTargets(&income.FinancialRecord), &income.DateReceived, &income.LinkedInvoiceID)
	err := row.Scan(targets...)
	return income, err
}

// FindByIDAndWorkspaceID returns nil when the income does not exist in the workspace.
func (r *IncomeRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Income, error) {
	row := r.q(ctx).QueryRowContext(ctx,
		"SELECT "+incomesPage.columns+" FROM incomes income WHERE income.id = $1 AND income.workspace_id = $2",
		id, workspaceID)
	income, err := notFoundOr(scanIncome(row))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income %d: %w", id, err)
	}
	return income, nil
}

// Save inserts a new income or updates an existing one, bumping its version.
func (r *IncomeRepository) Save(ctx context.Context, income *models.Income) error {
	columns := incomeColumns[2:]
	values := append(recordValues(&income.FinancialRecord), income.DateReceived, income.LinkedInvoiceID)

	if income.ID == 0 {
		err := r.q(ctx).QueryRowContext(ctx, insertSQL("incomes", columns), values...).
			Scan(&income.ID, &income.Version)
		if err != nil {
			return fmt.Errorf("failed to insert income: %w", err)
		}
		return nil
	}

	values = append(values, income.ID, income.WorkspaceID)
	if err := r.q(ctx).QueryRowContext(ctx, updateSQL("incomes", columns), values...).Scan(&income.Version); err != nil {
		return updateFailed("Income", income.ID, err)
	}
	return nil
}

// FindPage lists the workspace incomes matching the page request.
func (r *IncomeRepository) FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Income], error) {
	return findPage(ctx, r.q(ctx), incomesPage, workspaceID, page, func(rows *sql.Rows) (models.Income, error) {
		return scanIncome(rows)
	})
}
