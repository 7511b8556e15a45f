package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

// ExpenseAlias is the table alias expense predicates are built against.
const ExpenseAlias = "expense"

var expenseColumns = append(append([]string{}, recordColumns...), "date_paid", "percent_on_business")

var expensesPage = pageQuery{
	columns: qualify(ExpenseAlias, expenseColumns),
	from:    "expenses expense LEFT JOIN categories category ON category.id = expense.category_id",
	alias:   ExpenseAlias,
}

type ExpenseRepository struct {
	base
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{base{db: db}}
}

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var expense models.Expense
	targets := append(recordScanTargets(&expense.FinancialRecord), &expense.DatePaid, &expense.PercentOnBusiness)
	err := row.Scan(targets...)
	return expense, err
}

// FindByIDAndWorkspaceID returns nil when the expense does not exist in the workspace.
func (r *ExpenseRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Expense, error) {
	row := r.q(ctx).QueryRowContext(ctx,
		"SELECT "+expensesPage.columns+" FROM expenses expense WHERE expense.id = $1 AND expense.workspace_id = $2",
		id, workspaceID)
	expense, err := notFoundOr(scanExpense(row))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense %d: %w", id, err)
	}
	return expense, nil
}

// Save inserts a new expense or updates an existing one, bumping its version.
func (r *ExpenseRepository) Save(ctx context.Context, expense *models.Expense) error {
	columns := expenseColumns[2:]
	values := append(recordValues(&expense.FinancialRecord), expense.DatePaid, expense.PercentOnBusiness)

	if expense.ID == 0 {
		err := r.q(ctx).QueryRowContext(ctx, insertSQL("expenses", columns), values...).
			Scan(&expense.ID, &expense.Version)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return nil
	}

	values = append(values, expense.ID, expense.WorkspaceID)
	if err := r.q(ctx).QueryRowContext(ctx, updateSQL("expenses", columns), values...).Scan(&expense.Version); err != nil {
		return updateFailed("Expense", expense.ID, err)
	}
	return nil
}

// FindPage lists the workspace expenses matching the page request.
func (r *ExpenseRepository) FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Expense], error) {
	return findPage(ctx, r.q(ctx), expensesPage, workspaceID, page, func(rows *sql.Rows) (models.Expense, error) {
		return scanExpense(rows)
	})
}
