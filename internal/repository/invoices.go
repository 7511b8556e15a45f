package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simpleaccounting/backend/internal/models"
)

type InvoiceRepository struct {
	base
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{base{db: db}}
}

func (r *InvoiceRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.q(ctx).QueryRowContext(ctx, `
		SELECT id, workspace_id, title, currency, amount, date_issued, due_date, date_paid, version
		FROM invoices
		WHERE id = $1 AND workspace_id = $2`,
		id, workspaceID).Scan(
		&inv.ID, &inv.WorkspaceID, &inv.Title, &inv.Currency, &inv.Amount,
		&inv.DateIssued, &inv.DueDate, &inv.DatePaid, &inv.Version)
	found, err := notFoundOr(inv, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", id, err)
	}
	return found, nil
}

// Save updates the editable invoice fields and bumps the version.
func (r *InvoiceRepository) Save(ctx context.Context, inv *models.Invoice) error {
	err := r.q(ctx).QueryRowContext(ctx, `
		UPDATE invoices
		SET title = $1, currency = $2, amount = $3, date_issued = $4, due_date = $5, date_paid = $6,
			version = version + 1
		WHERE id = $7 AND workspace_id = $8
		RETURNING version`,
		inv.Title, inv.Currency, inv.Amount, inv.DateIssued, inv.DueDate, inv.DatePaid,
		inv.ID, inv.WorkspaceID).Scan(&inv.Version)
	if err != nil {
		return updateFailed("Invoice", inv.ID, err)
	}
	return nil
}
