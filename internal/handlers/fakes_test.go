package handlers

import (
	"context"
	"slices"

	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

type fakeWorkspaces struct {
	workspaces map[int64]*models.Workspace
	modes      []models.WorkspaceAccessMode
}

func (f *fakeWorkspaces) GetAccessibleWorkspace(_ context.Context, id int64, mode models.WorkspaceAccessMode) (*models.Workspace, error) {
	f.modes = append(f.modes, mode)
	ws, ok := f.workspaces[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "Workspace", ID: id, Err: apperr.ErrWorkspaceNotAccessible}
	}
	return ws, nil
}

type fakeReferences struct {
	categories []int64
	documents  []int64
	taxes      map[int64]*models.Tax
	savedTaxes []*models.Tax
	taxPage    query.Page[models.Tax]
	lastPage   query.PageRequest
}

func (f *fakeReferences) ExistsByIDAndWorkspaceID(_ context.Context, id, _ int64) (bool, error) {
	return slices.Contains(f.categories, id), nil
}

func (f *fakeReferences) FindIDsByWorkspaceID(_ context.Context, _ int64, ids []int64) ([]int64, error) {
	var found []int64
	for _, id := range ids {
		if slices.Contains(f.documents, id) {
			found = append(found, id)
		}
	}
	return found, nil
}

func (f *fakeReferences) FindByIDAndWorkspaceID(_ context.Context, id, _ int64) (*models.Tax, error) {
	return f.taxes[id], nil
}

func (f *fakeReferences) Save(_ context.Context, tax *models.Tax) error {
	tax.ID = int64(len(f.savedTaxes) + 1)
	f.savedTaxes = append(f.savedTaxes, tax)
	return nil
}

func (f *fakeReferences) FindPage(_ context.Context, _ int64, page query.PageRequest) (query.Page[models.Tax], error) {
	f.lastPage = page
	result := f.taxPage
	result.PageNumber, result.PageSize = page.PageNumber, page.PageSize
	return result, nil
}

type fakeIncomes struct {
	stored   map[int64]models.Income
	nextID   int64
	lastPage query.PageRequest
}

func (f *fakeIncomes) FindByIDAndWorkspaceID(_ context.Context, id, workspaceID int64) (*models.Income, error) {
	income, ok := f.stored[id]
	if !ok || income.WorkspaceID != workspaceID {
		return nil, nil
	}
	return &income, nil
}

func (f *fakeIncomes) Save(_ context.Context, income *models.Income) error {
	if income.ID == 0 {
		f.nextID++
		income.ID = f.nextID
	} else {
		income.Version++
	}
	f.stored[income.ID] = *income
	return nil
}

func (f *fakeIncomes) FindPage(_ context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Income], error) {
	f.lastPage = page
	result := query.Page[models.Income]{PageNumber: page.PageNumber, PageSize: page.PageSize}
	for _, income := range f.stored {
		if income.WorkspaceID == workspaceID {
			result.Items = append(result.Items, income)
		}
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeExpenses struct {
	stored map[int64]models.Expense
	nextID int64
}

func (f *fakeExpenses) FindByIDAndWorkspaceID(_ context.Context, id, workspaceID int64) (*models.Expense, error) {
	expense, ok := f.stored[id]
	if !ok || expense.WorkspaceID != workspaceID {
		return nil, nil
	}
	return &expense, nil
}

func (f *fakeExpenses) Save(_ context.Context, expense *models.Expense) error {
	if expense.ID == 0 {
		f.nextID++
		expense.ID = f.nextID
	} else {
		expense.Version++
	}
	f.stored[expense.ID] = *expense
	return nil
}

func (f *fakeExpenses) FindPage(_ context.Context, _ int64, page query.PageRequest) (query.Page[models.Expense], error) {
	return query.Page[models.Expense]{PageNumber: page.PageNumber, PageSize: page.PageSize}, nil
}

type fakeInvoices struct {
	invoices map[int64]*models.Invoice
}

func (f *fakeInvoices) FindByIDAndWorkspaceID(_ context.Context, id, _ int64) (*models.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoices) Save(_ context.Context, invoice *models.Invoice) error {
	f.invoices[invoice.ID] = invoice
	return nil
}

type inlineTx struct{}

func (inlineTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type discardPublisher struct{}

func (discardPublisher) Fire(context.Context, string, any) {}
