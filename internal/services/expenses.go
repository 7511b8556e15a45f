package services

import (
	"context"
	"time"

	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/audit"
	"github.com/simpleaccounting/backend/internal/events"
	"github.com/simpleaccounting/backend/internal/logger"
	"github.com/simpleaccounting/backend/internal/middleware"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

// DefaultPercentOnBusiness applies when an expense does not say otherwise.
const DefaultPercentOnBusiness = 100

type ExpenseRepository interface {
	FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Expense, error)
	Save(ctx context.Context, expense *models.Expense) error
	FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Expense], error)
}

type ExpenseService struct {
	finalizer *RecordFinalizer
	expenses  ExpenseRepository
	events    EventPublisher
	audit     *audit.Logger
	now       func() time.Time
}

func NewExpenseService(finalizer *RecordFinalizer, expenses ExpenseRepository, publisher EventPublisher, auditLogger *audit.Logger) *ExpenseService {
	return &ExpenseService{
		finalizer: finalizer,
		expenses:  expenses,
		events:    publisher,
		audit:     auditLogger,
		now:       time.Now,
	}
}

func (s *ExpenseService) SaveExpense(ctx context.Context, ws *models.Workspace, expense *models.Expense) error {
	user := middleware.CurrentUser(ctx)

	if expense.PercentOnBusiness == 0 {
		expense.PercentOnBusiness = DefaultPercentOnBusiness
	}
	if expense.PercentOnBusiness < 1 || expense.PercentOnBusiness > 100 {
		return apperr.Validation("'%d' is not a valid percent on business", expense.PercentOnBusiness)
	}

	if err := s.finalizer.Finalize(ctx, ws, &expense.FinancialRecord); err != nil {
		return err
	}
	if expense.ID == 0 {
		expense.TimeRecorded = s.now().UTC()
	}

	if err := s.expenses.Save(ctx, expense); err != nil {
		s.audit.LogError("Expense", ws.ID, user, err)
		return err
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Int64("workspace_id", ws.ID).
		Int64("expense_id", expense.ID).
		Str("status", string(expense.Status)).
		Msg("expense saved")
	s.audit.LogRecordSaved("Expense", expense.ID, ws.ID, user, expense.OriginalAmount, string(expense.Status))
	s.events.Fire(ctx, events.TopicExpenseSaved, RecordSaved{
		ID:          expense.ID,
		WorkspaceID: ws.ID,
		Version:     expense.Version,
		Status:      expense.Status,
	})
	return nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, ws *models.Workspace, id int64) (*models.Expense, error) {
	expense, err := s.expenses.FindByIDAndWorkspaceID(ctx, id, ws.ID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperr.NotFound("Expense", id)
	}
	return expense, nil
}

func (s *ExpenseService) GetExpenses(ctx context.Context, ws *models.Workspace, page query.PageRequest) (query.Page[models.Expense], error) {
	return s.expenses.FindPage(ctx, ws.ID, page)
}
