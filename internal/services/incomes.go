package services

import (
	"context"
	"time"

	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/audit"
	"github.com/simpleaccounting/backend/internal/database"
	"github.com/simpleaccounting/backend/internal/events"
	"github.com/simpleaccounting/backend/internal/logger"
	"github.com/simpleaccounting/backend/internal/middleware"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

type IncomeRepository interface {
	FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Income, error)
	Save(ctx context.Context, income *models.Income) error
	FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Income], error)
}

type InvoiceRepository interface {
	FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Invoice, error)
	Save(ctx context.Context, invoice *models.Invoice) error
}

// EventPublisher fires notifications without waiting for delivery.
type EventPublisher interface {
	Fire(ctx context.Context, topic string, payload any)
}

// RecordSaved is the payload of the incomes.saved and expenses.saved topics.
type RecordSaved struct {
	ID          int64               `json:"id"`
	WorkspaceID int64               `json:"workspaceId"`
	Version     int                 `json:"version"`
	Status      models.RecordStatus `json:"status"`
}

// InvoicePaid is the payload of the invoices.paid topic.
type InvoicePaid struct {
	InvoiceID   int64     `json:"invoiceId"`
	WorkspaceID int64     `json:"workspaceId"`
	IncomeID    int64     `json:"incomeId"`
	DatePaid    time.Time `json:"datePaid"`
}

type IncomeService struct {
	finalizer *RecordFinalizer
	incomes   IncomeRepository
	invoices  InvoiceRepository
	tx        database.Transactor
	events    EventPublisher
	audit     *audit.Logger
	now       func() time.Time
}

func NewIncomeService(
	finalizer *RecordFinalizer,
	incomes IncomeRepository,
	invoices InvoiceRepository,
	tx database.Transactor,
	publisher EventPublisher,
	auditLogger *audit.Logger,
) *IncomeService {
	return &IncomeService{
		finalizer: finalizer,
		incomes:   incomes,
		invoices:  invoices,
		tx:        tx,
		events:    publisher,
		audit:     auditLogger,
		now:       time.Now,
	}
}

// SaveIncome finalizes and persists the income. A linked invoice is marked as
// paid on the income's received date in the same transaction.
func (s *IncomeService) SaveIncome(ctx context.Context, ws *models.Workspace, income *models.Income) error {
	log := logger.FromContext(ctx).With().Int64("workspace_id", ws.ID).Logger()
	user := middleware.CurrentUser(ctx)

	var invoice *models.Invoice
	linkedInvoice := func(ctx context.Context) error {
		if income.LinkedInvoiceID == nil {
			return nil
		}
		found, err := s.invoices.FindByIDAndWorkspaceID(ctx, *income.LinkedInvoiceID, ws.ID)
		if err != nil {
			return err
		}
		if found == nil {
			return apperr.NotFound("Invoice", *income.LinkedInvoiceID)
		}
		invoice = found
		return nil
	}

	if err := s.finalizer.Finalize(ctx, ws, &income.FinancialRecord, linkedInvoice); err != nil {
		return err
	}
	if income.ID == 0 {
		income.TimeRecorded = s.now().UTC()
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if invoice != nil {
			datePaid := income.DateReceived
			invoice.DatePaid = &datePaid
			if err := s.invoices.Save(ctx, invoice); err != nil {
				return err
			}
		}
		return s.incomes.Save(ctx, income)
	})
	if err != nil {
		s.audit.LogError("Income", ws.ID, user, err)
		return err
	}

	log.Debug().
		Int64("income_id", income.ID).
		Str("status", string(income.Status)).
		Msg("income saved")
	s.audit.LogRecordSaved("Income", income.ID, ws.ID, user, income.OriginalAmount, string(income.Status))
	s.events.Fire(ctx, events.TopicIncomeSaved, RecordSaved{
		ID:          income.ID,
		WorkspaceID: ws.ID,
		Version:     income.Version,
		Status:      income.Status,
	})

	if invoice != nil {
		s.audit.LogInvoicePaid(invoice.ID, ws.ID, income.ID, user, *invoice.DatePaid)
		s.events.Fire(ctx, events.TopicInvoicePaid, InvoicePaid{
			InvoiceID:   invoice.ID,
			WorkspaceID: ws.ID,
			IncomeID:    income.ID,
			DatePaid:    *invoice.DatePaid,
		})
	}
	return nil
}

func (s *IncomeService) GetIncome(ctx context.Context, ws *models.Workspace, id int64) (*models.Income, error) {
	income, err := s.incomes.FindByIDAndWorkspaceID(ctx, id, ws.ID)
	if err != nil {
		return nil, err
	}
	if income == nil {
		return nil, apperr.NotFound("Income", id)
	}
	return income, nil
}

func (s *IncomeService) GetIncomes(ctx context.Context, ws *models.Workspace, page query.PageRequest) (query.Page[models.Income], error) {
	return s.incomes.FindPage(ctx, ws.ID, page)
}
