package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/money"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/simpleaccounting/backend/internal/services"
)

// EditExpenseRequest is the body of expense create and update requests.
type EditExpenseRequest struct {
	Category                               *int64  `json:"category"`
	DatePaid                               string  `json:"datePaid" validate:"required,datetime=2006-01-02"`
	Title                                  string  `json:"title" validate:"required,max=255"`
	Currency                               string  `json:"currency" validate:"required,len=3"`
	OriginalAmount                         int64   `json:"originalAmount" validate:"min=0"`
	AmountInDefaultCurrency                *int64  `json:"amountInDefaultCurrency" validate:"omitempty,min=0"`
	UseDifferentExchangeRateForTaxPurposes bool    `json:"useDifferentExchangeRateForTaxPurposes"`
	ActualAmountInDefaultCurrency          *int64  `json:"actualAmountInDefaultCurrency" validate:"omitempty,min=0"`
	Attachments                            []int64 `json:"attachments"`
	PercentOnBusiness                      *int    `json:"percentOnBusiness" validate:"omitempty,min=1,max=100"`
	Notes                                  *string `json:"notes" validate:"omitempty,max=1024"`
	Tax                                    *int64  `json:"tax"`
}

// ExpenseResponse is the wire shape of an expense.
type ExpenseResponse struct {
	ID                                     int64               `json:"id"`
	Version                                int                 `json:"version"`
	Category                               *int64              `json:"category,omitempty"`
	Title                                  string              `json:"title"`
	TimeRecorded                           time.Time           `json:"timeRecorded"`
	DatePaid                               string              `json:"datePaid"`
	Currency                               string              `json:"currency"`
	OriginalAmount                         int64               `json:"originalAmount"`
	ConvertedAmounts                       money.AmountPair    `json:"convertedAmounts"`
	TaxableAmounts                         money.AmountPair    `json:"taxableAmounts"`
	UseDifferentExchangeRateForTaxPurposes bool                `json:"useDifferentExchangeRateForTaxPurposes"`
	Attachments                            []int64             `json:"attachments"`
	PercentOnBusiness                      int                 `json:"percentOnBusiness"`
	Notes                                  *string             `json:"notes,omitempty"`
	Status                                 models.RecordStatus `json:"status"`
	Tax                                    *int64              `json:"tax,omitempty"`
	TaxRateInBps                           *int                `json:"taxRateInBps,omitempty"`
	TaxAmount                              money.NullAmount    `json:"taxAmount"`
}

type ExpenseHandler struct {
	service    *services.ExpenseService
	workspaces WorkspaceAccess
	pages      PageResolver
	validator  *services.ValidationHelper
}

func NewExpenseHandler(service *services.ExpenseService, workspaces WorkspaceAccess, pages PageResolver) *ExpenseHandler {
	return &ExpenseHandler{
		service:    service,
		workspaces: workspaces,
		pages:      pages,
		validator:  services.NewValidationHelper(),
	}
}

var expenseDescriptor = services.ExpenseDescriptor()

// Routes mounts the expense endpoints under /expenses.
func (h *ExpenseHandler) Routes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.ListExpenses)
		r.Post("/", h.CreateExpense)
		r.Get("/{expenseId}", h.GetExpense)
		r.Put("/{expenseId}", h.UpdateExpense)
	})
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadWrite)
	if err != nil {
		services.SendError(w, err)
		return
	}

	var req EditExpenseRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	expense := &models.Expense{}
	req.applyTo(expense)
	if err := h.service.SaveExpense(r.Context(), ws, expense); err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadWrite)
	if err != nil {
		services.SendError(w, err)
		return
	}

	id, err := idParam(r, "expenseId")
	if err != nil {
		services.SendError(w, err)
		return
	}

	var req EditExpenseRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	expense, err := h.service.GetExpense(r.Context(), ws, id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	req.applyTo(expense)
	if err := h.service.SaveExpense(r.Context(), ws, expense); err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadOnly)
	if err != nil {
		services.SendError(w, err)
		return
	}

	id, err := idParam(r, "expenseId")
	if err != nil {
		services.SendError(w, err)
		return
	}

	expense, err := h.service.GetExpense(r.Context(), ws, id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadOnly)
	if err != nil {
		services.SendError(w, err)
		return
	}

	page, err := h.pages.Resolve(r.URL.Query(), expenseDescriptor)
	if err != nil {
		services.SendError(w, err)
		return
	}

	expenses, err := h.service.GetExpenses(r.Context(), ws, page)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toPageResponse(expenses, toExpenseResponse))
}

func (req EditExpenseRequest) applyTo(expense *models.Expense) {
	expense.CategoryID = req.Category
	expense.DatePaid = parseDate(req.DatePaid)
	expense.Title = req.Title
	expense.Currency = req.Currency
	expense.OriginalAmount = req.OriginalAmount
	expense.ConvertedAmounts = money.Unadjusted(money.AmountFromPtr(req.AmountInDefaultCurrency))
	expense.UseDifferentExchangeRateForTaxPurposes = req.UseDifferentExchangeRateForTaxPurposes
	expense.TaxableAmounts = money.Unadjusted(money.AmountFromPtr(req.ActualAmountInDefaultCurrency))
	expense.Attachments = ensureAttachments(req.Attachments)
	expense.PercentOnBusiness = services.DefaultPercentOnBusiness
	if req.PercentOnBusiness != nil {
		expense.PercentOnBusiness = *req.PercentOnBusiness
	}
	expense.Notes = req.Notes
	expense.TaxID = req.Tax
}

func toExpenseResponse(expense models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                                     expense.ID,
		Version:                                expense.Version,
		Category:                               expense.CategoryID,
		Title:                                  expense.Title,
		TimeRecorded:                           expense.TimeRecorded,
		DatePaid:                               expense.DatePaid.Format(query.DateLayout),
		Currency:                               expense.Currency,
		OriginalAmount:                         expense.OriginalAmount,
		ConvertedAmounts:                       expense.ConvertedAmounts,
		TaxableAmounts:                         expense.TaxableAmounts,
		UseDifferentExchangeRateForTaxPurposes: expense.UseDifferentExchangeRateForTaxPurposes,
		Attachments:                            ensureAttachments(expense.Attachments),
		PercentOnBusiness:                      expense.PercentOnBusiness,
		Notes:                                  expense.Notes,
		Status:                                 expense.Status,
		Tax:                                    expense.TaxID,
		TaxRateInBps:                           expense.TaxRateInBps,
		TaxAmount:                              expense.TaxAmount,
	}
}
