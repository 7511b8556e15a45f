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

// EditIncomeRequest is the body of income create and update requests.
type EditIncomeRequest struct {
	Category                               *int64  `json:"category"`
	DateReceived                           string  `json:"dateReceived" validate:"required,datetime=2006-01-02"`
	Title                                  string  `json:"title" validate:"required,max=255"`
	Currency                               string  `json:"currency" validate:"required,len=3"`
	OriginalAmount                         int64   `json:"originalAmount" validate:"min=0"`
	AmountInDefaultCurrency                *int64  `json:"amountInDefaultCurrency" validate:"omitempty,min=0"`
	UseDifferentExchangeRateForTaxPurposes bool    `json:"useDifferentExchangeRateForTaxPurposes"`
	ReportedAmountInDefaultCurrency        *int64  `json:"reportedAmountInDefaultCurrency" validate:"omitempty,min=0"`
	Attachments                            []int64 `json:"attachments"`
	Notes                                  *string `json:"notes" validate:"omitempty,max=1024"`
	Tax                                    *int64  `json:"tax"`
	LinkedInvoice                          *int64  `json:"linkedInvoice"`
}

// IncomeResponse is the wire shape of an income.
type IncomeResponse struct {
	ID                                     int64               `json:"id"`
	Version                                int                 `json:"version"`
	Category                               *int64              `json:"category,omitempty"`
	Title                                  string              `json:"title"`
	TimeRecorded                           time.Time           `json:"timeRecorded"`
	DateReceived                           string              `json:"dateReceived"`
	Currency                               string              `json:"currency"`
	OriginalAmount                         int64               `json:"originalAmount"`
	ConvertedAmounts                       money.AmountPair    `json:"convertedAmounts"`
	TaxableAmounts                         money.AmountPair    `json:"taxableAmounts"`
	UseDifferentExchangeRateForTaxPurposes bool                `json:"useDifferentExchangeRateForTaxPurposes"`
	Attachments                            []int64             `json:"attachments"`
	Notes                                  *string             `json:"notes,omitempty"`
	Status                                 models.RecordStatus `json:"status"`
	LinkedInvoice                          *int64              `json:"linkedInvoice,omitempty"`
	Tax                                    *int64              `json:"tax,omitempty"`
	TaxRateInBps                           *int                `json:"taxRateInBps,omitempty"`
	TaxAmount                              money.NullAmount    `json:"taxAmount"`
}

type IncomeHandler struct {
	service    *services.IncomeService
	workspaces WorkspaceAccess
	pages      PageResolver
	validator  *services.ValidationHelper
}

func NewIncomeHandler(service *services.IncomeService, workspaces WorkspaceAccess, pages PageResolver) *IncomeHandler {
	return &IncomeHandler{
		service:    service,
		workspaces: workspaces,
		pages:      pages,
		validator:  services.NewValidationHelper(),
	}
}

var incomeDescriptor = services.IncomeDescriptor()

// Routes mounts the income endpoints under /incomes.
func (h *IncomeHandler) Routes(r chi.Router) {
	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", h.ListIncomes)
		r.Post("/", h.CreateIncome)
		r.Get("/{incomeId}", h.GetIncome)
		r.Put("/{incomeId}", h.UpdateIncome)
	})
}

func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadWrite)
	if err != nil {
		services.SendError(w, err)
		return
	}

	var req EditIncomeRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	income := &models.Income{}
	req.applyTo(income)
	if err := h.service.SaveIncome(r.Context(), ws, income); err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toIncomeResponse(*income))
}

func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadWrite)
	if err != nil {
		services.SendError(w, err)
		return
	}

	id, err := idParam(r, "incomeId")
	if err != nil {
		services.SendError(w, err)
		return
	}

	var req EditIncomeRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	income, err := h.service.GetIncome(r.Context(), ws, id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	req.applyTo(income)
	if err := h.service.SaveIncome(r.Context(), ws, income); err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toIncomeResponse(*income))
}

func (h *IncomeHandler) GetIncome(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadOnly)
	if err != nil {
		services.SendError(w, err)
		return
	}

	id, err := idParam(r, "incomeId")
	if err != nil {
		services.SendError(w, err)
		return
	}

	income, err := h.service.GetIncome(r.Context(), ws, id)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toIncomeResponse(*income))
}

func (h *IncomeHandler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadOnly)
	if err != nil {
		services.SendError(w, err)
		return
	}

	page, err := h.pages.Resolve(r.URL.Query(), incomeDescriptor)
	if err != nil {
		services.SendError(w, err)
		return
	}

	incomes, err := h.service.GetIncomes(r.Context(), ws, page)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toPageResponse(incomes, toIncomeResponse))
}

func (req EditIncomeRequest) applyTo(income *models.Income) {
	income.CategoryID = req.Category
	income.DateReceived = parseDate(req.DateReceived)
	income.Title = req.Title
	income.Currency = req.Currency
	income.OriginalAmount = req.OriginalAmount
	income.ConvertedAmounts = money.Unadjusted(money.AmountFromPtr(req.AmountInDefaultCurrency))
	income.UseDifferentExchangeRateForTaxPurposes = req.UseDifferentExchangeRateForTaxPurposes
	income.TaxableAmounts = money.Unadjusted(money.AmountFromPtr(req.ReportedAmountInDefaultCurrency))
	income.Attachments = ensureAttachments(req.Attachments)
	income.Notes = req.Notes
	income.TaxID = req.Tax
	income.LinkedInvoiceID = req.LinkedInvoice
}

func toIncomeResponse(income models.Income) IncomeResponse {
	return IncomeResponse{
		ID:                                     income.ID,
		Version:                                income.Version,
		Category:                               income.CategoryID,
		Title:                                  income.Title,
		TimeRecorded:                           income.TimeRecorded,
		DateReceived:                           income.DateReceived.Format(query.DateLayout),
		Currency:                               income.Currency,
		OriginalAmount:                         income.OriginalAmount,
		ConvertedAmounts:                       income.ConvertedAmounts,
		TaxableAmounts:                         income.TaxableAmounts,
		UseDifferentExchangeRateForTaxPurposes: income.UseDifferentExchangeRateForTaxPurposes,
		Attachments:                            ensureAttachments(income.Attachments),
		Notes:                                  income.Notes,
		Status:                                 income.Status,
		LinkedInvoice:                          income.LinkedInvoiceID,
		Tax:                                    income.TaxID,
		TaxRateInBps:                           income.TaxRateInBps,
		TaxAmount:                              income.TaxAmount,
	}
}
