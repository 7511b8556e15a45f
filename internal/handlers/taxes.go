package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/services"
)

// EditTaxRequest is the body of tax create requests.
type EditTaxRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	RateInBps   int     `json:"rateInBps" validate:"min=0"`
}

type TaxHandler struct {
	service    *services.TaxService
	workspaces WorkspaceAccess
	pages      PageResolver
	validator  *services.ValidationHelper
}

func NewTaxHandler(service *services.TaxService, workspaces WorkspaceAccess, pages PageResolver) *TaxHandler {
	return &TaxHandler{
		service:    service,
		workspaces: workspaces,
		pages:      pages,
		validator:  services.NewValidationHelper(),
	}
}

var taxDescriptor = services.TaxDescriptor()

// Routes mounts the tax endpoints under /taxes.
func (h *TaxHandler) Routes(r chi.Router) {
	r.Route("/taxes", func(r chi.Router) {
		r.Get("/", h.ListTaxes)
		r.Post("/", h.CreateTax)
	})
}

func (h *TaxHandler) CreateTax(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadWrite)
	if err != nil {
		services.SendError(w, err)
		return
	}

	var req EditTaxRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	tax := &models.Tax{Title: req.Title, Description: req.Description, RateInBps: req.RateInBps}
	if err := h.service.SaveTax(r.Context(), ws, tax); err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, tax)
}

func (h *TaxHandler) ListTaxes(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace(r, h.workspaces, models.WorkspaceAccessReadOnly)
	if err != nil {
		services.SendError(w, err)
		return
	}

	page, err := h.pages.Resolve(r.URL.Query(), taxDescriptor)
	if err != nil {
		services.SendError(w, err)
		return
	}

	taxes, err := h.service.GetTaxes(r.Context(), ws, page)
	if err != nil {
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, toPageResponse(taxes, func(t models.Tax) models.Tax { return t }))
}
