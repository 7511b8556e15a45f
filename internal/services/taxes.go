package services

import (
	"context"

	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

type TaxService struct {
	taxes TaxRepository
}

func NewTaxService(taxes TaxRepository) *TaxService {
	return &TaxService{taxes: taxes}
}

func (s *TaxService) SaveTax(ctx context.Context, ws *models.Workspace, tax *models.Tax) error {
	if tax.RateInBps < 0 {
		return apperr.Validation("'%d' is not a valid tax rate", tax.RateInBps)
	}
	tax.WorkspaceID = ws.ID
	return s.taxes.Save(ctx, tax)
}

func (s *TaxService) GetTaxes(ctx context.Context, ws *models.Workspace, page query.PageRequest) (query.Page[models.Tax], error) {
	return s.taxes.FindPage(ctx, ws.ID, page)
}
