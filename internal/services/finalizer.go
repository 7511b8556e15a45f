package services

import (
	"context"
	"slices"

	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/money"
	"github.com/simpleaccounting/backend/internal/query"
	"golang.org/x/sync/errgroup"
)

type CategoryRepository interface {
	ExistsByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (bool, error)
}

type DocumentRepository interface {
	FindIDsByWorkspaceID(ctx context.Context, workspaceID int64, ids []int64) ([]int64, error)
}

type TaxRepository interface {
	FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Tax, error)
	Save(ctx context.Context, tax *models.Tax) error
	FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Tax], error)
}

// Check is an extra reference validation run together with the category and
// attachment checks.
type Check func(ctx context.Context) error

// RecordFinalizer computes the derived fields of a financial record before it
// is persisted.
type RecordFinalizer struct {
	categories CategoryRepository
	documents  DocumentRepository
	taxes      TaxRepository
}

func NewRecordFinalizer(categories CategoryRepository, documents DocumentRepository, taxes TaxRepository) *RecordFinalizer {
	return &RecordFinalizer{categories: categories, documents: documents, taxes: taxes}
}

// Finalize validates the record references and fills in the converted and
// taxable amounts, the tax snapshot and the status. Nothing is persisted.
func (f *RecordFinalizer) Finalize(ctx context.Context, ws *models.Workspace, r *models.FinancialRecord, checks ...Check) error {
	r.WorkspaceID = ws.ID

	if err := f.validateReferences(ctx, r, checks); err != nil {
		return err
	}

	if r.Currency == ws.DefaultCurrency {
		r.ConvertedAmounts = money.Unadjusted(money.Amount(r.OriginalAmount))
		r.TaxableAmounts = r.ConvertedAmounts
		r.UseDifferentExchangeRateForTaxPurposes = false
	}

	if !r.UseDifferentExchangeRateForTaxPurposes {
		r.TaxableAmounts = r.ConvertedAmounts
	}

	rate, err := f.resolveTaxRate(ctx, r)
	if err != nil {
		return err
	}
	r.TaxRateInBps = rate

	r.ConvertedAmounts, _ = r.ConvertedAmounts.Adjust(rate)
	r.TaxableAmounts, r.TaxAmount = r.TaxableAmounts.Adjust(rate)
	r.Status = r.DeriveStatus()
	return nil
}

func (f *RecordFinalizer) validateReferences(ctx context.Context, r *models.FinancialRecord, checks []Check) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return f.validateCategory(gctx, r)
	})
	g.Go(func() error {
		return f.validateAttachments(gctx, r)
	})
	for _, check := range checks {
		check := check
		g.Go(func() error {
			return check(gctx)
		})
	}
	return g.Wait()
}

func (f *RecordFinalizer) validateCategory(ctx context.Context, r *models.FinancialRecord) error {
	if r.CategoryID == nil {
		return nil
	}
	exists, err := f.categories.ExistsByIDAndWorkspaceID(ctx, *r.CategoryID, r.WorkspaceID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Category", *r.CategoryID)
	}
	return nil
}

func (f *RecordFinalizer) validateAttachments(ctx context.Context, r *models.FinancialRecord) error {
	if len(r.Attachments) == 0 {
		return nil
	}
	found, err := f.documents.FindIDsByWorkspaceID(ctx, r.WorkspaceID, r.Attachments)
	if err != nil {
		return err
	}
	for _, id := range r.Attachments {
		if !slices.Contains(found, id) {
			return apperr.NotFound("Document", id)
		}
	}
	return nil
}

func (f *RecordFinalizer) resolveTaxRate(ctx context.Context, r *models.FinancialRecord) (*int, error) {
	if r.TaxID == nil {
		return nil, nil
	}
	tax, err := f.taxes.FindByIDAndWorkspaceID(ctx, *r.TaxID, r.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if tax == nil {
		return nil, apperr.NotFound("Tax", *r.TaxID)
	}
	rate := tax.RateInBps
	return &rate, nil
}
