package models

import (
	"time"

	"github.com/simpleaccounting/backend/internal/money"
)

// RecordStatus is derived on every save and never set by API callers.
type RecordStatus string

const (
	StatusFinalized                       RecordStatus = "FINALIZED"
	StatusPendingConversion               RecordStatus = "PENDING_CONVERSION"
	StatusPendingConversionForTaxPurposes RecordStatus = "PENDING_CONVERSION_FOR_TAXATION_PURPOSES"
)

// RecordStatuses lists every status in API order.
var RecordStatuses = []RecordStatus{
	StatusFinalized,
	StatusPendingConversion,
	StatusPendingConversionForTaxPurposes,
}

// FinancialRecord holds the fields shared by incomes and expenses.
type FinancialRecord struct {
	ID          int64   `json:"id" db:"id"`
	Version     int     `json:"version" db:"version"`
	WorkspaceID int64   `json:"workspaceId" db:"workspace_id"`
	CategoryID  *int64  `json:"category,omitempty" db:"category_id"`
	Title       string  `json:"title" db:"title"`
	Notes       *string `json:"notes,omitempty" db:"notes"`

	Currency       string `json:"currency" db:"currency"`
	OriginalAmount int64  `json:"originalAmount" db:"original_amount"`

	ConvertedAmounts money.AmountPair `json:"convertedAmounts"`

	// TaxableAmounts may use a different exchange rate than ConvertedAmounts
	// when UseDifferentExchangeRateForTaxPurposes is set.
	TaxableAmounts                         money.AmountPair `json:"taxableAmounts"`
	UseDifferentExchangeRateForTaxPurposes bool             `json:"useDifferentExchangeRateForTaxPurposes" db:"use_different_exchange_rate_for_tax_purposes"`

	TaxID        *int64           `json:"tax,omitempty" db:"tax_id"`
	TaxRateInBps *int             `json:"taxRateInBps,omitempty" db:"tax_rate_in_bps"`
	TaxAmount    money.NullAmount `json:"taxAmount" db:"tax_amount"`

	Status       RecordStatus `json:"status" db:"status"`
	Attachments  []int64      `json:"attachments" db:"attachments"`
	TimeRecorded time.Time    `json:"timeRecorded" db:"time_recorded"`
}

// DeriveStatus computes the status from the adjusted amounts.
func (r *FinancialRecord) DeriveStatus() RecordStatus {
	switch {
	case !r.ConvertedAmounts.AdjustedAmountInDefaultCurrency.Valid:
		return StatusPendingConversion
	case !r.TaxableAmounts.AdjustedAmountInDefaultCurrency.Valid:
		return StatusPendingConversionForTaxPurposes
	default:
		return StatusFinalized
	}
}

// Income is money received by the workspace.
type Income struct {
	FinancialRecord
	DateReceived    time.Time `json:"dateReceived" db:"date_received"`
	LinkedInvoiceID *int64    `json:"linkedInvoice,omitempty" db:"linked_invoice_id"`
}

// Expense is money paid by the workspace.
type Expense struct {
	FinancialRecord
	DatePaid          time.Time `json:"datePaid" db:"date_paid"`
	PercentOnBusiness int       `json:"percentOnBusiness" db:"percent_on_business"`
}
