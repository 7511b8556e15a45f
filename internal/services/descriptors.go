package services

import (
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/simpleaccounting/backend/internal/repository"
)

var categoryName = query.NewPath("category", "name", "name")

// recordDescriptor declares the filters and sorts incomes and expenses share.
// dateField is the API name of the record date, dateColumn its column.
func recordDescriptor(alias, dateField, dateColumn string) *query.Descriptor {
	d := query.NewDescriptor(alias)

	title := d.Path("title", "title")
	notes := d.Path("notes", "notes")
	date := d.Path(dateField, dateColumn)
	convertedAdjusted := d.Path("convertedAmounts.adjustedAmountInDefaultCurrency", "converted_adjusted_amount")
	taxableAdjusted := d.Path("taxableAmounts.adjustedAmountInDefaultCurrency", "taxable_adjusted_amount")

	query.ByAPIField(d, "freeSearchText", query.StringValue).
		OnOperator(query.Eq, func(text string) query.Predicate {
			return query.AnyOf(
				notes.ContainsIgnoreCase(text),
				title.ContainsIgnoreCase(text),
				categoryName.ContainsIgnoreCase(text),
			)
		})

	query.ByAPIField(d, "status", query.EnumValue(models.RecordStatuses...)).
		OnOperator(query.Eq, func(status models.RecordStatus) query.Predicate {
			switch status {
			case models.StatusFinalized:
				return query.AllOf(convertedAdjusted.IsNotNull(), taxableAdjusted.IsNotNull())
			case models.StatusPendingConversion:
				return convertedAdjusted.IsNull()
			default:
				return query.AllOf(convertedAdjusted.IsNotNull(), taxableAdjusted.IsNull())
			}
		})

	query.MapAPIFieldToPath(d, dateField, query.DateValue, date)

	currency := d.Path("currency", "currency")
	query.ByAPIField(d, "currency", query.StringValue).
		OnOperator(query.Eq, func(v string) query.Predicate { return currency.Eq(v) })

	category := d.Path("category", "category_id")
	query.ByAPIField(d, "category", query.Int64Value).
		OnOperator(query.Eq, func(v int64) query.Predicate { return category.Eq(v) })

	return d.
		SortableBy(dateField, date).
		SortableBy("title", title).
		SortableBy("originalAmount", d.Path("originalAmount", "original_amount")).
		SortableBy("id", d.Path("id", "id")).
		WithDefaultSort(query.Order{Path: date, Direction: query.Desc})
}

// IncomeDescriptor describes the pageable incomes listing.
func IncomeDescriptor() *query.Descriptor {
	return recordDescriptor(repository.IncomeAlias, "dateReceived", "date_received")
}

// ExpenseDescriptor describes the pageable expenses listing.
func ExpenseDescriptor() *query.Descriptor {
	return recordDescriptor(repository.ExpenseAlias, "datePaid", "date_paid")
}

// TaxDescriptor describes the pageable taxes listing.
func TaxDescriptor() *query.Descriptor {
	d := query.NewDescriptor(repository.TaxAlias)
	title := d.Path("title", "title")
	rate := d.Path("rateInBps", "rate_in_bps")

	query.ByAPIField(d, "title", query.StringValue).
		OnOperator(query.Eq, func(v string) query.Predicate { return title.ContainsIgnoreCase(v) })
	query.MapAPIFieldToPath(d, "rateInBps", query.Int64Value, rate)

	return d.
		SortableBy("title", title).
		SortableBy("rateInBps", rate)
}
