// Package repository holds the Postgres repositories. Every lookup is scoped
// by workspace, and queries run on the transaction bound to the context when
// there is one.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/simpleaccounting/backend/internal/apperr"
	"github.com/simpleaccounting/backend/internal/database"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
)

type base struct {
	db *sql.DB
}

func (b base) q(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, b.db)
}

// pageQuery describes the FROM part of a listing. alias must match the entity
// of the descriptor used to build the predicate.
type pageQuery struct {
	columns string
	from    string
	alias   string
}

func findPage[T any](
	ctx context.Context,
	q database.Querier,
	lq pageQuery,
	workspaceID int64,
	page query.PageRequest,
	scan func(rows *sql.Rows) (T, error),
) (query.Page[T], error) {
	where, args := query.ToSQL(page.Predicate, 2)
	args = append([]any{workspaceID}, args...)
	filter := fmt.Sprintf("FROM %s WHERE %s.workspace_id = $1 AND %s", lq.from, lq.alias, where)

	result := query.Page[T]{PageNumber: page.PageNumber, PageSize: page.PageSize, Items: []T{}}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) "+filter, args...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("failed to count %s: %w", lq.alias, err)
	}

	limitArg := len(args) + 1
	parts := []string{"SELECT " + lq.columns, filter}
	if orderBy := page.Sort.OrderBy(); orderBy != "" {
		parts = append(parts, orderBy)
	}
	parts = append(parts, "LIMIT $"+strconv.Itoa(limitArg)+" OFFSET $"+strconv.Itoa(limitArg+1))
	stmt := strings.Join(parts, " ")
	args = append(args, page.PageSize, page.Offset())

	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return result, fmt.Errorf("failed to query %s: %w", lq.alias, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return result, fmt.Errorf("failed to scan %s: %w", lq.alias, err)
		}
		result.Items = append(result.Items, item)
	}
	return result, rows.Err()
}

// recordColumns are the FinancialRecord columns shared by incomes and expenses.
var recordColumns = []string{
	"id",
	"version",
	"workspace_id",
	"category_id",
	"title",
	"notes",
	"currency",
	"original_amount",
	"converted_original_amount",
	"converted_adjusted_amount",
	"taxable_original_amount",
	"taxable_adjusted_amount",
	"use_different_exchange_rate_for_tax_purposes",
	"tax_id",
	"tax_rate_in_bps",
	"tax_amount",
	"status",
	"attachment_ids",
	"time_recorded",
}

func qualify(alias string, columns []string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

func recordScanTargets(r *models.FinancialRecord) []any {
	return []any{
		&r.ID,
		&r.Version,
		&r.WorkspaceID,
		&r.CategoryID,
		&r.Title,
		&r.Notes,
		&r.Currency,
		&r.OriginalAmount,
		&r.ConvertedAmounts.OriginalAmountInDefaultCurrency,
		&r.ConvertedAmounts.AdjustedAmountInDefaultCurrency,
		&r.TaxableAmounts.OriginalAmountInDefaultCurrency,
		&r.TaxableAmounts.AdjustedAmountInDefaultCurrency,
		&r.UseDifferentExchangeRateForTaxPurposes,
		&r.TaxID,
		&r.TaxRateInBps,
		&r.TaxAmount,
		&r.Status,
		pq.Array(&r.Attachments),
		&r.TimeRecorded,
	}
}

// recordValues are the values of recordColumns without id and version.
func recordValues(r *models.FinancialRecord) []any {
	return []any{
		r.WorkspaceID,
		r.CategoryID,
		r.Title,
		r.Notes,
		r.Currency,
		r.OriginalAmount,
		r.ConvertedAmounts.OriginalAmountInDefaultCurrency,
		r.ConvertedAmounts.AdjustedAmountInDefaultCurrency,
		r.TaxableAmounts.OriginalAmountInDefaultCurrency,
		r.TaxableAmounts.AdjustedAmountInDefaultCurrency,
		r.UseDifferentExchangeRateForTaxPurposes,
		r.TaxID,
		r.TaxRateInBps,
		r.TaxAmount,
		string(r.Status),
		pq.Array(r.Attachments),
		r.TimeRecorded,
	}
}

// insertSQL builds "INSERT INTO table (cols) VALUES ($1..$n) RETURNING id, version".
func insertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id, version",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// updateSQL builds an update of columns by id and workspace_id that bumps the
// version. The id and workspace id are the last two args.
func updateSQL(table string, columns []string) string {
	sets := make([]string, 0, len(columns)+1)
	for i, c := range columns {
		sets = append(sets, c+" = $"+strconv.Itoa(i+1))
	}
	sets = append(sets, "version = version + 1")
	n := len(columns)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND workspace_id = $%d RETURNING version",
		table, strings.Join(sets, ", "), n+1, n+2)
}

func notFoundOr[T any](v T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// updateFailed wraps the error of an UPDATE ... RETURNING. No returned row
// means the record is gone from the workspace.
func updateFailed(entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &apperr.NotFoundError{Entity: entity, ID: id, Err: err}
	}
	return fmt.Errorf("failed to update %s %d: %w", strings.ToLower(entity), id, err)
}
