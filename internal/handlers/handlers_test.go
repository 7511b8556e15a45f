package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/simpleaccounting/backend/internal/audit"
	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/simpleaccounting/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router     chi.Router
	workspaces *fakeWorkspaces
	refs       *fakeReferences
	incomes    *fakeIncomes
	expenses   *fakeExpenses
	invoices   *fakeInvoices
}

func newTestAPI() *testAPI {
	api := &testAPI{
		workspaces: &fakeWorkspaces{workspaces: map[int64]*models.Workspace{
			7: {ID: 7, Name: "Planet Express", OwnerUserName: "Fry", DefaultCurrency: "USD"},
		}},
		refs: &fakeReferences{
			categories: []int64{4},
			documents:  []int64{11},
			taxes:      map[int64]*models.Tax{3: {ID: 3, WorkspaceID: 7, Title: "VAT", RateInBps: 1000}},
		},
		incomes:  &fakeIncomes{stored: map[int64]models.Income{}},
		expenses: &fakeExpenses{stored: map[int64]models.Expense{}},
		invoices: &fakeInvoices{invoices: map[int64]*models.Invoice{}},
	}

	auditLog := audit.NewLogger(zerolog.Nop())
	finalizer := services.NewRecordFinalizer(api.refs, api.refs, api.refs)
	pages := query.NewResolver(query.DefaultLimit, query.MaxLimit)

	incomeHandler := NewIncomeHandler(
		services.NewIncomeService(finalizer, api.incomes, api.invoices, inlineTx{}, discardPublisher{}, auditLog),
		api.workspaces, pages)
	expenseHandler := NewExpenseHandler(
		services.NewExpenseService(finalizer, api.expenses, discardPublisher{}, auditLog),
		api.workspaces, pages)
	taxHandler := NewTaxHandler(services.NewTaxService(api.refs), api.workspaces, pages)

	r := chi.NewRouter()
	r.Route("/api/workspaces/{workspaceId}", func(r chi.Router) {
		incomeHandler.Routes(r)
		expenseHandler.Routes(r)
		taxHandler.Routes(r)
	})
	api.router = r
	return api
}

func (api *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestIncomeHandler_CreateIncome(t *testing.T) {
	t.Run("default currency income with tax", func(t *testing.T) {
		api := newTestAPI()
		rec := api.do(http.MethodPost, "/api/workspaces/7/incomes", `{
			"category": 4,
			"dateReceived": "2024-02-28",
			"title": "Delivery to Omicron Persei 8",
			"currency": "USD",
			"originalAmount": 1000,
			"attachments": [11],
			"tax": 3
		}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeJSON[IncomeResponse](t, rec)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "2024-02-28", resp.DateReceived)
		assert.Equal(t, models.StatusFinalized, resp.Status)
		assert.Equal(t, int64(909), resp.ConvertedAmounts.AdjustedAmountInDefaultCurrency.Int64)
		assert.Equal(t, int64(91), resp.TaxAmount.Int64)
		require.NotNil(t, resp.TaxRateInBps)
		assert.Equal(t, 1000, *resp.TaxRateInBps)
		assert.Equal(t, []int64{11}, resp.Attachments)
		assert.Equal(t, []models.WorkspaceAccessMode{models.WorkspaceAccessReadWrite}, api.workspaces.modes)
	})

	t.Run("validation failure", func(t *testing.T) {
		api := newTestAPI()
		rec := api.do(http.MethodPost, "/api/workspaces/7/incomes",
			`{"dateReceived": "2024-02-28", "title": "x", "currency": "DOLLAR", "originalAmount": 1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeJSON[services.ErrorResponse](t, rec)
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Contains(t, resp.Details, "Currency")
		assert.Empty(t, api.incomes.stored)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		api := newTestAPI()
		rec := api.do(http.MethodPost, "/api/workspaces/7/incomes",
			`{"dateReceived": "2024-02-28", "title": "x", "currency": "USD", "status": "FINALIZED"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("attachment from another workspace", func(t *testing.T) {
		api := newTestAPI()
		rec := api.do(http.MethodPost, "/api/workspaces/7/incomes",
			`{"dateReceived": "2024-02-28", "title": "x", "currency": "USD", "originalAmount": 1, "attachments": [11, 12]}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Document 12 is not found", decodeJSON[services.ErrorResponse](t, rec).Error)
		assert.Empty(t, api.incomes.stored)
	})

	t.Run("inaccessible workspace", func(t *testing.T) {
		api := newTestAPI()
		rec := api.do(http.MethodPost, "/api/workspaces/8/incomes",
			`{"dateReceived": "2024-02-28", "title": "x", "currency": "USD"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Workspace 8 is not found", decodeJSON[services.ErrorResponse](t, rec).Error)
	})

	t.Run("linked invoice gets paid", func(t *testing.T) {
		api := newTestAPI()
		api.invoices.invoices[9] = &models.Invoice{ID: 9, WorkspaceID: 7, Title: "INV-9"}

		rec := api.do(http.MethodPost, "/api/workspaces/7/incomes",
			`{"dateReceived": "2024-02-28", "title": "x", "currency": "USD", "originalAmount": 1, "linkedInvoice": 9}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		paid := api.invoices.invoices[9].DatePaid
		require.NotNil(t, paid)
		assert.True(t, paid.Equal(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))
	})
}

func TestIncomeHandler_UpdateAndGet(t *testing.T) {
	api := newTestAPI()
	recorded := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	api.incomes.stored[5] = models.Income{
		FinancialRecord: models.FinancialRecord{ID: 5, Version: 1, WorkspaceID: 7, Title: "old", Currency: "USD", TimeRecorded: recorded},
	}

	rec := api.do(http.MethodPut, "/api/workspaces/7/incomes/5",
		`{"dateReceived": "2024-03-01", "title": "new", "currency": "EUR", "originalAmount": 100, "amountInDefaultCurrency": 110}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeJSON[IncomeResponse](t, rec)
	assert.Equal(t, "new", resp.Title)
	assert.Equal(t, 2, resp.Version)
	assert.True(t, recorded.Equal(resp.TimeRecorded))
	assert.Equal(t, models.StatusFinalized, resp.Status)

	rec = api.do(http.MethodGet, "/api/workspaces/7/incomes/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", decodeJSON[IncomeResponse](t, rec).Title)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/workspaces/7/incomes/6", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/workspaces/7/incomes/abc", "").Code)
}

func TestIncomeHandler_ListIncomes(t *testing.T) {
	api := newTestAPI()
	api.incomes.stored[5] = models.Income{FinancialRecord: models.FinancialRecord{ID: 5, WorkspaceID: 7, Title: "a", Currency: "USD"}}

	t.Run("paged response", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/workspaces/7/incomes?limit=20&page=2&status[eq]=FINALIZED", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeJSON[PageResponse[IncomeResponse]](t, rec)
		assert.Equal(t, 2, resp.PageNumber)
		assert.Equal(t, 20, resp.PageSize)
		assert.Equal(t, int64(1), resp.TotalElements)
		require.Len(t, resp.Data, 1)

		assert.Equal(t, 1, api.incomes.lastPage.PageNumber)
		assert.Contains(t, api.incomes.lastPage.Predicate.String(), "is not null")
	})

	t.Run("bad filter operator", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/workspaces/7/incomes?currency[op]=EUR", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "'op' is not a valid filter operator", decodeJSON[services.ErrorResponse](t, rec).Error)
	})

	t.Run("unknown filter ignored", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/workspaces/7/incomes?unknownField[eq]=42", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true = true", api.incomes.lastPage.Predicate.String())
	})

	t.Run("duplicate limit", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/workspaces/7/incomes?limit=1&limit=2", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only a single 'limit' parameter is supported", decodeJSON[services.ErrorResponse](t, rec).Error)
	})

	t.Run("empty page has data array", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/workspaces/7/incomes?category[eq]=99", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[`)
	})
}

func TestExpenseHandler(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/workspaces/7/expenses",
		`{"datePaid": "2024-02-20", "title": "Dark matter", "currency": "USD", "originalAmount": 5000, "percentOnBusiness": 50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeJSON[ExpenseResponse](t, rec)
	assert.Equal(t, 50, created.PercentOnBusiness)
	assert.Equal(t, "2024-02-20", created.DatePaid)

	rec = api.do(http.MethodPut, "/api/workspaces/7/expenses/1",
		`{"datePaid": "2024-02-21", "title": "Dark matter", "currency": "USD", "originalAmount": 5000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON[ExpenseResponse](t, rec)
	assert.Equal(t, 100, updated.PercentOnBusiness)
	assert.Equal(t, 1, updated.Version)

	rec = api.do(http.MethodPost, "/api/workspaces/7/expenses",
		`{"datePaid": "2024-02-20", "title": "x", "currency": "USD", "percentOnBusiness": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/workspaces/7/expenses?sortBy=datePaid%20sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "'sideways' is not a valid sorting direction", decodeJSON[services.ErrorResponse](t, rec).Error)
}

func TestTaxHandler(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/workspaces/7/taxes", `{"title": "GST", "rateInBps": 1500}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeJSON[models.Tax](t, rec)
	assert.Equal(t, int64(7), created.WorkspaceID)
	assert.Equal(t, 1500, created.RateInBps)

	api.refs.taxPage = query.Page[models.Tax]{Items: []models.Tax{created}, TotalCount: 1}
	rec = api.do(http.MethodGet, "/api/workspaces/7/taxes?title[eq]=gs&sortBy=rateInBps%20asc", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decodeJSON[PageResponse[models.Tax]](t, rec)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, query.DefaultLimit, page.PageSize)
	assert.Equal(t, "containsIc(tax.title,gs)", api.refs.lastPage.Predicate.String())
	assert.Equal(t, []models.WorkspaceAccessMode{models.WorkspaceAccessReadWrite, models.WorkspaceAccessReadOnly}, api.workspaces.modes)
}
