package services

import (
	"context"
	"sync"

	"github.com/simpleaccounting/backend/internal/models"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/stretchr/testify/mock"
)

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) FindByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Workspace, error) {
	args := m.Called(ctx, id, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ExistsByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (bool, error) {
	args := m.Called(ctx, id, workspaceID)
	return args.Bool(0), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindIDsByWorkspaceID(ctx context.Context, workspaceID int64, ids []int64) ([]int64, error) {
	args := m.Called(ctx, workspaceID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockTaxRepository struct {
	mock.Mock
}

func (m *MockTaxRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Tax, error) {
	args := m.Called(ctx, id, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tax), args.Error(1)
}

func (m *MockTaxRepository) Save(ctx context.Context, tax *models.Tax) error {
	args := m.Called(ctx, tax)
	return args.Error(0)
}

func (m *MockTaxRepository) FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Tax], error) {
	args := m.Called(ctx, workspaceID, page)
	return args.Get(0).(query.Page[models.Tax]), args.Error(1)
}

type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Income, error) {
	args := m.Called(ctx, id, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Income), args.Error(1)
}

func (m *MockIncomeRepository) Save(ctx context.Context, income *models.Income) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Income], error) {
	args := m.Called(ctx, workspaceID, page)
	return args.Get(0).(query.Page[models.Income]), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Expense, error) {
	args := m.Called(ctx, id, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *models.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindPage(ctx context.Context, workspaceID int64, page query.PageRequest) (query.Page[models.Expense], error) {
	args := m.Called(ctx, workspaceID, page)
	return args.Get(0).(query.Page[models.Expense]), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDAndWorkspaceID(ctx context.Context, id, workspaceID int64) (*models.Invoice, error) {
	args := m.Called(ctx, id, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// fakeTransactor runs fn directly and counts transactions.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type firedEvent struct {
	Topic   string
	Payload any
}

type recordingPublisher struct {
	mu    sync.Mutex
	fired []firedEvent
}

func (p *recordingPublisher) Fire(_ context.Context, topic string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fired = append(p.fired, firedEvent{Topic: topic, Payload: payload})
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var topics []string
	for _, e := range p.fired {
		topics = append(topics, e.Topic)
	}
	return topics
}
