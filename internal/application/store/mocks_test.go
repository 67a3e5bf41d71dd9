package store

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*store.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter store.ProductFilter) ([]store.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *store.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, churchID, userID uuid.UUID) (*store.Cart, error) {
	args := m.Called(ctx, churchID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *store.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*store.Order, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*store.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter store.OrderFilter) ([]store.Order, int64, error) {
	args := m.Called(ctx, churchID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]store.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *store.Order) error {
	return m.Called(ctx, order).Error(0)
}

type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) FindSalespeople(ctx context.Context) ([]store.Salesperson, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.Salesperson), args.Error(1)
}

func (m *MockSalesRepository) SaveSalesperson(ctx context.Context, s *store.Salesperson) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSalesRepository) ExistsActiveSalesperson(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockSalesRepository) FindLeads(ctx context.Context, status store.LeadStatus) ([]store.ReactivationLead, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]store.ReactivationLead), args.Error(1)
}

func (m *MockSalesRepository) FindLeadByID(ctx context.Context, id uuid.UUID) (*store.ReactivationLead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ReactivationLead), args.Error(1)
}

func (m *MockSalesRepository) SaveLead(ctx context.Context, lead *store.ReactivationLead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockSalesRepository) ExistsOpenLead(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// inlineScope runs the function against the same mocks, without a database
type inlineScope struct {
	products *MockProductRepository
	carts    *MockCartRepository
	orders   *MockOrderRepository
}

func (s *inlineScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *inlineScope) Products() store.ProductRepository { return s.products }
func (s *inlineScope) Carts() store.CartRepository       { return s.carts }
func (s *inlineScope) Orders() store.OrderRepository     { return s.orders }
