package accounting

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockChartAccountRepository is a mock implementation of accounting.ChartAccountRepository
type MockChartAccountRepository struct {
	mock.Mock
}

func (m *MockChartAccountRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*accounting.ChartAccount, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartAccount), args.Error(1)
}

func (m *MockChartAccountRepository) FindByCode(ctx context.Context, churchID uuid.UUID, code string) (*accounting.ChartAccount, error) {
	args := m.Called(ctx, churchID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ChartAccount), args.Error(1)
}

func (m *MockChartAccountRepository) FindAll(ctx context.Context, churchID uuid.UUID) ([]accounting.ChartAccount, error) {
	args := m.Called(ctx, churchID)
	return args.Get(0).([]accounting.ChartAccount), args.Error(1)
}

func (m *MockChartAccountRepository) Save(ctx context.Context, account *accounting.ChartAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockChartAccountRepository) SaveBatch(ctx context.Context, accounts []*accounting.ChartAccount) error {
	return m.Called(ctx, accounts).Error(0)
}

func (m *MockChartAccountRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

func (m *MockChartAccountRepository) CountEntries(ctx context.Context, churchID uuid.UUID, code string) (int64, error) {
	args := m.Called(ctx, churchID, code)
	return args.Get(0).(int64), args.Error(1)
}

// MockJournalEntryRepository is a mock implementation of accounting.JournalEntryRepository
type MockJournalEntryRepository struct {
	mock.Mock
}

func (m *MockJournalEntryRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*accounting.JournalEntry, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter accounting.JournalEntryFilter) ([]accounting.JournalEntry, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]accounting.JournalEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalEntryRepository) FindUpTo(ctx context.Context, churchID uuid.UUID, to time.Time) ([]accounting.JournalEntry, error) {
	args := m.Called(ctx, churchID, to)
	return args.Get(0).([]accounting.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournalEntryRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

// MockFinancialEntryRepository is a mock implementation of finance.FinancialEntryRepository
type MockFinancialEntryRepository struct {
	mock.Mock
}

func (m *MockFinancialEntryRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter finance.EntryFilter) ([]finance.FinancialEntry, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]finance.FinancialEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinancialEntryRepository) FindByJournalEntry(ctx context.Context, churchID, journalEntryID uuid.UUID) (*finance.FinancialEntry, error) {
	args := m.Called(ctx, churchID, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialEntry), args.Error(1)
}

func (m *MockFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockFinancialEntryRepository) DeleteByJournalEntry(ctx context.Context, churchID, journalEntryID uuid.UUID) error {
	return m.Called(ctx, churchID, journalEntryID).Error(0)
}

// MockChurchRepository is a mock implementation of church.ChurchRepository
type MockChurchRepository struct {
	mock.Mock
}

func (m *MockChurchRepository) FindByID(ctx context.Context, id uuid.UUID) (*church.Church, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*church.Church), args.Error(1)
}

func (m *MockChurchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]church.Church, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]church.Church), args.Get(1).(int64), args.Error(2)
}

func (m *MockChurchRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

func (m *MockChurchRepository) Save(ctx context.Context, c *church.Church) error {
	return m.Called(ctx, c).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// inlineScope runs the callback directly against the mocks
type inlineScope struct {
	chart   *MockChartAccountRepository
	entries *MockJournalEntryRepository
	flows   *MockFinancialEntryRepository
}

func (s *inlineScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *inlineScope) ChartAccounts() accounting.ChartAccountRepository { return s.chart }
func (s *inlineScope) JournalEntries() accounting.JournalEntryRepository { return s.entries }
func (s *inlineScope) FinancialEntries() finance.FinancialEntryRepository { return s.flows }
