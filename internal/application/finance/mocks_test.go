package finance

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*finance.BankAccount, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindAll(ctx context.Context, churchID uuid.UUID) ([]finance.BankAccount, error) {
	args := m.Called(ctx, churchID)
	return args.Get(0).([]finance.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) Save(ctx context.Context, account *finance.BankAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockBankAccountRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

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

type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*finance.BillToPay, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BillToPay), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter finance.BillFilter) ([]finance.BillToPay, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]finance.BillToPay), args.Get(1).(int64), args.Error(2)
}

func (m *MockBillRepository) FindPendingDueBy(ctx context.Context, date time.Time) ([]finance.BillToPay, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]finance.BillToPay), args.Error(1)
}

func (m *MockBillRepository) Save(ctx context.Context, bill *finance.BillToPay) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *MockBillRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

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

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// inlineScope runs the callback against the mocks without a database
type inlineScope struct {
	accounts *MockBankAccountRepository
	entries  *MockFinancialEntryRepository
	bills    *MockBillRepository
}

func (s *inlineScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *inlineScope) BankAccounts() finance.BankAccountRepository { return s.accounts }
func (s *inlineScope) FinancialEntries() finance.FinancialEntryRepository { return s.entries }
func (s *inlineScope) Bills() finance.BillRepository { return s.bills }
