package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/notification"
	"github.com/ecclesia/backend/internal/infrastructure/scheduler"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScope() *inlineScope {
	return &inlineScope{
		accounts: new(MockBankAccountRepository),
		entries:  new(MockFinancialEntryRepository),
		bills:    new(MockBillRepository),
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

func fixedNow() time.Time {
	return time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
}

func TestCreateBankAccount(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()

	t.Run("opening balance writes an income row", func(t *testing.T) {
		scope := newScope()
		svc := NewBankAccountService(scope.accounts, scope.entries, scope)
		svc.now = fixedNow
		initial := decimal.NewFromInt(2500)

		scope.accounts.On("Save", ctx, mock.MatchedBy(func(a *finance.BankAccount) bool {
			return a.Balance.Equal(initial)
		})).Return(nil)
		scope.entries.On("Save", ctx, mock.MatchedBy(func(e *finance.FinancialEntry) bool {
			return e.Type == finance.EntryTypeIncome &&
				e.Category == finance.CategoryOpeningBalance &&
				e.Amount.Equal(initial) &&
				e.BankAccountID != nil
		})).Return(nil)

		resp, err := svc.CreateBankAccount(ctx, churchID, CreateBankAccountRequest{
			Name:           "Conta Movimento",
			BankName:       "Banco do Brasil",
			Agency:         "1234-5",
			AccountNumber:  "98765-0",
			Type:           "checking",
			InitialBalance: &initial,
		})
		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(initial))
		scope.accounts.AssertExpectations(t)
		scope.entries.AssertExpectations(t)
	})

	t.Run("no opening row without a balance", func(t *testing.T) {
		scope := newScope()
		svc := NewBankAccountService(scope.accounts, scope.entries, scope)
		scope.accounts.On("Save", ctx, mock.Anything).Return(nil)

		_, err := svc.CreateBankAccount(ctx, churchID, CreateBankAccountRequest{Name: "Caixa", Type: "cash"})
		require.NoError(t, err)
		scope.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a negative balance", func(t *testing.T) {
		scope := newScope()
		svc := NewBankAccountService(scope.accounts, scope.entries, scope)
		negative := decimal.NewFromInt(-1)

		_, err := svc.CreateBankAccount(ctx, churchID, CreateBankAccountRequest{Name: "Caixa", Type: "cash", InitialBalance: &negative})
		assert.Equal(t, "INVALID_AMOUNT", codeOf(t, err))
	})

	t.Run("cash account has no agency", func(t *testing.T) {
		scope := newScope()
		svc := NewBankAccountService(scope.accounts, scope.entries, scope)

		_, err := svc.CreateBankAccount(ctx, churchID, CreateBankAccountRequest{Name: "Caixa", Type: "cash", Agency: "0001"})
		assert.Equal(t, "INVALID_BANK_DETAILS", codeOf(t, err))
	})
}

func TestRecordEntry_MovesBalance(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	svc := NewBankAccountService(scope.accounts, scope.entries, scope)

	account, err := finance.NewBankAccount(churchID, "Conta", finance.BankAccountChecking)
	require.NoError(t, err)
	scope.accounts.On("FindByID", ctx, churchID, account.ID).Return(account, nil)
	scope.accounts.On("Save", ctx, account).Return(nil)
	scope.entries.On("Save", ctx, mock.Anything).Return(nil)

	_, err = svc.RecordEntry(ctx, churchID, CreateFinancialEntryRequest{
		Type:          "expense",
		Category:      "manutencao",
		Description:   "Conserto do telhado",
		Amount:        decimal.NewFromInt(300),
		EntryDate:     fixedNow(),
		BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(-300)))
}

func TestSummary_UsesEveryRow(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	svc := NewBankAccountService(scope.accounts, scope.entries, scope)

	income, _ := finance.NewFinancialEntry(churchID, finance.EntryTypeIncome, "dizimos", "Dízimos", decimal.NewFromInt(1000), fixedNow())
	expense, _ := finance.NewFinancialEntry(churchID, finance.EntryTypeExpense, "energia", "Luz", decimal.NewFromInt(400), fixedNow())
	scope.entries.On("FindAll", ctx, churchID, mock.MatchedBy(func(f finance.EntryFilter) bool {
		return f.PageSize == 0
	})).Return([]finance.FinancialEntry{*income, *expense}, int64(2), nil)

	summary, err := svc.Summary(ctx, churchID, FinancialEntryListFilter{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(600)))
	assert.True(t, summary.ByCategory["energia"].Equal(decimal.NewFromInt(-400)))
}

func TestDeleteBankAccount_RequiresZeroBalance(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	svc := NewBankAccountService(scope.accounts, scope.entries, scope)

	account, _ := finance.NewBankAccount(churchID, "Conta", finance.BankAccountChecking)
	require.NoError(t, account.Credit(decimal.NewFromInt(10)))
	scope.accounts.On("FindByID", ctx, churchID, account.ID).Return(account, nil)

	err := svc.DeleteBankAccount(ctx, churchID, account.ID)
	assert.Equal(t, "ACCOUNT_NOT_EMPTY", codeOf(t, err))
	scope.accounts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayBill(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()

	setup := func(t *testing.T) (*inlineScope, *MockEventPublisher, *BillService, *finance.BillToPay, *finance.BankAccount) {
		scope := newScope()
		events := new(MockEventPublisher)
		svc := NewBillService(scope.bills, scope, nil, events, zap.NewNop())
		svc.now = fixedNow

		bill, err := finance.NewBillToPay(churchID, "Companhia de Energia", "Conta de abril", decimal.NewFromInt(420), fixedNow().AddDate(0, 0, 5))
		require.NoError(t, err)
		account, err := finance.NewBankAccount(churchID, "Conta", finance.BankAccountChecking)
		require.NoError(t, err)
		require.NoError(t, account.Credit(decimal.NewFromInt(1000)))
		return scope, events, svc, bill, account
	}

	t.Run("debits the account and records the expense", func(t *testing.T) {
		scope, events, svc, bill, account := setup(t)
		scope.bills.On("FindByID", ctx, churchID, bill.ID).Return(bill, nil)
		scope.accounts.On("FindByID", ctx, churchID, account.ID).Return(account, nil)
		scope.accounts.On("Save", ctx, account).Return(nil)
		scope.entries.On("Save", ctx, mock.MatchedBy(func(e *finance.FinancialEntry) bool {
			return e.Type == finance.EntryTypeExpense && e.Category == finance.CategoryBillPayment && e.BillID != nil && *e.BillID == bill.ID
		})).Return(nil)
		scope.bills.On("Save", ctx, bill).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(evts []shared.DomainEvent) bool {
			return len(evts) == 1 && evts[0].EventType() == finance.EventTypeBillPaid
		})).Return(nil)

		resp, err := svc.PayBill(ctx, churchID, bill.ID, PayBillRequest{BankAccountID: account.ID})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(580)))
		assert.Equal(t, account.ID, *resp.PaidFromID)
		events.AssertExpectations(t)
	})

	t.Run("a paid bill cannot be paid again", func(t *testing.T) {
		scope, _, svc, bill, account := setup(t)
		_, err := bill.Pay(account, fixedNow())
		require.NoError(t, err)
		scope.bills.On("FindByID", ctx, churchID, bill.ID).Return(bill, nil)
		scope.accounts.On("FindByID", ctx, churchID, account.ID).Return(account, nil)

		_, err = svc.PayBill(ctx, churchID, bill.ID, PayBillRequest{BankAccountID: account.ID})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		scope.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing bank account aborts", func(t *testing.T) {
		scope, _, svc, bill, _ := setup(t)
		missing := uuid.New()
		scope.bills.On("FindByID", ctx, churchID, bill.ID).Return(bill, nil)
		scope.accounts.On("FindByID", ctx, churchID, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.PayBill(ctx, churchID, bill.ID, PayBillRequest{BankAccountID: missing})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, finance.BillStatusPending, bill.Status)
	})

	t.Run("a concurrent payment surfaces as a conflict", func(t *testing.T) {
		scope, events, svc, bill, account := setup(t)
		scope.bills.On("FindByID", ctx, churchID, bill.ID).Return(bill, nil)
		scope.accounts.On("FindByID", ctx, churchID, account.ID).Return(account, nil)
		scope.accounts.On("Save", ctx, account).Return(shared.ErrConcurrencyConflict)

		_, err := svc.PayBill(ctx, churchID, bill.ID, PayBillRequest{BankAccountID: account.ID})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, "CONCURRENCY_CONFLICT", codeOf(t, err))
		scope.entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestListOverdue(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	svc := NewBillService(scope.bills, scope, nil, nil, zap.NewNop())
	svc.now = fixedNow

	late, _ := finance.NewBillToPay(churchID, "Água", "", decimal.NewFromInt(90), fixedNow().AddDate(0, 0, -3))
	scope.bills.On("FindAll", ctx, churchID, mock.MatchedBy(func(f finance.BillFilter) bool {
		return f.Status == finance.BillStatusPending &&
			f.DueBefore != nil && f.DueBefore.Equal(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))
	})).Return([]finance.BillToPay{*late}, int64(1), nil)

	bills, err := svc.ListOverdue(ctx, churchID)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.True(t, bills[0].Overdue)
}

func TestListOverdue_UsesConfiguredLocation(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	svc := NewBillService(scope.bills, scope, nil, nil, zap.NewNop())
	// 01:30 UTC on April 10 is still April 9 in São Paulo
	svc.now = func() time.Time { return time.Date(2025, 4, 10, 1, 30, 0, 0, time.UTC) }
	svc.UseLocation(time.FixedZone("BRT", -3*60*60))

	scope.bills.On("FindAll", ctx, churchID, mock.MatchedBy(func(f finance.BillFilter) bool {
		return f.DueBefore != nil && f.DueBefore.Equal(time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC))
	})).Return([]finance.BillToPay{}, int64(0), nil)

	_, err := svc.ListOverdue(ctx, churchID)
	require.NoError(t, err)
	scope.bills.AssertExpectations(t)
}

func TestDeleteBill_RefusesPaid(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	svc := NewBillService(scope.bills, scope, nil, nil, zap.NewNop())

	bill, _ := finance.NewBillToPay(churchID, "Água", "", decimal.NewFromInt(90), fixedNow())
	account, _ := finance.NewBankAccount(churchID, "Conta", finance.BankAccountChecking)
	_, err := bill.Pay(account, fixedNow())
	require.NoError(t, err)
	scope.bills.On("FindByID", ctx, churchID, bill.ID).Return(bill, nil)

	err = svc.DeleteBill(ctx, churchID, bill.ID)
	assert.Equal(t, "INVALID_STATE", codeOf(t, err))
}

func TestReceiptUploadURL(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	scope := newScope()
	store := new(MockObjectStorage)
	svc := NewBillService(scope.bills, scope, store, nil, zap.NewNop())

	bill, _ := finance.NewBillToPay(churchID, "Água", "", decimal.NewFromInt(90), fixedNow())
	scope.bills.On("FindByID", ctx, churchID, bill.ID).Return(bill, nil)
	scope.bills.On("Save", ctx, bill).Return(nil)
	expires := fixedNow().Add(15 * time.Minute)
	store.On("PresignUpload", ctx, mock.MatchedBy(func(key string) bool {
		return len(key) > 0 && key[len(key)-4:] == ".pdf"
	}), "application/pdf").Return("https://s3.local/upload", expires, nil)

	resp, err := svc.ReceiptUploadURL(ctx, churchID, bill.ID, ReceiptUploadRequest{Filename: "recibo.PDF", ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/upload", resp.URL)
	assert.Equal(t, resp.Key, bill.ReceiptKey)

	_, err = svc.ReceiptUploadURL(ctx, churchID, bill.ID, ReceiptUploadRequest{Filename: "virus.exe", ContentType: "application/octet-stream"})
	assert.Equal(t, "INVALID_FILE_TYPE", codeOf(t, err))
}

func TestBillReminderService(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	c, err := church.NewChurch("Igreja Batista Central")
	require.NoError(t, err)
	c.SetContact("tesouraria@ibc.org.br", "", church.Address{})

	silent, err := church.NewChurch("Igreja Sem Email")
	require.NoError(t, err)

	dueSoon, _ := finance.NewBillToPay(c.ID, "Energia", "abril", decimal.NewFromInt(300), day.AddDate(0, 0, 2))
	overdue, _ := finance.NewBillToPay(c.ID, "Água", "março", decimal.NewFromInt(80), day.AddDate(0, 0, -4))
	alreadySent, _ := finance.NewBillToPay(c.ID, "Internet", "abril", decimal.NewFromInt(120), day.AddDate(0, 0, 1))
	alreadySent.MarkReminded(day.Add(7 * time.Hour))
	other, _ := finance.NewBillToPay(silent.ID, "Aluguel", "", decimal.NewFromInt(900), day)

	bills := new(MockBillRepository)
	churches := new(MockChurchRepository)
	sender := notification.NewLogSender(zap.NewNop())
	svc := NewBillReminderService(bills, churches, sender, 3, telemetry.NoopAppMetrics(), zap.NewNop())

	bills.On("FindPendingDueBy", ctx, day.AddDate(0, 0, 3)).
		Return([]finance.BillToPay{*dueSoon, *overdue, *alreadySent, *other}, nil)
	churches.On("FindByID", ctx, c.ID).Return(c, nil)
	churches.On("FindByID", ctx, silent.ID).Return(silent, nil)
	bills.On("Save", ctx, mock.MatchedBy(func(b *finance.BillToPay) bool {
		return b.RemindedOn(day)
	})).Return(nil).Twice()

	err = svc.Execute(ctx, scheduler.NewJob(scheduler.JobKindBillReminder, day, 3))
	require.NoError(t, err)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "tesouraria@ibc.org.br", sent[0].To[0].Address)
	assert.Equal(t, "2 conta(s) vencendo", sent[0].Subject)
	bills.AssertExpectations(t)
}

func TestBillReminderService_SendFailureIsReported(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	c, _ := church.NewChurch("Igreja Central")
	c.SetContact("contato@central.org", "", church.Address{})
	bill, _ := finance.NewBillToPay(c.ID, "Energia", "", decimal.NewFromInt(10), day)

	bills := new(MockBillRepository)
	churches := new(MockChurchRepository)
	bills.On("FindPendingDueBy", ctx, mock.Anything).Return([]finance.BillToPay{*bill}, nil)
	churches.On("FindByID", ctx, c.ID).Return(nil, shared.ErrNotFound)

	svc := NewBillReminderService(bills, churches, notification.NewLogSender(zap.NewNop()), 3, nil, zap.NewNop())
	n, err := svc.SendReminders(ctx, day)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	bills.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
