package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBillRepository_PendingDueBy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBillRepository(db)
	accounts := NewGormBankAccountRepository(db)
	ctx := context.Background()
	churchA, churchB := uuid.New(), uuid.New()

	newBill := func(churchID uuid.UUID, supplier string, due time.Time) *finance.BillToPay {
		b, err := finance.NewBillToPay(churchID, supplier, "Mensalidade", decimal.NewFromInt(150), due)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, b))
		return b
	}
	energy := newBill(churchA, "Energia", day(2025, time.May, 10))
	newBill(churchB, "Água", day(2025, time.May, 12))
	newBill(churchA, "Internet", day(2025, time.May, 20))

	account, err := finance.NewBankAccount(churchA, "Conta Movimento", finance.BankAccountChecking)
	require.NoError(t, err)
	require.NoError(t, account.Credit(decimal.NewFromInt(1000)))
	require.NoError(t, accounts.Save(ctx, account))

	paid := newBill(churchA, "Aluguel", day(2025, time.May, 5))
	_, err = paid.Pay(account, day(2025, time.May, 5))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, paid))

	due, err := repo.FindPendingDueBy(ctx, day(2025, time.May, 12))
	require.NoError(t, err)
	require.Len(t, due, 2)
	suppliers := []string{due[0].Supplier, due[1].Supplier}
	assert.ElementsMatch(t, []string{"Energia", "Água"}, suppliers)

	t.Run("status filter", func(t *testing.T) {
		bills, total, err := repo.FindAll(ctx, churchA, finance.BillFilter{Status: finance.BillStatusPaid})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, bills, 1)
		require.NotNil(t, bills[0].PaidFromID)
		assert.Equal(t, account.ID, *bills[0].PaidFromID)
	})

	t.Run("default order is due date ascending", func(t *testing.T) {
		bills, _, err := repo.FindAll(ctx, churchA, finance.BillFilter{Status: finance.BillStatusPending})
		require.NoError(t, err)
		require.Len(t, bills, 2)
		assert.Equal(t, energy.ID, bills[0].ID)
	})
}

func TestGormFinancialEntryRepository_JournalLink(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFinancialEntryRepository(db)
	ctx := context.Background()
	churchID := uuid.New()
	journalID := uuid.New()

	entry, err := finance.NewFinancialEntry(churchID, finance.EntryTypeIncome, finance.CategoryJournal, "Dízimos", decimal.NewFromInt(800), day(2025, time.April, 6))
	require.NoError(t, err)
	entry.LinkJournalEntry(journalID)
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByJournalEntry(ctx, churchID, journalID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, found.ID)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(800)))

	entries, total, err := repo.FindAll(ctx, churchID, finance.EntryFilter{Type: finance.EntryTypeIncome})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)

	require.NoError(t, repo.DeleteByJournalEntry(ctx, churchID, journalID))
	_, err = repo.FindByJournalEntry(ctx, churchID, journalID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormBankAccountRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBankAccountRepository(db)
	ctx := context.Background()
	churchID := uuid.New()

	for _, name := range []string{"Poupança", "Caixa da Tesouraria"} {
		a, err := finance.NewBankAccount(churchID, name, finance.BankAccountSavings)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, a))
	}

	accounts, err := repo.FindAll(ctx, churchID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Caixa da Tesouraria", accounts[0].Name)
	assert.True(t, accounts[0].Balance.IsZero())

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), accounts[0].ID), shared.ErrNotFound)
}

func TestGormBankAccountRepository_StaleSaveConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBankAccountRepository(db)
	ctx := context.Background()
	churchID := uuid.New()

	account, err := finance.NewBankAccount(churchID, "Conta Movimento", finance.BankAccountChecking)
	require.NoError(t, err)
	require.NoError(t, account.Credit(decimal.NewFromInt(1000)))
	require.NoError(t, repo.Save(ctx, account))

	first, err := repo.FindByID(ctx, churchID, account.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, churchID, account.ID)
	require.NoError(t, err)
	require.NoError(t, first.Debit(decimal.NewFromInt(100)))
	require.NoError(t, second.Debit(decimal.NewFromInt(100)))

	require.NoError(t, repo.Save(ctx, first))
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, churchID, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(900)), "balance %s", stored.Balance)
	assert.Equal(t, first.Version, stored.Version)

	t.Run("edits that do not bump the version still advance the row", func(t *testing.T) {
		require.NoError(t, stored.SetBankDetails("Banco do Brasil", "1234", "56789-0"))
		require.NoError(t, repo.Save(ctx, stored))

		reloaded, err := repo.FindByID(ctx, churchID, account.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Version+1, reloaded.Version)
		assert.Equal(t, "Banco do Brasil", reloaded.BankName)
		assert.True(t, reloaded.Balance.Equal(decimal.NewFromInt(900)))

		assert.ErrorIs(t, repo.Save(ctx, first), shared.ErrConcurrencyConflict)
	})
}

func TestGormBillRepository_PaidTwiceConflicts(t *testing.T) {
	db := setupTestDB(t)
	bills := NewGormBillRepository(db)
	accounts := NewGormBankAccountRepository(db)
	ctx := context.Background()
	churchID := uuid.New()

	account, err := finance.NewBankAccount(churchID, "Conta Movimento", finance.BankAccountChecking)
	require.NoError(t, err)
	require.NoError(t, account.Credit(decimal.NewFromInt(1000)))
	require.NoError(t, accounts.Save(ctx, account))

	bill, err := finance.NewBillToPay(churchID, "Energia", "Conta de luz", decimal.NewFromInt(100), day(2025, time.May, 10))
	require.NoError(t, err)
	require.NoError(t, bills.Save(ctx, bill))

	pay := func() (*finance.BillToPay, *finance.BankAccount) {
		b, err := bills.FindByID(ctx, churchID, bill.ID)
		require.NoError(t, err)
		a, err := accounts.FindByID(ctx, churchID, account.ID)
		require.NoError(t, err)
		_, err = b.Pay(a, day(2025, time.May, 9))
		require.NoError(t, err)
		return b, a
	}
	firstBill, firstAccount := pay()
	secondBill, secondAccount := pay()

	require.NoError(t, accounts.Save(ctx, firstAccount))
	require.NoError(t, bills.Save(ctx, firstBill))
	assert.ErrorIs(t, accounts.Save(ctx, secondAccount), shared.ErrConcurrencyConflict)
	assert.ErrorIs(t, bills.Save(ctx, secondBill), shared.ErrConcurrencyConflict)

	stored, err := accounts.FindByID(ctx, churchID, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(900)), "balance %s", stored.Balance)

	t.Run("a stale reminder does not reopen a paid bill", func(t *testing.T) {
		stale := *bill
		stale.MarkReminded(day(2025, time.May, 9))
		assert.ErrorIs(t, bills.Save(ctx, &stale), shared.ErrConcurrencyConflict)

		found, err := bills.FindByID(ctx, churchID, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.BillStatusPaid, found.Status)
	})
}
