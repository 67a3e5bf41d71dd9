package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postEntry(t *testing.T, repo *GormJournalEntryRepository, churchID uuid.UUID, date time.Time, debit, credit string, amount int64, history string) *accounting.JournalEntry {
	t.Helper()
	e, err := accounting.NewJournalEntry(churchID, date, debit, credit, decimal.NewFromInt(amount), history)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), e))
	return e
}

func TestGormChartAccountRepository_DefaultChart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormChartAccountRepository(db)
	ctx := context.Background()
	churchID := uuid.New()

	chart := accounting.DefaultChart(churchID)
	require.NoError(t, repo.SaveBatch(ctx, chart))

	accounts, err := repo.FindAll(ctx, churchID)
	require.NoError(t, err)
	require.Len(t, accounts, len(chart))
	assert.Equal(t, "1", accounts[0].Code)
	assert.Equal(t, "1.1", accounts[1].Code)
	assert.Equal(t, "1.1.01", accounts[2].Code)

	others, err := repo.FindAll(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)

	cash, err := repo.FindByCode(ctx, churchID, "1.1.01")
	require.NoError(t, err)
	assert.Equal(t, "Caixa", cash.Name)
	assert.Equal(t, accounting.KindAnalytic, cash.Kind)

	_, err = repo.FindByCode(ctx, churchID, "9.9.99")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormChartAccountRepository_CountEntriesAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormChartAccountRepository(db)
	journal := NewGormJournalEntryRepository(db)
	ctx := context.Background()
	churchID := uuid.New()

	require.NoError(t, repo.SaveBatch(ctx, accounting.DefaultChart(churchID)))
	postEntry(t, journal, churchID, day(2025, time.January, 5), "1.1.01", "4.1.01", 500, "Dízimos do culto")
	postEntry(t, journal, churchID, day(2025, time.January, 9), "4.2.02", "1.1.01", 120, "Conta de energia")

	count, err := repo.CountEntries(ctx, churchID, "1.1.01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountEntries(ctx, churchID, "4.1.02")
	require.NoError(t, err)
	assert.Zero(t, count)

	offerings, err := repo.FindByCode(ctx, churchID, "4.1.02")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, churchID, offerings.ID))
	assert.ErrorIs(t, repo.Delete(ctx, churchID, offerings.ID), shared.ErrNotFound)
}

func TestGormJournalEntryRepository_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()
	churchID := uuid.New()

	first := postEntry(t, repo, churchID, day(2025, time.January, 5), "1.1.01", "4.1.01", 500, "Dízimos")
	postEntry(t, repo, churchID, day(2025, time.February, 2), "1.1.02", "4.1.02", 300, "Ofertas missionárias")
	postEntry(t, repo, churchID, day(2025, time.March, 10), "4.2.02", "1.1.01", 120, "Conta de energia")
	postEntry(t, repo, uuid.New(), day(2025, time.January, 6), "1.1.01", "4.1.01", 999, "Outra igreja")

	t.Run("up to a day", func(t *testing.T) {
		entries, err := repo.FindUpTo(ctx, churchID, day(2025, time.February, 2))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, first.ID, entries[0].ID)
		assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, day(2025, time.January, 5), entries[0].EntryDate.UTC())
	})

	t.Run("by account code", func(t *testing.T) {
		entries, total, err := repo.FindAll(ctx, churchID, accounting.JournalEntryFilter{AccountCode: "1.1.01"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("date range and search", func(t *testing.T) {
		from := day(2025, time.February, 1)
		to := day(2025, time.March, 31)
		entries, total, err := repo.FindAll(ctx, churchID, accounting.JournalEntryFilter{
			Filter: shared.Filter{Search: "energia"},
			From:   &from,
			To:     &to,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "4.2.02", entries[0].DebitAccountCode)
	})

	t.Run("delete scoped by church", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), first.ID), shared.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, churchID, first.ID))
		_, err := repo.FindByID(ctx, churchID, first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
