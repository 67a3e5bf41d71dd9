package accounting

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/finance"
)

// TransactionScope runs a function inside one database transaction.
// If the function returns an error, the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories a posting touches. A journal
// entry and its cash-flow row are written together or not at all.
type TransactionalRepositories interface {
	ChartAccounts() accounting.ChartAccountRepository
	JournalEntries() accounting.JournalEntryRepository
	FinancialEntries() finance.FinancialEntryRepository
}
