package finance

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/finance"
)

// TransactionScope runs a function inside one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the finance repositories bound to one transaction
type TransactionalRepositories interface {
	BankAccounts() finance.BankAccountRepository
	FinancialEntries() finance.FinancialEntryRepository
	Bills() finance.BillRepository
}
