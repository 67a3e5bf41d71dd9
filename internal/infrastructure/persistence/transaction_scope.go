package persistence

import (
	"context"

	appaccounting "github.com/ecclesia/backend/internal/application/accounting"
	appfinance "github.com/ecclesia/backend/internal/application/finance"
	appschool "github.com/ecclesia/backend/internal/application/school"
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/store"
	"gorm.io/gorm"
)

// GormTransactionScope runs a function inside a GORM transaction and hands it
// repositories bound to that transaction. R is the repository set a service sees.
type GormTransactionScope[R any] struct {
	db   *gorm.DB
	bind func(*TxRepositories) R
}

// Execute runs fn within a transaction. Any error rolls the transaction back.
func (s *GormTransactionScope[R]) Execute(ctx context.Context, fn func(repos R) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.bind(&TxRepositories{tx: tx}))
	})
}

// TxRepositories provides every repository scoped to one transaction
type TxRepositories struct {
	tx *gorm.DB
}

func (r *TxRepositories) ChartAccounts() accounting.ChartAccountRepository {
	return NewGormChartAccountRepository(r.tx)
}

func (r *TxRepositories) JournalEntries() accounting.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.tx)
}

func (r *TxRepositories) BankAccounts() finance.BankAccountRepository {
	return NewGormBankAccountRepository(r.tx)
}

func (r *TxRepositories) FinancialEntries() finance.FinancialEntryRepository {
	return NewGormFinancialEntryRepository(r.tx)
}

func (r *TxRepositories) Bills() finance.BillRepository {
	return NewGormBillRepository(r.tx)
}

func (r *TxRepositories) Magazines() school.MagazineRepository {
	return NewGormMagazineRepository(r.tx)
}

func (r *TxRepositories) Classrooms() school.ClassroomRepository {
	return NewGormClassroomRepository(r.tx)
}

func (r *TxRepositories) LessonPlans() school.LessonPlanRepository {
	return NewGormLessonPlanRepository(r.tx)
}

func (r *TxRepositories) Products() store.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *TxRepositories) Carts() store.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *TxRepositories) Orders() store.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// NewAccountingTransactionScope creates the scope used to post journal entries
func NewAccountingTransactionScope(db *gorm.DB) *GormTransactionScope[appaccounting.TransactionalRepositories] {
	return &GormTransactionScope[appaccounting.TransactionalRepositories]{
		db:   db,
		bind: func(r *TxRepositories) appaccounting.TransactionalRepositories { return r },
	}
}

// NewFinanceTransactionScope creates the scope used for bank accounts and bills
func NewFinanceTransactionScope(db *gorm.DB) *GormTransactionScope[appfinance.TransactionalRepositories] {
	return &GormTransactionScope[appfinance.TransactionalRepositories]{
		db:   db,
		bind: func(r *TxRepositories) appfinance.TransactionalRepositories { return r },
	}
}

// NewSchoolTransactionScope creates the scope used by the onboarding wizard
func NewSchoolTransactionScope(db *gorm.DB) *GormTransactionScope[appschool.TransactionalRepositories] {
	return &GormTransactionScope[appschool.TransactionalRepositories]{
		db:   db,
		bind: func(r *TxRepositories) appschool.TransactionalRepositories { return r },
	}
}

// NewStoreTransactionScope creates the scope used by checkout
func NewStoreTransactionScope(db *gorm.DB) *GormTransactionScope[appstore.TransactionalRepositories] {
	return &GormTransactionScope[appstore.TransactionalRepositories]{
		db:   db,
		bind: func(r *TxRepositories) appstore.TransactionalRepositories { return r },
	}
}

var (
	_ appaccounting.TransactionScope = (*GormTransactionScope[appaccounting.TransactionalRepositories])(nil)
	_ appfinance.TransactionScope    = (*GormTransactionScope[appfinance.TransactionalRepositories])(nil)
	_ appschool.TransactionScope     = (*GormTransactionScope[appschool.TransactionalRepositories])(nil)
	_ appstore.TransactionScope      = (*GormTransactionScope[appstore.TransactionalRepositories])(nil)
)
