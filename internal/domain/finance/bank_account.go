package finance

import (
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountType classifies where the money is held
type BankAccountType string

const (
	BankAccountChecking BankAccountType = "checking"
	BankAccountSavings  BankAccountType = "savings"
	BankAccountCash     BankAccountType = "cash"
)

// IsValid checks if the type is known
func (t BankAccountType) IsValid() bool {
	return t == BankAccountChecking || t == BankAccountSavings || t == BankAccountCash
}

// BankAccount is a church account (or the petty cash box) whose balance feeds the dashboard
type BankAccount struct {
	shared.ChurchAggregateRoot
	Name          string
	BankName      string
	Agency        string
	AccountNumber string
	Type          BankAccountType
	Balance       decimal.Decimal
	IsActive      bool
}

// NewBankAccount creates an account with zero balance. The opening balance is
// applied separately so it gets its own financial entry.
func NewBankAccount(churchID uuid.UUID, name string, accountType BankAccountType) (*BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type must be checking, savings or cash")
	}
	return &BankAccount{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Name:                name,
		Type:                accountType,
		Balance:             decimal.Zero,
		IsActive:            true,
	}, nil
}

// SetBankDetails sets bank, agency and account number
func (a *BankAccount) SetBankDetails(bankName, agency, number string) error {
	if a.Type == BankAccountCash && (agency != "" || number != "") {
		return shared.NewDomainError("INVALID_BANK_DETAILS", "A cash account has no agency or account number")
	}
	a.BankName = strings.TrimSpace(bankName)
	a.Agency = strings.TrimSpace(agency)
	a.AccountNumber = strings.TrimSpace(number)
	a.Touch()
	return nil
}

// Credit adds money to the account
func (a *BankAccount) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	a.Balance = a.Balance.Add(amount)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Debit removes money from the account. Balances may go negative (overdraft).
func (a *BankAccount) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if !a.IsActive {
		return shared.NewDomainError("INACTIVE_ACCOUNT", "Account is inactive")
	}
	a.Balance = a.Balance.Sub(amount)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Apply moves the balance according to an entry's direction
func (a *BankAccount) Apply(entry *FinancialEntry) error {
	if entry.Type == EntryTypeIncome {
		return a.Credit(entry.Amount)
	}
	return a.Debit(entry.Amount)
}

// Deactivate closes the account; it must be empty
func (a *BankAccount) Deactivate() error {
	if !a.Balance.IsZero() {
		return shared.NewDomainError("ACCOUNT_NOT_EMPTY", "Only accounts with zero balance can be closed")
	}
	a.IsActive = false
	a.Touch()
	a.IncrementVersion()
	return nil
}
