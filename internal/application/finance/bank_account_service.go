package finance

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountService manages the church's bank accounts and the cash-flow rows
// shown on the financial dashboard
type BankAccountService struct {
	accountRepo finance.BankAccountRepository
	entryRepo   finance.FinancialEntryRepository
	txScope     TransactionScope
	now         func() time.Time
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(
	accountRepo finance.BankAccountRepository,
	entryRepo finance.FinancialEntryRepository,
	txScope TransactionScope,
) *BankAccountService {
	return &BankAccountService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		txScope:     txScope,
		now:         time.Now,
	}
}

// ===================== Bank Accounts =====================

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	BankName      string          `json:"bank_name,omitempty"`
	Agency        string          `json:"agency,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	Type          string          `json:"type"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateBankAccountRequest represents a request to open a bank account
type CreateBankAccountRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	BankName       string           `json:"bank_name" binding:"max=100"`
	Agency         string           `json:"agency" binding:"max=20"`
	AccountNumber  string           `json:"account_number" binding:"max=30"`
	Type           string           `json:"type" binding:"required,oneof=checking savings cash"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
	CreatedBy      *uuid.UUID       `json:"-"`
}

// UpdateBankAccountRequest represents a request to edit a bank account
type UpdateBankAccountRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	BankName      string `json:"bank_name" binding:"max=100"`
	Agency        string `json:"agency" binding:"max=20"`
	AccountNumber string `json:"account_number" binding:"max=30"`
}

// ToBankAccountResponse converts a bank account
func ToBankAccountResponse(a *finance.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		BankName:      a.BankName,
		Agency:        a.Agency,
		AccountNumber: a.AccountNumber,
		Type:          string(a.Type),
		Balance:       a.Balance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// CreateBankAccount opens an account. A positive initial balance is recorded
// as an opening income row in the same transaction.
func (s *BankAccountService) CreateBankAccount(ctx context.Context, churchID uuid.UUID, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	account, err := finance.NewBankAccount(churchID, req.Name, finance.BankAccountType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := account.SetBankDetails(req.BankName, req.Agency, req.AccountNumber); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}

	var opening *finance.FinancialEntry
	if req.InitialBalance != nil && !req.InitialBalance.IsZero() {
		if req.InitialBalance.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Initial balance cannot be negative")
		}
		opening, err = finance.NewFinancialEntry(churchID, finance.EntryTypeIncome, finance.CategoryOpeningBalance,
			"Saldo inicial - "+account.Name, *req.InitialBalance, s.now())
		if err != nil {
			return nil, err
		}
		opening.LinkBankAccount(account.ID)
		if err := account.Apply(opening); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.BankAccounts().Save(ctx, account); err != nil {
			return err
		}
		if opening == nil {
			return nil
		}
		return repos.FinancialEntries().Save(ctx, opening)
	})
	if err != nil {
		return nil, err
	}

	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// GetBankAccount returns one account
func (s *BankAccountService) GetBankAccount(ctx context.Context, churchID, id uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// ListBankAccounts returns every account of the church
func (s *BankAccountService) ListBankAccounts(ctx context.Context, churchID uuid.UUID) ([]BankAccountResponse, error) {
	accounts, err := s.accountRepo.FindAll(ctx, churchID)
	if err != nil {
		return nil, err
	}
	responses := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToBankAccountResponse(&accounts[i])
	}
	return responses, nil
}

// UpdateBankAccount edits the name and bank details
func (s *BankAccountService) UpdateBankAccount(ctx context.Context, churchID, id uuid.UUID, req UpdateBankAccountRequest) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	account.Name = req.Name
	if err := account.SetBankDetails(req.BankName, req.Agency, req.AccountNumber); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	resp := ToBankAccountResponse(account)
	return &resp, nil
}

// CloseBankAccount deactivates an account with zero balance
func (s *BankAccountService) CloseBankAccount(ctx context.Context, churchID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return err
	}
	if err := account.Deactivate(); err != nil {
		return err
	}
	return s.accountRepo.Save(ctx, account)
}

// DeleteBankAccount removes an account with zero balance. Its cash-flow rows
// are kept and lose the link.
func (s *BankAccountService) DeleteBankAccount(ctx context.Context, churchID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return shared.NewDomainError("ACCOUNT_NOT_EMPTY", "Only accounts with zero balance can be deleted")
	}
	return s.accountRepo.Delete(ctx, churchID, id)
}

// ===================== Cash Flow =====================

// FinancialEntryResponse represents a cash-flow row in API responses
type FinancialEntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	EntryDate      time.Time       `json:"entry_date"`
	BankAccountID  *uuid.UUID      `json:"bank_account_id,omitempty"`
	JournalEntryID *uuid.UUID      `json:"journal_entry_id,omitempty"`
	BillID         *uuid.UUID      `json:"bill_id,omitempty"`
}

// CreateFinancialEntryRequest records a manual income or expense
type CreateFinancialEntryRequest struct {
	Type          string          `json:"type" binding:"required,oneof=income expense"`
	Category      string          `json:"category" binding:"max=60"`
	Description   string          `json:"description" binding:"required,max=255"`
	Amount        decimal.Decimal `json:"amount"`
	EntryDate     time.Time       `json:"entry_date" binding:"required"`
	BankAccountID *uuid.UUID      `json:"bank_account_id"`
	CreatedBy     *uuid.UUID      `json:"-"`
}

// FinancialEntryListFilter is the query string of the cash-flow listing
type FinancialEntryListFilter struct {
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Type          string     `form:"type" binding:"omitempty,oneof=income expense"`
	BankAccountID string     `form:"bank_account_id" binding:"omitempty,uuid"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// ToFinancialEntryResponse converts a cash-flow row
func ToFinancialEntryResponse(e *finance.FinancialEntry) FinancialEntryResponse {
	return FinancialEntryResponse{
		ID:             e.ID,
		Type:           string(e.Type),
		Category:       e.Category,
		Description:    e.Description,
		Amount:         e.Amount,
		EntryDate:      e.EntryDate,
		BankAccountID:  e.BankAccountID,
		JournalEntryID: e.JournalEntryID,
		BillID:         e.BillID,
	}
}

func (f FinancialEntryListFilter) toDomain() finance.EntryFilter {
	filter := finance.EntryFilter{
		Filter: shared.DefaultFilter(),
		From:   f.From,
		To:     f.To,
		Type:   finance.EntryType(f.Type),
	}
	if id, err := uuid.Parse(f.BankAccountID); err == nil {
		filter.BankAccountID = &id
	}
	filter.OrderBy = "entry_date"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	return filter
}

// RecordEntry writes a manual cash-flow row and moves the linked account's
// balance in the same transaction
func (s *BankAccountService) RecordEntry(ctx context.Context, churchID uuid.UUID, req CreateFinancialEntryRequest) (*FinancialEntryResponse, error) {
	entry, err := finance.NewFinancialEntry(churchID, finance.EntryType(req.Type), req.Category, req.Description, req.Amount, req.EntryDate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.BankAccountID != nil {
			account, err := repos.BankAccounts().FindByID(ctx, churchID, *req.BankAccountID)
			if err != nil {
				return err
			}
			if err := account.Apply(entry); err != nil {
				return err
			}
			entry.LinkBankAccount(account.ID)
			if err := repos.BankAccounts().Save(ctx, account); err != nil {
				return err
			}
		}
		return repos.FinancialEntries().Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	resp := ToFinancialEntryResponse(entry)
	return &resp, nil
}

// ListEntries lists cash-flow rows, newest first
func (s *BankAccountService) ListEntries(ctx context.Context, churchID uuid.UUID, f FinancialEntryListFilter) ([]FinancialEntryResponse, int64, error) {
	entries, total, err := s.entryRepo.FindAll(ctx, churchID, f.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]FinancialEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToFinancialEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// Summary totals income, expense and balance for the filtered period
func (s *BankAccountService) Summary(ctx context.Context, churchID uuid.UUID, f FinancialEntryListFilter) (*finance.CashFlowSummary, error) {
	filter := f.toDomain()
	// every row of the period, not one page
	filter.Page = 1
	filter.PageSize = 0
	entries, _, err := s.entryRepo.FindAll(ctx, churchID, filter)
	if err != nil {
		return nil, err
	}
	summary := finance.Summarize(entries)
	return &summary, nil
}
