package accounting

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest adds an account to the chart
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required,max=30"`
	Name        string `json:"name" binding:"required,min=1,max=150"`
	Nature      string `json:"nature" binding:"required,oneof=debtor creditor"`
	Kind        string `json:"kind" binding:"required,oneof=synthetic analytic"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateAccountRequest renames or deactivates an account
type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=150"`
	Description string `json:"description" binding:"max=500"`
	Active      *bool  `json:"active"`
}

// AccountResponse is a chart account in API responses
type AccountResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Nature      string    `json:"nature"`
	Kind        string    `json:"kind"`
	Level       int       `json:"level"`
	ParentCode  string    `json:"parent_code,omitempty"`
	Group       string    `json:"group"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
}

// ToAccountResponse converts a chart account
func ToAccountResponse(a *accounting.ChartAccount) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Nature:      string(a.Nature),
		Kind:        string(a.Kind),
		Level:       a.Level(),
		ParentCode:  a.ParentCode(),
		Group:       string(a.Group()),
		Description: a.Description,
		Active:      a.Active,
	}
}

// PostEntryRequest posts a double-entry journal line
type PostEntryRequest struct {
	EntryDate         time.Time       `json:"entry_date" binding:"required"`
	DebitAccountCode  string          `json:"debit_account_code" binding:"required,max=30"`
	CreditAccountCode string          `json:"credit_account_code" binding:"required,max=30,nefield=DebitAccountCode"`
	Amount            decimal.Decimal `json:"amount"`
	History           string          `json:"history" binding:"required,max=500"`
	DocumentNumber    string          `json:"document_number" binding:"max=50"`
	// BankAccountID links the synced cash-flow row to a bank account
	BankAccountID *uuid.UUID `json:"bank_account_id"`
	CreatedBy     *uuid.UUID `json:"-"`
}

// EntryResponse is a journal entry in API responses
type EntryResponse struct {
	ID                uuid.UUID       `json:"id"`
	EntryDate         time.Time       `json:"entry_date"`
	DebitAccountCode  string          `json:"debit_account_code"`
	CreditAccountCode string          `json:"credit_account_code"`
	Amount            decimal.Decimal `json:"amount"`
	History           string          `json:"history"`
	DocumentNumber    string          `json:"document_number,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToEntryResponse converts a journal entry
func ToEntryResponse(e *accounting.JournalEntry) EntryResponse {
	return EntryResponse{
		ID:                e.ID,
		EntryDate:         e.EntryDate,
		DebitAccountCode:  e.DebitAccountCode,
		CreditAccountCode: e.CreditAccountCode,
		Amount:            e.Amount,
		History:           e.History,
		DocumentNumber:    e.DocumentNumber,
		CreatedAt:         e.CreatedAt,
	}
}

// EntryListFilter is the query string of the journal listing
type EntryListFilter struct {
	From        string `form:"from"`
	To          string `form:"to"`
	AccountCode string `form:"account_code"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// PeriodQuery selects the statement period; both dates are YYYY-MM-DD
type PeriodQuery struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Format string `form:"format" binding:"omitempty,oneof=json html pdf"`
}

// StatementKind names one of the three statements
type StatementKind string

const (
	StatementTrialBalance    StatementKind = "trial-balance"
	StatementBalanceSheet    StatementKind = "balance-sheet"
	StatementIncomeStatement StatementKind = "income-statement"
)

// Document is a rendered statement ready to be served
type Document struct {
	ContentType string
	Filename    string
	Body        []byte
}
