package models

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountModel is the persistence model for church bank accounts
type BankAccountModel struct {
	ChurchAggregateModel
	Name          string          `gorm:"type:varchar(100);not null"`
	BankName      string          `gorm:"type:varchar(100)"`
	Agency        string          `gorm:"type:varchar(20)"`
	AccountNumber string          `gorm:"type:varchar(30)"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount
func (m *BankAccountModel) ToDomain() *finance.BankAccount {
	a := &finance.BankAccount{
		Name:          m.Name,
		BankName:      m.BankName,
		Agency:        m.Agency,
		AccountNumber: m.AccountNumber,
		Type:          finance.BankAccountType(m.Type),
		Balance:       m.Balance,
		IsActive:      m.IsActive,
	}
	m.PopulateChurchAggregateRoot(&a.ChurchAggregateRoot)
	return a
}

// BankAccountModelFromDomain creates a persistence model from a domain BankAccount
func BankAccountModelFromDomain(a *finance.BankAccount) *BankAccountModel {
	m := &BankAccountModel{
		Name:          a.Name,
		BankName:      a.BankName,
		Agency:        a.Agency,
		AccountNumber: a.AccountNumber,
		Type:          string(a.Type),
		Balance:       a.Balance,
		IsActive:      a.IsActive,
	}
	m.FromDomainChurchAggregateRoot(a.ChurchAggregateRoot)
	return m
}

// FinancialEntryModel is the persistence model for cash flow entries
type FinancialEntryModel struct {
	ChurchAggregateModel
	Type           string          `gorm:"type:varchar(10);not null"`
	Category       string          `gorm:"type:varchar(50);not null;index"`
	Description    string          `gorm:"type:varchar(500)"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EntryDate      time.Time       `gorm:"type:date;not null;index"`
	BankAccountID  *uuid.UUID      `gorm:"type:uuid;index"`
	JournalEntryID *uuid.UUID      `gorm:"type:uuid;index"`
	BillID         *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FinancialEntryModel) TableName() string {
	return "financial_entries"
}

// ToDomain converts the persistence model to a domain FinancialEntry
func (m *FinancialEntryModel) ToDomain() *finance.FinancialEntry {
	e := &finance.FinancialEntry{
		Type:           finance.EntryType(m.Type),
		Category:       m.Category,
		Description:    m.Description,
		Amount:         m.Amount,
		EntryDate:      m.EntryDate,
		BankAccountID:  m.BankAccountID,
		JournalEntryID: m.JournalEntryID,
		BillID:         m.BillID,
	}
	m.PopulateChurchAggregateRoot(&e.ChurchAggregateRoot)
	return e
}

// FinancialEntryModelFromDomain creates a persistence model from a domain FinancialEntry
func FinancialEntryModelFromDomain(e *finance.FinancialEntry) *FinancialEntryModel {
	m := &FinancialEntryModel{
		Type:           string(e.Type),
		Category:       e.Category,
		Description:    e.Description,
		Amount:         e.Amount,
		EntryDate:      e.EntryDate,
		BankAccountID:  uuidPtr(e.BankAccountID),
		JournalEntryID: uuidPtr(e.JournalEntryID),
		BillID:         uuidPtr(e.BillID),
	}
	m.FromDomainChurchAggregateRoot(e.ChurchAggregateRoot)
	return m
}

// BillModel is the persistence model for bills to pay
type BillModel struct {
	ChurchAggregateModel
	Supplier       string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:varchar(500)"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueDate        time.Time       `gorm:"type:date;not null;index"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	PaidAt         *time.Time
	PaidFromID     *uuid.UUID `gorm:"type:uuid"`
	ReceiptKey     string     `gorm:"type:varchar(500)"`
	CancelReason   string     `gorm:"type:varchar(500)"`
	LastRemindedAt *time.Time
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills_to_pay"
}

// ToDomain converts the persistence model to a domain BillToPay
func (m *BillModel) ToDomain() *finance.BillToPay {
	b := &finance.BillToPay{
		Supplier:       m.Supplier,
		Description:    m.Description,
		Amount:         m.Amount,
		DueDate:        m.DueDate,
		Status:         finance.BillStatus(m.Status),
		PaidAt:         m.PaidAt,
		PaidFromID:     m.PaidFromID,
		ReceiptKey:     m.ReceiptKey,
		CancelReason:   m.CancelReason,
		LastRemindedAt: m.LastRemindedAt,
	}
	m.PopulateChurchAggregateRoot(&b.ChurchAggregateRoot)
	return b
}

// BillModelFromDomain creates a persistence model from a domain BillToPay
func BillModelFromDomain(b *finance.BillToPay) *BillModel {
	m := &BillModel{
		Supplier:       b.Supplier,
		Description:    b.Description,
		Amount:         b.Amount,
		DueDate:        b.DueDate,
		Status:         string(b.Status),
		PaidAt:         b.PaidAt,
		PaidFromID:     uuidPtr(b.PaidFromID),
		ReceiptKey:     b.ReceiptKey,
		CancelReason:   b.CancelReason,
		LastRemindedAt: b.LastRemindedAt,
	}
	m.FromDomainChurchAggregateRoot(b.ChurchAggregateRoot)
	return m
}
