package models

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// ChartAccountModel is the persistence model for chart of accounts entries
type ChartAccountModel struct {
	ChurchAggregateModel
	Code        string `gorm:"type:varchar(30);not null;index"`
	Name        string `gorm:"type:varchar(200);not null"`
	Nature      string `gorm:"type:varchar(10);not null"`
	Kind        string `gorm:"type:varchar(10);not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ChartAccountModel) TableName() string {
	return "chart_accounts"
}

// ToDomain converts the persistence model to a domain ChartAccount
func (m *ChartAccountModel) ToDomain() *accounting.ChartAccount {
	a := &accounting.ChartAccount{
		Code:        m.Code,
		Name:        m.Name,
		Nature:      accounting.AccountNature(m.Nature),
		Kind:        accounting.AccountKind(m.Kind),
		Description: m.Description,
		Active:      m.Active,
	}
	m.PopulateChurchAggregateRoot(&a.ChurchAggregateRoot)
	return a
}

// ChartAccountModelFromDomain creates a persistence model from a domain ChartAccount
func ChartAccountModelFromDomain(a *accounting.ChartAccount) *ChartAccountModel {
	m := &ChartAccountModel{
		Code:        a.Code,
		Name:        a.Name,
		Nature:      string(a.Nature),
		Kind:        string(a.Kind),
		Description: a.Description,
		Active:      a.Active,
	}
	m.FromDomainChurchAggregateRoot(a.ChurchAggregateRoot)
	return m
}

// JournalEntryModel is the persistence model for double-entry journal entries
type JournalEntryModel struct {
	ChurchAggregateModel
	EntryDate         time.Time       `gorm:"type:date;not null;index"`
	DebitAccountCode  string          `gorm:"type:varchar(30);not null;index"`
	CreditAccountCode string          `gorm:"type:varchar(30);not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	History           string          `gorm:"type:varchar(500);not null"`
	DocumentNumber    string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the persistence model to a domain JournalEntry
func (m *JournalEntryModel) ToDomain() *accounting.JournalEntry {
	e := &accounting.JournalEntry{
		EntryDate:         m.EntryDate,
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		Amount:            m.Amount,
		History:           m.History,
		DocumentNumber:    m.DocumentNumber,
	}
	m.PopulateChurchAggregateRoot(&e.ChurchAggregateRoot)
	return e
}

// JournalEntryModelFromDomain creates a persistence model from a domain JournalEntry
func JournalEntryModelFromDomain(e *accounting.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{
		EntryDate:         e.EntryDate,
		DebitAccountCode:  e.DebitAccountCode,
		CreditAccountCode: e.CreditAccountCode,
		Amount:            e.Amount,
		History:           e.History,
		DocumentNumber:    e.DocumentNumber,
	}
	m.FromDomainChurchAggregateRoot(e.ChurchAggregateRoot)
	return m
}
