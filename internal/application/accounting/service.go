package accounting

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatementCache keeps computed statements per church. Any posting invalidates
// the church's entries.
type StatementCache interface {
	Get(ctx context.Context, churchID uuid.UUID, key string, dst any) (bool, error)
	// Generation is read before loading so Set can discard a result that an
	// Invalidate overtook
	Generation(ctx context.Context, churchID uuid.UUID) (int64, error)
	Set(ctx context.Context, churchID uuid.UUID, generation int64, key string, value any) error
	Invalidate(ctx context.Context, churchID uuid.UUID) error
}

// AccountingService manages the chart of accounts and the journal
type AccountingService struct {
	chartRepo accounting.ChartAccountRepository
	entryRepo accounting.JournalEntryRepository
	txScope   TransactionScope
	cache     StatementCache
	events    shared.EventPublisher
	metrics   *telemetry.AppMetrics
	logger    *zap.Logger
}

// NewAccountingService creates the service. cache and events may be nil.
func NewAccountingService(
	chartRepo accounting.ChartAccountRepository,
	entryRepo accounting.JournalEntryRepository,
	txScope TransactionScope,
	cache StatementCache,
	events shared.EventPublisher,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *AccountingService {
	return &AccountingService{
		chartRepo: chartRepo,
		entryRepo: entryRepo,
		txScope:   txScope,
		cache:     cache,
		events:    events,
		metrics:   metrics,
		logger:    logger,
	}
}

// SeedDefaultChart installs the standard church chart. It refuses a church
// that already has accounts.
func (s *AccountingService) SeedDefaultChart(ctx context.Context, churchID uuid.UUID) ([]AccountResponse, error) {
	existing, err := s.chartRepo.FindAll(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, shared.NewDomainError("CHART_ALREADY_SEEDED", "The chart of accounts already has accounts")
	}

	accounts := accounting.DefaultChart(churchID)
	if err := s.chartRepo.SaveBatch(ctx, accounts); err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = ToAccountResponse(a)
	}
	return responses, nil
}

// ListChart returns the chart in code order
func (s *AccountingService) ListChart(ctx context.Context, churchID uuid.UUID) ([]AccountResponse, error) {
	chart, err := s.chartRepo.FindAll(ctx, churchID)
	if err != nil {
		return nil, err
	}
	accounting.SortAccounts(chart)

	responses := make([]AccountResponse, len(chart))
	for i := range chart {
		responses[i] = ToAccountResponse(&chart[i])
	}
	return responses, nil
}

// CreateAccount adds an account under an existing synthetic parent
func (s *AccountingService) CreateAccount(ctx context.Context, churchID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := accounting.NewChartAccount(churchID, req.Code, req.Name,
		accounting.AccountNature(req.Nature), accounting.AccountKind(req.Kind))
	if err != nil {
		return nil, err
	}
	account.Description = req.Description

	chart, err := s.chartRepo.FindAll(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidatePlacement(chart, account); err != nil {
		return nil, err
	}

	if err := s.chartRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.invalidate(ctx, churchID)

	resp := ToAccountResponse(account)
	return &resp, nil
}

// UpdateAccount renames an account and optionally deactivates it
func (s *AccountingService) UpdateAccount(ctx context.Context, churchID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.chartRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := account.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			account.Active = true
		} else {
			account.Deactivate()
		}
	}

	if err := s.chartRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.invalidate(ctx, churchID)

	resp := ToAccountResponse(account)
	return &resp, nil
}

// DeleteAccount removes an account without sub-accounts or entries
func (s *AccountingService) DeleteAccount(ctx context.Context, churchID, id uuid.UUID) error {
	account, err := s.chartRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return err
	}

	chart, err := s.chartRepo.FindAll(ctx, churchID)
	if err != nil {
		return err
	}
	if accounting.HasChildren(chart, account.Code) {
		return shared.NewDomainError("ACCOUNT_HAS_CHILDREN", "Delete the sub-accounts of "+account.Code+" first")
	}

	used, err := s.chartRepo.CountEntries(ctx, churchID, account.Code)
	if err != nil {
		return err
	}
	if used > 0 {
		return shared.NewDomainError("ACCOUNT_IN_USE", "Account "+account.Code+" has journal entries; deactivate it instead")
	}

	if err := s.chartRepo.Delete(ctx, churchID, id); err != nil {
		return err
	}
	s.invalidate(ctx, churchID)
	return nil
}

// PostEntry validates an entry against the chart and writes it together with
// the cash-flow row shown on the finance dashboard
func (s *AccountingService) PostEntry(ctx context.Context, churchID uuid.UUID, req PostEntryRequest) (resp *EntryResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "accounting", "post_entry", telemetry.ChurchAttr(churchID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	entry, err := accounting.NewJournalEntry(churchID, req.EntryDate, req.DebitAccountCode, req.CreditAccountCode, req.Amount, req.History)
	if err != nil {
		return nil, err
	}
	if req.DocumentNumber != "" {
		entry.SetDocumentNumber(req.DocumentNumber)
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		chart, err := repos.ChartAccounts().FindAll(ctx, churchID)
		if err != nil {
			return err
		}
		byCode := make(map[string]*accounting.ChartAccount, len(chart))
		for i := range chart {
			byCode[chart[i].Code] = &chart[i]
		}
		if err := entry.ValidateAgainstChart(byCode); err != nil {
			return err
		}

		if err := repos.JournalEntries().Save(ctx, entry); err != nil {
			return err
		}

		cashFlow, err := cashFlowFor(entry, byCode, req.BankAccountID)
		if err != nil || cashFlow == nil {
			return err
		}
		return repos.FinancialEntries().Save(ctx, cashFlow)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, churchID)
	s.metrics.JournalEntryPosted(ctx, churchID.String())
	s.publish(ctx, entry)

	r := ToEntryResponse(entry)
	return &r, nil
}

// cashFlowFor mirrors revenue and expense postings as dashboard rows. Transfers
// between balance sheet accounts have no cash-flow row.
func cashFlowFor(entry *accounting.JournalEntry, chart map[string]*accounting.ChartAccount, bankAccountID *uuid.UUID) (*finance.FinancialEntry, error) {
	var (
		entryType finance.EntryType
		category  string
	)
	switch {
	case entry.IsRevenue():
		entryType = finance.EntryTypeIncome
		category = chart[entry.CreditAccountCode].Name
	case entry.IsExpense():
		entryType = finance.EntryTypeExpense
		category = chart[entry.DebitAccountCode].Name
	default:
		return nil, nil
	}

	row, err := finance.NewFinancialEntry(entry.ChurchID, entryType, category, entry.History, entry.Amount, entry.EntryDate)
	if err != nil {
		return nil, err
	}
	row.LinkJournalEntry(entry.ID)
	if bankAccountID != nil {
		row.LinkBankAccount(*bankAccountID)
	}
	if entry.CreatedBy != nil {
		row.SetCreatedBy(*entry.CreatedBy)
	}
	return row, nil
}

// ListEntries lists journal entries, newest first
func (s *AccountingService) ListEntries(ctx context.Context, churchID uuid.UUID, f EntryListFilter) ([]EntryResponse, int64, error) {
	filter := accounting.JournalEntryFilter{
		Filter:      shared.DefaultFilter(),
		AccountCode: f.AccountCode,
	}
	filter.OrderBy = "entry_date"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.From != "" {
		from, err := ParseDate(f.From)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if f.To != "" {
		to, err := ParseDate(f.To)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &to
	}

	entries, total, err := s.entryRepo.FindAll(ctx, churchID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// DeleteEntry removes a journal entry and its cash-flow row
func (s *AccountingService) DeleteEntry(ctx context.Context, churchID, id uuid.UUID) error {
	var entry *accounting.JournalEntry
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entry, err = repos.JournalEntries().FindByID(ctx, churchID, id)
		if err != nil {
			return err
		}
		if err := repos.FinancialEntries().DeleteByJournalEntry(ctx, churchID, id); err != nil {
			return err
		}
		return repos.JournalEntries().Delete(ctx, churchID, id)
	})
	if err != nil {
		return err
	}

	entry.MarkDeleted()
	s.invalidate(ctx, churchID)
	s.publish(ctx, entry)
	return nil
}

func (s *AccountingService) invalidate(ctx context.Context, churchID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, churchID); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to invalidate statement cache", zap.Error(err))
	}
}

func (s *AccountingService) publish(ctx context.Context, entry *accounting.JournalEntry) {
	events := entry.GetDomainEvents()
	entry.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to publish journal events",
			zap.String("entry_id", entry.ID.String()), zap.Error(err))
	}
}

// ParseDate parses a YYYY-MM-DD query value
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	}
	return t, nil
}
