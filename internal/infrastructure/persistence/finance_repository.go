package persistence

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBankAccountRepository implements finance.BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds a bank account within a church
func (r *GormBankAccountRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*finance.BankAccount, error) {
	var model models.BankAccountModel
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the bank accounts of a church by name
func (r *GormBankAccountRepository) FindAll(ctx context.Context, churchID uuid.UUID) ([]finance.BankAccount, error) {
	var rows []models.BankAccountModel
	if err := r.db.WithContext(ctx).Where("church_id = ?", churchID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.BankAccount, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates a bank account or updates it when the stored row still has
// the version it was loaded with
func (r *GormBankAccountRepository) Save(ctx context.Context, account *finance.BankAccount) error {
	return saveVersioned(ctx, r.db, &account.BaseAggregateRoot, func() any {
		return models.BankAccountModelFromDomain(account)
	})
}

// Delete removes a bank account of a church
func (r *GormBankAccountRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.BankAccountModel{}, churchID, id)
}

// GormFinancialEntryRepository implements finance.FinancialEntryRepository using GORM
type GormFinancialEntryRepository struct {
	db *gorm.DB
}

// NewGormFinancialEntryRepository creates a new GormFinancialEntryRepository
func NewGormFinancialEntryRepository(db *gorm.DB) *GormFinancialEntryRepository {
	return &GormFinancialEntryRepository{db: db}
}

// FindAll lists the cash flow entries of a church. A zero PageSize returns every match.
func (r *GormFinancialEntryRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter finance.EntryFilter) ([]finance.FinancialEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialEntryModel{}).Where("church_id = ?", churchID)
	if filter.From != nil {
		query = query.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", *filter.To)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.BankAccountID != nil {
		query = query.Where("bank_account_id = ?", *filter.BankAccountID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.FinancialEntryModel
	if err := paginate(query, filter.Filter, entrySortFields, "entry_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return financialEntries(rows), total, nil
}

// FindByJournalEntry returns the cash flow row synced from a journal entry
func (r *GormFinancialEntryRepository) FindByJournalEntry(ctx context.Context, churchID, journalEntryID uuid.UUID) (*finance.FinancialEntry, error) {
	var model models.FinancialEntryModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND journal_entry_id = ?", churchID, journalEntryID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func financialEntries(rows []models.FinancialEntryModel) []finance.FinancialEntry {
	out := make([]finance.FinancialEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Save creates or updates an entry
func (r *GormFinancialEntryRepository) Save(ctx context.Context, entry *finance.FinancialEntry) error {
	return r.db.WithContext(ctx).Save(models.FinancialEntryModelFromDomain(entry)).Error
}

// DeleteByJournalEntry removes the cash flow rows synced from a journal entry
func (r *GormFinancialEntryRepository) DeleteByJournalEntry(ctx context.Context, churchID, journalEntryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("church_id = ? AND journal_entry_id = ?", churchID, journalEntryID).
		Delete(&models.FinancialEntryModel{}).Error
}

// GormBillRepository implements finance.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill within a church
func (r *GormBillRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*finance.BillToPay, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the bills of a church, earliest due first by default
func (r *GormBillRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter finance.BillFilter) ([]finance.BillToPay, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BillModel{}).Where("church_id = ?", churchID)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(supplier) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "due_date", "asc"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BillModel
	if err := paginate(query, filter.Filter, billSortFields, "due_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return bills(rows), total, nil
}

// FindPendingDueBy returns pending bills of every church due on or before the date
func (r *GormBillRepository) FindPendingDueBy(ctx context.Context, date time.Time) ([]finance.BillToPay, error) {
	var rows []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date <= ?", string(finance.BillStatusPending), date).
		Order("church_id ASC, due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return bills(rows), nil
}

func bills(rows []models.BillModel) []finance.BillToPay {
	out := make([]finance.BillToPay, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Save creates a bill or updates it when the stored row still has the
// version it was loaded with
func (r *GormBillRepository) Save(ctx context.Context, bill *finance.BillToPay) error {
	return saveVersioned(ctx, r.db, &bill.BaseAggregateRoot, func() any {
		return models.BillModelFromDomain(bill)
	})
}

// Delete removes a bill of a church
func (r *GormBillRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return deleteOwned(ctx, r.db, &models.BillModel{}, churchID, id)
}

var (
	_ finance.BankAccountRepository    = (*GormBankAccountRepository)(nil)
	_ finance.FinancialEntryRepository = (*GormFinancialEntryRepository)(nil)
	_ finance.BillRepository           = (*GormBillRepository)(nil)
)
