package persistence

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChartAccountRepository implements accounting.ChartAccountRepository using GORM
type GormChartAccountRepository struct {
	db *gorm.DB
}

// NewGormChartAccountRepository creates a new GormChartAccountRepository
func NewGormChartAccountRepository(db *gorm.DB) *GormChartAccountRepository {
	return &GormChartAccountRepository{db: db}
}

// FindByID finds an account within a church
func (r *GormChartAccountRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*accounting.ChartAccount, error) {
	var model models.ChartAccountModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by code within a church
func (r *GormChartAccountRepository) FindByCode(ctx context.Context, churchID uuid.UUID, code string) (*accounting.ChartAccount, error) {
	var model models.ChartAccountModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND code = ?", churchID, code).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns the chart of a church sorted by code segments
func (r *GormChartAccountRepository) FindAll(ctx context.Context, churchID uuid.UUID) ([]accounting.ChartAccount, error) {
	var rows []models.ChartAccountModel
	if err := r.db.WithContext(ctx).Where("church_id = ?", churchID).Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]accounting.ChartAccount, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	accounting.SortAccounts(accounts)
	return accounts, nil
}

// Save creates or updates an account
func (r *GormChartAccountRepository) Save(ctx context.Context, account *accounting.ChartAccount) error {
	return translateError(r.db.WithContext(ctx).Save(models.ChartAccountModelFromDomain(account)).Error)
}

// SaveBatch inserts or updates several accounts at once
func (r *GormChartAccountRepository) SaveBatch(ctx context.Context, accounts []*accounting.ChartAccount) error {
	if len(accounts) == 0 {
		return nil
	}
	rows := make([]*models.ChartAccountModel, len(accounts))
	for i, a := range accounts {
		rows[i] = models.ChartAccountModelFromDomain(a)
	}
	return translateError(r.db.WithContext(ctx).Save(rows).Error)
}

// Delete removes an account of a church
func (r *GormChartAccountRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ChartAccountModel{}, "church_id = ? AND id = ?", churchID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountEntries counts journal entries posted to the code on either side
func (r *GormChartAccountRepository) CountEntries(ctx context.Context, churchID uuid.UUID, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Where("church_id = ? AND (debit_account_code = ? OR credit_account_code = ?)", churchID, code, code).
		Count(&count).Error
	return count, err
}

// GormJournalEntryRepository implements accounting.JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID finds an entry within a church
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the entries of a church, newest first by default
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter accounting.JournalEntryFilter) ([]accounting.JournalEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).Where("church_id = ?", churchID)
	if filter.From != nil {
		query = query.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", *filter.To)
	}
	if filter.AccountCode != "" {
		query = query.Where("debit_account_code = ? OR credit_account_code = ?", filter.AccountCode, filter.AccountCode)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(history) LIKE ? OR LOWER(document_number) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.JournalEntryModel
	if err := paginate(query, filter.Filter, journalSortFields, "entry_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return journalEntries(rows), total, nil
}

// FindUpTo returns every entry dated on or before the given day
func (r *GormJournalEntryRepository) FindUpTo(ctx context.Context, churchID uuid.UUID, to time.Time) ([]accounting.JournalEntry, error) {
	var rows []models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND entry_date <= ?", churchID, to).
		Order("entry_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return journalEntries(rows), nil
}

func journalEntries(rows []models.JournalEntryModel) []accounting.JournalEntry {
	entries := make([]accounting.JournalEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

// Save creates or updates an entry
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	return r.db.WithContext(ctx).Save(models.JournalEntryModelFromDomain(entry)).Error
}

// Delete removes an entry of a church
func (r *GormJournalEntryRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.JournalEntryModel{}, "church_id = ? AND id = ?", churchID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ accounting.ChartAccountRepository = (*GormChartAccountRepository)(nil)
	_ accounting.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
)
