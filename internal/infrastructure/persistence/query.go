package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the field against a whitelist, falling back to defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

var (
	memberSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "full_name": true, "status": true, "birth_date": true,
	}
	churchSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "status": true,
	}
	userSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "email": true, "display_name": true, "role": true, "last_login_at": true,
	}
	journalSortFields = map[string]bool{
		"created_at": true, "entry_date": true, "amount": true, "debit_account_code": true, "credit_account_code": true,
	}
	schoolSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "title": true, "quarter": true,
	}
	entrySortFields = map[string]bool{
		"created_at": true, "entry_date": true, "amount": true, "category": true,
	}
	billSortFields = map[string]bool{
		"created_at": true, "due_date": true, "amount": true, "supplier": true, "status": true,
	}
	productSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "sku": true, "price": true, "stock": true,
	}
	orderSortFields = map[string]bool{
		"created_at": true, "number": true, "total": true, "status": true,
	}
)

// paginate applies sort and page settings of the filter to the query
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(fmt.Sprintf("%s %s", field, ValidateSortOrder(filter.OrderDir)))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern for a search term
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// translateError maps GORM errors to domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// saveVersioned inserts an aggregate that was never stored and otherwise
// updates its row only while the row holds the stored version. Every update
// advances the version by at least one.
func saveVersioned(ctx context.Context, db *gorm.DB, root *shared.BaseAggregateRoot, toModel func() any) error {
	stored := root.StoredVersion()
	if stored == 0 {
		if err := db.WithContext(ctx).Create(toModel()).Error; err != nil {
			return translateError(err)
		}
		root.MarkStored()
		return nil
	}

	if root.Version <= stored {
		root.Version = stored + 1
	}
	model := toModel()
	result := db.WithContext(ctx).Model(model).
		Where("version = ?", stored).
		Select("*").Omit("id", "church_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	root.MarkStored()
	return nil
}
