package persistence

import (
	"context"
	"sort"
	"strings"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChurchRepository implements church.ChurchRepository using GORM
type GormChurchRepository struct {
	db *gorm.DB
}

// NewGormChurchRepository creates a new GormChurchRepository
func NewGormChurchRepository(db *gorm.DB) *GormChurchRepository {
	return &GormChurchRepository{db: db}
}

// FindByID finds a church by its ID
func (r *GormChurchRepository) FindByID(ctx context.Context, id uuid.UUID) (*church.Church, error) {
	var model models.ChurchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists churches matching the filter
func (r *GormChurchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]church.Church, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChurchModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ChurchModel
	if err := paginate(query, filter, churchSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	churches := make([]church.Church, len(rows))
	for i := range rows {
		churches[i] = *rows[i].ToDomain()
	}
	return churches, total, nil
}

// ExistsByCNPJ reports whether a church is already registered with the CNPJ
func (r *GormChurchRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChurchModel{}).
		Where("cnpj = ?", cnpj).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a church
func (r *GormChurchRepository) Save(ctx context.Context, c *church.Church) error {
	return translateError(r.db.WithContext(ctx).Save(models.ChurchModelFromDomain(c)).Error)
}

// GormMemberRepository implements church.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member within a church
func (r *GormMemberRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*church.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the members of a church. The birthday month filter runs in
// memory so the query stays portable across PostgreSQL and SQLite.
func (r *GormMemberRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter church.MemberFilter) ([]church.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MemberModel{}).Where("church_id = ?", churchID)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	if filter.BirthdayMonth != nil {
		var rows []models.MemberModel
		if err := query.Where("birth_date IS NOT NULL").Order("full_name ASC").Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		members := make([]church.Member, 0, len(rows))
		for i := range rows {
			m := rows[i].ToDomain()
			if m.HasBirthdayIn(*filter.BirthdayMonth) {
				members = append(members, *m)
			}
		}
		sortByBirthday(members)
		return members, int64(len(members)), nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.MemberModel
	if err := paginate(query, filter.Filter, memberSortFields, "full_name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	members := make([]church.Member, len(rows))
	for i := range rows {
		members[i] = *rows[i].ToDomain()
	}
	return members, total, nil
}

func sortByBirthday(members []church.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].BirthDate.Day() < members[j].BirthDate.Day()
	})
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *church.Member) error {
	return r.db.WithContext(ctx).Save(models.MemberModelFromDomain(member)).Error
}

// Delete removes a member of a church
func (r *GormMemberRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MemberModel{}, "church_id = ? AND id = ?", churchID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus counts the members of a church per membership status
func (r *GormMemberRepository) CountByStatus(ctx context.Context, churchID uuid.UUID) (map[church.MembershipStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Select("status, COUNT(*) AS count").
		Where("church_id = ?", churchID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[church.MembershipStatus]int64, len(rows))
	for _, row := range rows {
		counts[church.MembershipStatus(strings.ToLower(row.Status))] = row.Count
	}
	return counts, nil
}

var (
	_ church.ChurchRepository = (*GormChurchRepository)(nil)
	_ church.MemberRepository = (*GormMemberRepository)(nil)
)
