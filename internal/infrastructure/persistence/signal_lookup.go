package persistence

import (
	"context"
	"strings"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSignalLookup answers the redirect resolver's questions with one query per signal
type GormSignalLookup struct {
	db *gorm.DB
}

// NewGormSignalLookup creates a new GormSignalLookup
func NewGormSignalLookup(db *gorm.DB) *GormSignalLookup {
	return &GormSignalLookup{db: db}
}

func (l *GormSignalLookup) exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error
	return count > 0, err
}

// IsSalesperson matches an active salesperson by email
func (l *GormSignalLookup) IsSalesperson(ctx context.Context, email string) (bool, error) {
	return l.exists(ctx, &models.SalespersonModel{}, "email = ? AND active = ?", normalizeEmail(email), true)
}

// IsResellerClient reports whether the church is a reseller client
func (l *GormSignalLookup) IsResellerClient(ctx context.Context, churchID uuid.UUID) (bool, error) {
	return l.exists(ctx, &models.ChurchModel{}, "id = ? AND client_type = ?", churchID, string(church.ClientTypeReseller))
}

// IsSuperintendent matches the church's appointed superintendent by user id
func (l *GormSignalLookup) IsSuperintendent(ctx context.Context, churchID, userID uuid.UUID) (bool, error) {
	return l.exists(ctx, &models.ChurchModel{}, "id = ? AND superintendent_id = ?", churchID, userID)
}

// IsReactivationLead matches an open or contacted lead by email
func (l *GormSignalLookup) IsReactivationLead(ctx context.Context, email string) (bool, error) {
	return l.exists(ctx, &models.ReactivationLeadModel{}, "email = ? AND status IN ?", normalizeEmail(email),
		[]string{string(store.LeadStatusOpen), string(store.LeadStatusContacted)})
}

// IsTeacher matches an active teacher linked to the user or sharing the email
func (l *GormSignalLookup) IsTeacher(ctx context.Context, churchID, userID uuid.UUID, email string) (bool, error) {
	return NewGormTeacherRepository(l.db).ExistsForUser(ctx, churchID, userID, email)
}

// IsStudent matches an active student by email
func (l *GormSignalLookup) IsStudent(ctx context.Context, churchID uuid.UUID, email string) (bool, error) {
	return NewGormStudentRepository(l.db).ExistsForUserEmail(ctx, churchID, email)
}

// EnabledModules returns the modules enabled for the church
func (l *GormSignalLookup) EnabledModules(ctx context.Context, churchID uuid.UUID) ([]identity.Module, error) {
	c, err := NewGormChurchRepository(l.db).FindByID(ctx, churchID)
	if err != nil {
		return nil, err
	}
	return c.Modules, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ identity.SignalLookup = (*GormSignalLookup)(nil)
