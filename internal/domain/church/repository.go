package church

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChurchRepository persists churches
type ChurchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Church, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Church, int64, error)
	ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	Save(ctx context.Context, church *Church) error
}

// MemberFilter narrows member listings
type MemberFilter struct {
	shared.Filter
	Status        *MembershipStatus
	BirthdayMonth *time.Month
}

// MemberRepository persists members
type MemberRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*Member, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter MemberFilter) ([]Member, int64, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	CountByStatus(ctx context.Context, churchID uuid.UUID) (map[MembershipStatus]int64, error)
}
