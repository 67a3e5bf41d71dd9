package church

import (
	"context"
	"strings"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChurchService manages church accounts
type ChurchService struct {
	churchRepo church.ChurchRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewChurchService creates a new ChurchService
func NewChurchService(churchRepo church.ChurchRepository, events shared.EventPublisher, logger *zap.Logger) *ChurchService {
	return &ChurchService{
		churchRepo: churchRepo,
		events:     events,
		logger:     logger,
	}
}

// CreateChurch registers a church. The ChurchCreated event seeds its chart of accounts.
func (s *ChurchService) CreateChurch(ctx context.Context, req ChurchRequest) (*ChurchResponse, error) {
	c, err := church.NewChurch(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.churchRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	events := c.GetDomainEvents()
	c.ClearDomainEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Failed to publish church events",
				zap.String("church_id", c.ID.String()), zap.Error(err))
		}
	}

	resp := ToChurchResponse(c)
	return &resp, nil
}

// GetChurch returns a church
func (s *ChurchService) GetChurch(ctx context.Context, id uuid.UUID) (*ChurchResponse, error) {
	c, err := s.churchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToChurchResponse(c)
	return &resp, nil
}

// ListChurches lists churches by name
func (s *ChurchService) ListChurches(ctx context.Context, q ChurchListQuery) ([]ChurchResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.Search = q.Search
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	churches, total, err := s.churchRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ChurchResponse, len(churches))
	for i := range churches {
		out[i] = ToChurchResponse(&churches[i])
	}
	return out, total, nil
}

// UpdateChurch edits a church
func (s *ChurchService) UpdateChurch(ctx context.Context, id uuid.UUID, req ChurchRequest) (*ChurchResponse, error) {
	c, err := s.churchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.churchRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToChurchResponse(c)
	return &resp, nil
}

// DeactivateChurch disables a church account
func (s *ChurchService) DeactivateChurch(ctx context.Context, id uuid.UUID) error {
	c, err := s.churchRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Deactivate(); err != nil {
		return err
	}
	return s.churchRepo.Save(ctx, c)
}

// AppointSuperintendent sets the user heading the Sunday school
func (s *ChurchService) AppointSuperintendent(ctx context.Context, id uuid.UUID, req SuperintendentRequest) (*ChurchResponse, error) {
	c, err := s.churchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.AppointSuperintendent(req.UserID)
	if err := s.churchRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToChurchResponse(c)
	return &resp, nil
}

// apply copies the editable fields, refusing a CNPJ already used by another church
func (s *ChurchService) apply(ctx context.Context, c *church.Church, req ChurchRequest) error {
	previous := c.CNPJ
	if err := c.SetCNPJ(req.CNPJ); err != nil {
		return err
	}
	if c.CNPJ != "" && c.CNPJ != previous {
		exists, err := s.churchRepo.ExistsByCNPJ(ctx, c.CNPJ)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("CNPJ_IN_USE", "Another church is registered with this CNPJ")
		}
	}
	c.SetContact(req.Email, req.Phone, req.Address.toDomain())
	if len(req.Modules) > 0 {
		if err := c.SetModules(toModules(req.Modules)); err != nil {
			return err
		}
	}
	if t := strings.TrimSpace(req.ClientType); t != "" {
		if err := c.SetClientType(church.ClientType(t)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateChurch rejects requests scoped to an unknown or deactivated church
func (s *ChurchService) ValidateChurch(ctx context.Context, id uuid.UUID) error {
	c, err := s.churchRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsActive() {
		return shared.NewDomainError("CHURCH_INACTIVE", "Church is not active")
	}
	return nil
}
