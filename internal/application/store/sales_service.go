package store

import (
	"context"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
)

// SalesService maintains the salespeople and reactivation leads that feed
// profile resolution
type SalesService struct {
	salesRepo store.SalesRepository
}

// NewSalesService creates a new SalesService
func NewSalesService(salesRepo store.SalesRepository) *SalesService {
	return &SalesService{salesRepo: salesRepo}
}

// AddSalesperson registers a sales representative
func (s *SalesService) AddSalesperson(ctx context.Context, req SalespersonRequest) (*SalespersonResponse, error) {
	sp, err := store.NewSalesperson(req.Name, req.Email, req.Region)
	if err != nil {
		return nil, err
	}
	exists, err := s.salesRepo.ExistsActiveSalesperson(ctx, sp.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SALESPERSON_EXISTS", "An active salesperson with this email already exists")
	}
	if err := s.salesRepo.SaveSalesperson(ctx, sp); err != nil {
		return nil, err
	}
	resp := toSalespersonResponse(sp)
	return &resp, nil
}

// ListSalespeople lists every sales representative
func (s *SalesService) ListSalespeople(ctx context.Context) ([]SalespersonResponse, error) {
	people, err := s.salesRepo.FindSalespeople(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SalespersonResponse, len(people))
	for i := range people {
		out[i] = toSalespersonResponse(&people[i])
	}
	return out, nil
}

// OpenLead opens a reactivation lead. Only one open lead per email is kept.
func (s *SalesService) OpenLead(ctx context.Context, req LeadRequest) (*LeadResponse, error) {
	lead, err := store.NewReactivationLead(req.Email, req.ChurchName, req.Phone)
	if err != nil {
		return nil, err
	}
	exists, err := s.salesRepo.ExistsOpenLead(ctx, lead.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("LEAD_EXISTS", "An open lead already exists for this email")
	}
	if err := s.salesRepo.SaveLead(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// ListLeads lists leads, optionally by status
func (s *SalesService) ListLeads(ctx context.Context, status string) ([]LeadResponse, error) {
	leads, err := s.salesRepo.FindLeads(ctx, store.LeadStatus(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = toLeadResponse(&leads[i])
	}
	return out, nil
}

// AdvanceLead moves a lead through the funnel
func (s *SalesService) AdvanceLead(ctx context.Context, id uuid.UUID, req AdvanceLeadRequest) (*LeadResponse, error) {
	lead, err := s.salesRepo.FindLeadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lead.Advance(store.LeadStatus(req.Status), req.Notes); err != nil {
		return nil, err
	}
	if err := s.salesRepo.SaveLead(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}
