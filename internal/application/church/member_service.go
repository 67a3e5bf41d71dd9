package church

import (
	"context"
	"sort"
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberService manages the membership roll
type MemberService struct {
	memberRepo church.MemberRepository
	now        func() time.Time
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo church.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo, now: time.Now}
}

// CreateMember adds a member to the church
func (s *MemberService) CreateMember(ctx context.Context, churchID uuid.UUID, req MemberRequest, createdBy *uuid.UUID) (*MemberResponse, error) {
	m, err := church.NewMember(churchID, req.FullName)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.SetCreatedBy(*createdBy)
	}
	if err := s.apply(m, req); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMemberResponse(m, s.now())
	return &resp, nil
}

// GetMember returns a member
func (s *MemberService) GetMember(ctx context.Context, churchID, id uuid.UUID) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMemberResponse(m, s.now())
	return &resp, nil
}

// ListMembers lists members by name
func (s *MemberService) ListMembers(ctx context.Context, churchID uuid.UUID, q MemberListQuery) ([]MemberResponse, int64, error) {
	filter := church.MemberFilter{Filter: shared.DefaultFilter()}
	filter.Search = q.Search
	filter.OrderBy = "full_name"
	filter.OrderDir = "asc"
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.Status != "" {
		status := church.MembershipStatus(q.Status)
		filter.Status = &status
	}
	if q.BirthdayMonth > 0 {
		month := time.Month(q.BirthdayMonth)
		filter.BirthdayMonth = &month
	}

	members, total, err := s.memberRepo.FindAll(ctx, churchID, filter)
	if err != nil {
		return nil, 0, err
	}
	today := s.now()
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = ToMemberResponse(&members[i], today)
	}
	return out, total, nil
}

// UpdateMember edits a member
func (s *MemberService) UpdateMember(ctx context.Context, churchID, id uuid.UUID, req MemberRequest) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(m, req); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMemberResponse(m, s.now())
	return &resp, nil
}

// DeleteMember removes a member
func (s *MemberService) DeleteMember(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.memberRepo.FindByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, churchID, id)
}

// Birthdays lists active members with a birthday in the month, ordered by day
func (s *MemberService) Birthdays(ctx context.Context, churchID uuid.UUID, month time.Month) ([]BirthdayResponse, error) {
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	active := church.MembershipActive
	filter := church.MemberFilter{Filter: shared.DefaultFilter(), Status: &active, BirthdayMonth: &month}
	filter.PageSize = 0

	members, _, err := s.memberRepo.FindAll(ctx, churchID, filter)
	if err != nil {
		return nil, err
	}
	year := s.now().Year()
	out := make([]BirthdayResponse, 0, len(members))
	for i := range members {
		m := &members[i]
		if !m.HasBirthdayIn(month) {
			continue
		}
		out = append(out, BirthdayResponse{
			ID:       m.ID,
			FullName: m.FullName,
			Day:      m.BirthDate.Day(),
			Turning:  year - m.BirthDate.Year(),
			Phone:    m.Phone,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// Stats counts members per status
func (s *MemberService) Stats(ctx context.Context, churchID uuid.UUID) (*MemberStatsResponse, error) {
	counts, err := s.memberRepo.CountByStatus(ctx, churchID)
	if err != nil {
		return nil, err
	}
	resp := &MemberStatsResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, n := range counts {
		resp.ByStatus[string(status)] = n
		resp.Total += n
	}
	return resp, nil
}

func (s *MemberService) apply(m *church.Member, req MemberRequest) error {
	if err := m.Update(req.FullName, req.Email, req.Phone, req.ChurchRole, req.Notes); err != nil {
		return err
	}
	birth, err := parseOptionalDay(req.BirthDate)
	if err != nil {
		return err
	}
	baptism, err := parseOptionalDay(req.BaptismDate)
	if err != nil {
		return err
	}
	if err := m.SetDates(birth, baptism, s.now()); err != nil {
		return err
	}
	if req.Status != "" && church.MembershipStatus(req.Status) != m.Status {
		return m.ChangeStatus(church.MembershipStatus(req.Status))
	}
	return nil
}

func parseOptionalDay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	}
	return &d, nil
}
