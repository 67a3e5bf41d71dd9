package church

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockChurchRepository struct {
	mock.Mock
}

func (m *MockChurchRepository) FindByID(ctx context.Context, id uuid.UUID) (*church.Church, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*church.Church), args.Error(1)
}

func (m *MockChurchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]church.Church, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]church.Church), args.Get(1).(int64), args.Error(2)
}

func (m *MockChurchRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

func (m *MockChurchRepository) Save(ctx context.Context, c *church.Church) error {
	return m.Called(ctx, c).Error(0)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*church.Member, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*church.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter church.MemberFilter) ([]church.Member, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]church.Member), args.Get(1).(int64), args.Error(2)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *church.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

func (m *MockMemberRepository) CountByStatus(ctx context.Context, churchID uuid.UUID) (map[church.MembershipStatus]int64, error) {
	args := m.Called(ctx, churchID)
	return args.Get(0).(map[church.MembershipStatus]int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}

const validCNPJ = "11.222.333/0001-81"

func TestChurchService_CreateChurch(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and publishes", func(t *testing.T) {
		repo := new(MockChurchRepository)
		events := new(MockEventPublisher)
		repo.On("ExistsByCNPJ", ctx, "11222333000181").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*church.Church")).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(es []shared.DomainEvent) bool {
			return len(es) == 1 && es[0].EventType() == church.EventTypeChurchCreated
		})).Return(nil)

		resp, err := NewChurchService(repo, events, zap.NewNop()).CreateChurch(ctx, ChurchRequest{
			Name:       "Igreja Batista Central",
			CNPJ:       validCNPJ,
			Email:      " Secretaria@IBC.org.br ",
			Address:    AddressDTO{City: "Recife", State: "pe", PostalCode: "50030-230"},
			Modules:    []string{"financial", "store"},
			ClientType: "reseller",
		})
		require.NoError(t, err)
		assert.Equal(t, "11222333000181", resp.CNPJ)
		assert.Equal(t, "secretaria@ibc.org.br", resp.Email)
		assert.Equal(t, "PE", resp.Address.State)
		assert.Equal(t, "50030230", resp.Address.PostalCode)
		assert.Equal(t, []string{"financial", "store"}, resp.Modules)
		assert.Equal(t, "reseller", resp.ClientType)
		events.AssertExpectations(t)
	})

	t.Run("duplicate cnpj", func(t *testing.T) {
		repo := new(MockChurchRepository)
		repo.On("ExistsByCNPJ", ctx, "11222333000181").Return(true, nil)

		_, err := NewChurchService(repo, nil, zap.NewNop()).CreateChurch(ctx, ChurchRequest{Name: "Outra", CNPJ: validCNPJ})
		assert.Equal(t, "CNPJ_IN_USE", codeOf(t, err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid cnpj", func(t *testing.T) {
		repo := new(MockChurchRepository)
		_, err := NewChurchService(repo, nil, zap.NewNop()).CreateChurch(ctx, ChurchRequest{Name: "Outra", CNPJ: "11.222.333/0001-00"})
		assert.Equal(t, "INVALID_CNPJ", codeOf(t, err))
	})

	t.Run("publish failure is only logged", func(t *testing.T) {
		repo := new(MockChurchRepository)
		events := new(MockEventPublisher)
		repo.On("Save", ctx, mock.Anything).Return(nil)
		events.On("Publish", ctx, mock.Anything).Return(errors.New("bus closed"))

		_, err := NewChurchService(repo, events, zap.NewNop()).CreateChurch(ctx, ChurchRequest{Name: "Sem CNPJ"})
		assert.NoError(t, err)
	})
}

func TestChurchService_UpdateKeepsOwnCNPJ(t *testing.T) {
	ctx := context.Background()
	c, err := church.NewChurch("Igreja")
	require.NoError(t, err)
	require.NoError(t, c.SetCNPJ(validCNPJ))

	repo := new(MockChurchRepository)
	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	resp, err := NewChurchService(repo, nil, zap.NewNop()).UpdateChurch(ctx, c.ID, ChurchRequest{Name: "Igreja Renomeada", CNPJ: validCNPJ})
	require.NoError(t, err)
	assert.Equal(t, "Igreja Renomeada", resp.Name)
	repo.AssertNotCalled(t, "ExistsByCNPJ", mock.Anything, mock.Anything)
}

func TestChurchService_Deactivate(t *testing.T) {
	ctx := context.Background()
	c, err := church.NewChurch("Igreja")
	require.NoError(t, err)

	repo := new(MockChurchRepository)
	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)
	svc := NewChurchService(repo, nil, zap.NewNop())

	require.NoError(t, svc.DeactivateChurch(ctx, c.ID))
	assert.False(t, c.IsActive())
	assert.Equal(t, "ALREADY_INACTIVE", codeOf(t, svc.DeactivateChurch(ctx, c.ID)))
	assert.Equal(t, "CHURCH_INACTIVE", codeOf(t, svc.ValidateChurch(ctx, c.ID)))
}

func TestChurchService_ValidateChurch(t *testing.T) {
	ctx := context.Background()
	c, err := church.NewChurch("Igreja")
	require.NoError(t, err)
	missing := uuid.New()

	repo := new(MockChurchRepository)
	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	svc := NewChurchService(repo, nil, zap.NewNop())

	assert.NoError(t, svc.ValidateChurch(ctx, c.ID))
	assert.ErrorIs(t, svc.ValidateChurch(ctx, missing), shared.ErrNotFound)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func memberService(repo *MockMemberRepository) *MemberService {
	svc := NewMemberService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestMemberService_CreateMember(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	userID := uuid.New()

	t.Run("title-cases and computes age", func(t *testing.T) {
		repo := new(MockMemberRepository)
		repo.On("Save", ctx, mock.MatchedBy(func(m *church.Member) bool {
			return m.CreatedBy != nil && *m.CreatedBy == userID
		})).Return(nil)

		resp, err := memberService(repo).CreateMember(ctx, churchID, MemberRequest{
			FullName:    "  maria   da silva ",
			BirthDate:   "1990-06-20",
			BaptismDate: "2005-03-01",
			ChurchRole:  "diaconisa",
		}, &userID)
		require.NoError(t, err)
		assert.Equal(t, "Maria da Silva", resp.FullName)
		require.NotNil(t, resp.Age)
		assert.Equal(t, 34, *resp.Age)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "1990-06-20", resp.BirthDate)
	})

	t.Run("baptism before birth", func(t *testing.T) {
		repo := new(MockMemberRepository)
		_, err := memberService(repo).CreateMember(ctx, churchID, MemberRequest{
			FullName: "João", BirthDate: "2000-01-01", BaptismDate: "1999-01-01",
		}, nil)
		assert.Equal(t, "INVALID_BAPTISM_DATE", codeOf(t, err))
	})

	t.Run("bad date format", func(t *testing.T) {
		repo := new(MockMemberRepository)
		_, err := memberService(repo).CreateMember(ctx, churchID, MemberRequest{FullName: "João", BirthDate: "01/01/2000"}, nil)
		assert.Equal(t, "INVALID_DATE", codeOf(t, err))
	})
}

func TestMemberService_Birthdays(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()

	newMember := func(name string, birth *time.Time) church.Member {
		m, err := church.NewMember(churchID, name)
		require.NoError(t, err)
		m.BirthDate = birth
		return *m
	}

	repo := new(MockMemberRepository)
	repo.On("FindAll", ctx, churchID, mock.MatchedBy(func(f church.MemberFilter) bool {
		return f.PageSize == 0 && f.BirthdayMonth != nil && *f.BirthdayMonth == time.June &&
			f.Status != nil && *f.Status == church.MembershipActive
	})).Return([]church.Member{
		newMember("Carlos", day(1980, time.June, 28)),
		newMember("Ana", day(2001, time.June, 3)),
		newMember("Sem Data", nil),
	}, int64(3), nil)

	out, err := memberService(repo).Birthdays(ctx, churchID, time.June)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ana", out[0].FullName)
	assert.Equal(t, 3, out[0].Day)
	assert.Equal(t, 24, out[0].Turning)
	assert.Equal(t, 45, out[1].Turning)

	_, err = memberService(repo).Birthdays(ctx, churchID, time.Month(13))
	assert.Equal(t, "INVALID_MONTH", codeOf(t, err))
}

func TestMemberService_Stats(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	repo := new(MockMemberRepository)
	repo.On("CountByStatus", ctx, churchID).Return(map[church.MembershipStatus]int64{
		church.MembershipActive:      40,
		church.MembershipTransferred: 2,
	}, nil)

	stats, err := memberService(repo).Stats(ctx, churchID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.Total)
	assert.Equal(t, int64(40), stats.ByStatus["active"])
}

func TestMemberService_StatusChange(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	m, err := church.NewMember(churchID, "José")
	require.NoError(t, err)
	m.Status = church.MembershipDeceased

	repo := new(MockMemberRepository)
	repo.On("FindByID", ctx, churchID, m.ID).Return(m, nil)

	_, err = memberService(repo).UpdateMember(ctx, churchID, m.ID, MemberRequest{FullName: "José", Status: "active"})
	assert.Equal(t, "INVALID_STATE", codeOf(t, err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
