package identity

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// Module is a feature area a church can enable
type Module string

const (
	ModuleFinancial Module = "financial"
	ModuleSchool    Module = "school"
	ModuleStore     Module = "store"
)

// ProfileKind names each landing profile variant
type ProfileKind string

const (
	ProfileAdmin            ProfileKind = "admin"
	ProfileManager          ProfileKind = "manager"
	ProfileFinance          ProfileKind = "finance"
	ProfileSalesperson      ProfileKind = "salesperson"
	ProfileReseller         ProfileKind = "reseller"
	ProfileSuperintendent   ProfileKind = "superintendent"
	ProfileReactivationLead ProfileKind = "reactivation_lead"
	ProfileTeacher          ProfileKind = "teacher"
	ProfileStudent          ProfileKind = "student"
	ProfileModule           ProfileKind = "module"
	ProfileDefault          ProfileKind = "default"
)

// LandingProfile is the role variant a user is resolved to at authentication.
// The set of implementations is closed: only this package can add variants.
type LandingProfile interface {
	Kind() ProfileKind
	sealed()
}

type (
	AdminProfile            struct{}
	ManagerProfile          struct{}
	FinanceProfile          struct{}
	SalespersonProfile      struct{}
	ResellerProfile         struct{}
	SuperintendentProfile   struct{}
	ReactivationLeadProfile struct{}
	TeacherProfile          struct{}
	StudentProfile          struct{}
	ModuleProfile           struct{ Module Module }
	DefaultProfile          struct{}
)

func (AdminProfile) Kind() ProfileKind            { return ProfileAdmin }
func (ManagerProfile) Kind() ProfileKind          { return ProfileManager }
func (FinanceProfile) Kind() ProfileKind          { return ProfileFinance }
func (SalespersonProfile) Kind() ProfileKind      { return ProfileSalesperson }
func (ResellerProfile) Kind() ProfileKind         { return ProfileReseller }
func (SuperintendentProfile) Kind() ProfileKind   { return ProfileSuperintendent }
func (ReactivationLeadProfile) Kind() ProfileKind { return ProfileReactivationLead }
func (TeacherProfile) Kind() ProfileKind          { return ProfileTeacher }
func (StudentProfile) Kind() ProfileKind          { return ProfileStudent }
func (ModuleProfile) Kind() ProfileKind           { return ProfileModule }
func (DefaultProfile) Kind() ProfileKind          { return ProfileDefault }

func (AdminProfile) sealed()            {}
func (ManagerProfile) sealed()          {}
func (FinanceProfile) sealed()          {}
func (SalespersonProfile) sealed()      {}
func (ResellerProfile) sealed()         {}
func (SuperintendentProfile) sealed()   {}
func (ReactivationLeadProfile) sealed() {}
func (TeacherProfile) sealed()          {}
func (StudentProfile) sealed()          {}
func (ModuleProfile) sealed()           {}
func (DefaultProfile) sealed()          {}

// Landing paths
const (
	PathAdmin            = "/admin"
	PathManager          = "/manager"
	PathFinance          = "/finance"
	PathSalesperson      = "/sales"
	PathReseller         = "/reseller"
	PathSuperintendent   = "/school/superintendent"
	PathReactivationLead = "/reactivation"
	PathTeacher          = "/school/teacher"
	PathStudent          = "/school/student"
	PathFinancialModule  = "/finance/dashboard"
	PathSchoolModule     = "/school/dashboard"
	PathDefault          = "/dashboard"
)

// RedirectPath maps a profile to its landing page
func RedirectPath(p LandingProfile) string {
	switch v := p.(type) {
	case AdminProfile:
		return PathAdmin
	case ManagerProfile:
		return PathManager
	case FinanceProfile:
		return PathFinance
	case SalespersonProfile:
		return PathSalesperson
	case ResellerProfile:
		return PathReseller
	case SuperintendentProfile:
		return PathSuperintendent
	case ReactivationLeadProfile:
		return PathReactivationLead
	case TeacherProfile:
		return PathTeacher
	case StudentProfile:
		return PathStudent
	case ModuleProfile:
		if v.Module == ModuleFinancial {
			return PathFinancialModule
		}
		return PathSchoolModule
	case DefaultProfile, nil:
		return PathDefault
	}
	return PathDefault
}

// ProfileFromKind rebuilds a profile from its serialized form (JWT claims)
func ProfileFromKind(kind ProfileKind, module Module) LandingProfile {
	switch kind {
	case ProfileAdmin:
		return AdminProfile{}
	case ProfileManager:
		return ManagerProfile{}
	case ProfileFinance:
		return FinanceProfile{}
	case ProfileSalesperson:
		return SalespersonProfile{}
	case ProfileReseller:
		return ResellerProfile{}
	case ProfileSuperintendent:
		return SuperintendentProfile{}
	case ProfileReactivationLead:
		return ReactivationLeadProfile{}
	case ProfileTeacher:
		return TeacherProfile{}
	case ProfileStudent:
		return StudentProfile{}
	case ProfileModule:
		if module == ModuleFinancial || module == ModuleSchool {
			return ModuleProfile{Module: module}
		}
	}
	return DefaultProfile{}
}

// ModuleOf returns the module carried by a ModuleProfile, empty otherwise
func ModuleOf(p LandingProfile) Module {
	if m, ok := p.(ModuleProfile); ok {
		return m.Module
	}
	return ""
}

// SignalSource provides the independent role signals of one user. Lookups are
// only called when every higher-priority rule failed to match.
type SignalSource interface {
	Role() Role
	Salesperson(ctx context.Context) (bool, error)
	ResellerClient(ctx context.Context) (bool, error)
	Superintendent(ctx context.Context) (bool, error)
	ReactivationLead(ctx context.Context) (bool, error)
	Teacher(ctx context.Context) (bool, error)
	Student(ctx context.Context) (bool, error)
	Modules(ctx context.Context) ([]Module, error)
}

// rule matchers take the source first so interface method expressions fit directly
type rule struct {
	matches func(s SignalSource, ctx context.Context) (bool, error)
	profile LandingProfile
}

func roleIs(r Role) func(SignalSource, context.Context) (bool, error) {
	return func(s SignalSource, _ context.Context) (bool, error) {
		return s.Role() == r, nil
	}
}

func superintendent(s SignalSource, ctx context.Context) (bool, error) {
	if s.Role() == RoleSuperintendent {
		return true, nil
	}
	return s.Superintendent(ctx)
}

func hasModule(m Module) func(SignalSource, context.Context) (bool, error) {
	return func(s SignalSource, ctx context.Context) (bool, error) {
		modules, err := s.Modules(ctx)
		if err != nil {
			return false, err
		}
		return slices.Contains(modules, m), nil
	}
}

// priority is the decision table; the first matching rule wins
var priority = []rule{
	{roleIs(RoleAdmin), AdminProfile{}},
	{roleIs(RoleManager), ManagerProfile{}},
	{roleIs(RoleFinance), FinanceProfile{}},
	{SignalSource.Salesperson, SalespersonProfile{}},
	{SignalSource.ResellerClient, ResellerProfile{}},
	{superintendent, SuperintendentProfile{}},
	{SignalSource.ReactivationLead, ReactivationLeadProfile{}},
	{SignalSource.Teacher, TeacherProfile{}},
	{SignalSource.Student, StudentProfile{}},
	{hasModule(ModuleFinancial), ModuleProfile{Module: ModuleFinancial}},
	{hasModule(ModuleSchool), ModuleProfile{Module: ModuleSchool}},
}

// Resolve walks the decision table. On a lookup error it returns DefaultProfile
// together with the error so the caller can log it.
func Resolve(ctx context.Context, s SignalSource) (LandingProfile, error) {
	for _, r := range priority {
		ok, err := r.matches(s, ctx)
		if err != nil {
			return DefaultProfile{}, err
		}
		if ok {
			return r.profile, nil
		}
	}
	return DefaultProfile{}, nil
}

// RoleSignals is an eagerly evaluated SignalSource
type RoleSignals struct {
	UserRole           Role
	IsSalesperson      bool
	IsResellerClient   bool
	IsSuperintendent   bool
	IsReactivationLead bool
	IsTeacher          bool
	IsStudent          bool
	EnabledModules     []Module
}

func (s RoleSignals) Role() Role                                   { return s.UserRole }
func (s RoleSignals) Salesperson(context.Context) (bool, error)    { return s.IsSalesperson, nil }
func (s RoleSignals) ResellerClient(context.Context) (bool, error) { return s.IsResellerClient, nil }
func (s RoleSignals) Superintendent(context.Context) (bool, error) { return s.IsSuperintendent, nil }
func (s RoleSignals) ReactivationLead(context.Context) (bool, error) {
	return s.IsReactivationLead, nil
}
func (s RoleSignals) Teacher(context.Context) (bool, error)     { return s.IsTeacher, nil }
func (s RoleSignals) Student(context.Context) (bool, error)     { return s.IsStudent, nil }
func (s RoleSignals) Modules(context.Context) ([]Module, error) { return s.EnabledModules, nil }

// ResolveProfile resolves a profile from already known signals
func ResolveProfile(s RoleSignals) LandingProfile {
	p, _ := Resolve(context.Background(), s)
	return p
}

// Subject identifies the user whose signals are looked up
type Subject struct {
	UserID   uuid.UUID
	ChurchID uuid.UUID
	Email    string
	Role     Role
}
