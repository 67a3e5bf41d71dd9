package accounting

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountNature determines the side on which an account's balance grows
type AccountNature string

const (
	NatureDebtor   AccountNature = "debtor"   // increases with debits (assets, expenses)
	NatureCreditor AccountNature = "creditor" // increases with credits (liabilities, equity, revenue)
)

// IsValid checks if the nature is a known value
func (n AccountNature) IsValid() bool {
	return n == NatureDebtor || n == NatureCreditor
}

// String returns the string representation
func (n AccountNature) String() string {
	return string(n)
}

// AccountKind tells aggregating accounts apart from posting accounts
type AccountKind string

const (
	KindSynthetic AccountKind = "synthetic" // aggregates its descendants, never posted to
	KindAnalytic  AccountKind = "analytic"  // leaf account that receives journal entries
)

// IsValid checks if the kind is a known value
func (k AccountKind) IsValid() bool {
	return k == KindSynthetic || k == KindAnalytic
}

// String returns the string representation
func (k AccountKind) String() string {
	return string(k)
}

// AccountGroup is the statement group an account belongs to, derived from its code
type AccountGroup string

const (
	GroupAssets      AccountGroup = "assets"
	GroupLiabilities AccountGroup = "liabilities"
	GroupEquity      AccountGroup = "equity"
	GroupRevenue     AccountGroup = "revenue"
	GroupExpense     AccountGroup = "expense"
	GroupOther       AccountGroup = "other"
)

// Root codes for each statement group
const (
	AssetsRoot      = "1"
	LiabilitiesRoot = "2"
	EquityRoot      = "3"
	RevenueRoot     = "4.1"
	ExpenseRoot     = "4.2"
)

var accountCodePattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// ChartAccount is one entry of a church's chart of accounts
type ChartAccount struct {
	shared.ChurchAggregateRoot
	Code        string
	Name        string
	Nature      AccountNature
	Kind        AccountKind
	Description string
	Active      bool
}

// NewChartAccount creates a new chart of accounts entry
func NewChartAccount(churchID uuid.UUID, code, name string, nature AccountNature, kind AccountKind) (*ChartAccount, error) {
	code = strings.TrimSpace(code)
	if !accountCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code must be dot separated digits, e.g. 1.1.01")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 150 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 150 characters")
	}
	if !nature.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NATURE", "Account nature must be debtor or creditor")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_KIND", "Account type must be synthetic or analytic")
	}

	return &ChartAccount{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Code:                code,
		Name:                name,
		Nature:              nature,
		Kind:                kind,
		Active:              true,
	}, nil
}

// Rename changes the account name and description
func (a *ChartAccount) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	a.Name = name
	a.Description = description
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Deactivate hides the account from new postings
func (a *ChartAccount) Deactivate() {
	a.Active = false
	a.Touch()
	a.IncrementVersion()
}

// IsAnalytic reports whether the account can receive postings
func (a *ChartAccount) IsAnalytic() bool {
	return a.Kind == KindAnalytic
}

// ParentCode returns the code of the parent account, empty for root accounts
func (a *ChartAccount) ParentCode() string {
	return ParentCode(a.Code)
}

// Level returns the depth of the account in the chart, starting at 1
func (a *ChartAccount) Level() int {
	return strings.Count(a.Code, ".") + 1
}

// Group returns the statement group of the account
func (a *ChartAccount) Group() AccountGroup {
	return GroupOf(a.Code)
}

// ParentCode returns the parent code of a dotted account code
func ParentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

// IsDescendant reports whether code sits below ancestor in the chart
func IsDescendant(code, ancestor string) bool {
	return strings.HasPrefix(code, ancestor+".")
}

// underRoot matches the root itself or any account below it
func underRoot(code, root string) bool {
	return code == root || IsDescendant(code, root)
}

// GroupOf classifies an account code into its statement group
func GroupOf(code string) AccountGroup {
	switch {
	case underRoot(code, AssetsRoot):
		return GroupAssets
	case underRoot(code, LiabilitiesRoot):
		return GroupLiabilities
	case underRoot(code, EquityRoot):
		return GroupEquity
	case underRoot(code, RevenueRoot):
		return GroupRevenue
	case underRoot(code, ExpenseRoot):
		return GroupExpense
	default:
		return GroupOther
	}
}

// CompareCodes orders account codes segment by segment so 1.10 sorts after 1.9
func CompareCodes(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, aErr := strconv.Atoi(as[i])
		bi, bErr := strconv.Atoi(bs[i])
		if aErr != nil || bErr != nil {
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
			continue
		}
		if ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// SortAccounts sorts accounts in chart order
func SortAccounts(accounts []ChartAccount) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return CompareCodes(accounts[i].Code, accounts[j].Code) < 0
	})
}

// ValidatePlacement checks that a new account fits in the existing chart:
// codes are unique, parents exist and are synthetic.
func ValidatePlacement(chart []ChartAccount, account *ChartAccount) error {
	parent := account.ParentCode()
	parentFound := parent == ""
	for i := range chart {
		existing := &chart[i]
		if existing.Code == account.Code && existing.ID != account.ID {
			return shared.NewDomainError("ACCOUNT_CODE_EXISTS", "An account with code "+account.Code+" already exists")
		}
		if existing.Code == parent {
			parentFound = true
			if existing.IsAnalytic() {
				return shared.NewDomainError("INVALID_PARENT_ACCOUNT", "Account "+parent+" is analytic and cannot have sub-accounts")
			}
		}
	}
	if !parentFound {
		return shared.NewDomainError("PARENT_ACCOUNT_NOT_FOUND", "Parent account "+parent+" does not exist")
	}
	return nil
}

// HasChildren reports whether any account in the chart sits below code
func HasChildren(chart []ChartAccount, code string) bool {
	for i := range chart {
		if IsDescendant(chart[i].Code, code) {
			return true
		}
	}
	return false
}
