package accounting

import (
	"sort"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum absolute difference accepted as balanced
var BalanceTolerance = decimal.NewFromFloat(0.01)

// Period is an inclusive date range used by the statements
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewPeriod normalizes both ends to dates and validates the range
func NewPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Both start and end dates are required")
	}
	p := Period{From: dateOnly(from), To: dateOnly(to)}
	if p.To.Before(p.From) {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "End date cannot be before start date")
	}
	return p, nil
}

// MonthPeriod returns the calendar month containing t
func MonthPeriod(t time.Time) Period {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, -1)}
}

func (p Period) before(d time.Time) bool {
	return dateOnly(d).Before(p.From)
}

func (p Period) contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(p.From) && !d.After(p.To)
}

// AccountLine is one row of a statement
type AccountLine struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Nature  AccountNature   `json:"nature"`
	Kind    AccountKind     `json:"kind"`
	Level   int             `json:"level"`
	Opening decimal.Decimal `json:"opening_balance"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
	Closing decimal.Decimal `json:"closing_balance"`
}

// HasActivity reports whether the account moved during the period
func (l AccountLine) HasActivity() bool {
	return !l.Debits.IsZero() || !l.Credits.IsZero()
}

// Movement is the signed change over the period (closing minus opening)
func (l AccountLine) Movement() decimal.Decimal {
	return l.Closing.Sub(l.Opening)
}

// IsAnalytic reports whether the line counts toward totals
func (l AccountLine) IsAnalytic() bool {
	return l.Kind == KindAnalytic
}

// visible applies the display rule: activity, a synthetic account, or a prior balance
func (l AccountLine) visible() bool {
	return l.HasActivity() || l.Kind == KindSynthetic || !l.Opening.IsZero()
}

// Totals sums analytic lines
type Totals struct {
	Opening decimal.Decimal `json:"opening_balance"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
	Closing decimal.Decimal `json:"closing_balance"`
}

// ApplyNature returns the signed balance change for the given nature
func ApplyNature(nature AccountNature, debits, credits decimal.Decimal) decimal.Decimal {
	if nature == NatureCreditor {
		return credits.Sub(debits)
	}
	return debits.Sub(credits)
}

type movement struct {
	openingDebits  decimal.Decimal
	openingCredits decimal.Decimal
	debits         decimal.Decimal
	credits        decimal.Decimal
}

func (m *movement) add(o movement) {
	m.openingDebits = m.openingDebits.Add(o.openingDebits)
	m.openingCredits = m.openingCredits.Add(o.openingCredits)
	m.debits = m.debits.Add(o.debits)
	m.credits = m.credits.Add(o.credits)
}

// collectMovements sums entries per account code, split into before and inside the period.
// Entries after the period are ignored.
func collectMovements(entries []JournalEntry, period Period) map[string]*movement {
	moves := make(map[string]*movement)
	get := func(code string) *movement {
		m, ok := moves[code]
		if !ok {
			m = &movement{}
			moves[code] = m
		}
		return m
	}
	for i := range entries {
		e := &entries[i]
		debit := get(e.DebitAccountCode)
		credit := get(e.CreditAccountCode)
		switch {
		case period.before(e.EntryDate):
			debit.openingDebits = debit.openingDebits.Add(e.Amount)
			credit.openingCredits = credit.openingCredits.Add(e.Amount)
		case period.contains(e.EntryDate):
			debit.debits = debit.debits.Add(e.Amount)
			credit.credits = credit.credits.Add(e.Amount)
		}
	}
	return moves
}

// ComputeAccountLines computes opening, debits, credits and closing for every chart account.
//
// Analytic accounts take the movements posted to their own code. Synthetic accounts
// aggregate the movements of their analytic descendants and apply their own nature.
// Lines without activity are dropped unless synthetic or carrying a prior balance.
func ComputeAccountLines(chart []ChartAccount, entries []JournalEntry, period Period) []AccountLine {
	accounts := make([]ChartAccount, len(chart))
	copy(accounts, chart)
	SortAccounts(accounts)

	moves := collectMovements(entries, period)

	lines := make([]AccountLine, 0, len(accounts))
	for i := range accounts {
		account := &accounts[i]
		var m movement
		if account.IsAnalytic() {
			if own, ok := moves[account.Code]; ok {
				m = *own
			}
		} else {
			for j := range accounts {
				child := &accounts[j]
				if child.IsAnalytic() && IsDescendant(child.Code, account.Code) {
					if own, ok := moves[child.Code]; ok {
						m.add(*own)
					}
				}
			}
		}

		opening := ApplyNature(account.Nature, m.openingDebits, m.openingCredits)
		line := AccountLine{
			Code:    account.Code,
			Name:    account.Name,
			Nature:  account.Nature,
			Kind:    account.Kind,
			Level:   account.Level(),
			Opening: opening,
			Debits:  m.debits,
			Credits: m.credits,
			Closing: opening.Add(ApplyNature(account.Nature, m.debits, m.credits)),
		}
		if line.visible() {
			lines = append(lines, line)
		}
	}
	return lines
}

// SumAnalytic totals the analytic lines only
func SumAnalytic(lines []AccountLine) Totals {
	t := Totals{Opening: decimal.Zero, Debits: decimal.Zero, Credits: decimal.Zero, Closing: decimal.Zero}
	for _, l := range lines {
		if !l.IsAnalytic() {
			continue
		}
		t.Opening = t.Opening.Add(l.Opening)
		t.Debits = t.Debits.Add(l.Debits)
		t.Credits = t.Credits.Add(l.Credits)
		t.Closing = t.Closing.Add(l.Closing)
	}
	return t
}

// TrialBalance lists every account with its movement and checks debits against credits
type TrialBalance struct {
	Period     Period          `json:"period"`
	Lines      []AccountLine   `json:"lines"`
	Totals     Totals          `json:"totals"`
	Consistent bool            `json:"consistent"`
	Difference decimal.Decimal `json:"difference"`
	// UnmappedCodes are codes posted in the period that are not analytic accounts of the chart
	UnmappedCodes []string `json:"unmapped_codes,omitempty"`
}

// BuildTrialBalance computes the trial balance for the period
func BuildTrialBalance(chart []ChartAccount, entries []JournalEntry, period Period) *TrialBalance {
	lines := ComputeAccountLines(chart, entries, period)
	totals := SumAnalytic(lines)
	diff := totals.Debits.Sub(totals.Credits).Abs()

	return &TrialBalance{
		Period:        period,
		Lines:         lines,
		Totals:        totals,
		Consistent:    diff.IsZero(),
		Difference:    diff,
		UnmappedCodes: unmappedCodes(chart, entries, period),
	}
}

func unmappedCodes(chart []ChartAccount, entries []JournalEntry, period Period) []string {
	analytic := make(map[string]bool, len(chart))
	for i := range chart {
		if chart[i].IsAnalytic() {
			analytic[chart[i].Code] = true
		}
	}
	seen := make(map[string]bool)
	var out []string
	for i := range entries {
		if !period.contains(entries[i].EntryDate) {
			continue
		}
		for _, code := range []string{entries[i].DebitAccountCode, entries[i].CreditAccountCode} {
			if !analytic[code] && !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return CompareCodes(out[i], out[j]) < 0 })
	return out
}

// StatementSection is a group of lines with the total of its analytic accounts
type StatementSection struct {
	Group AccountGroup    `json:"group"`
	Lines []AccountLine   `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func buildSection(group AccountGroup, lines []AccountLine, amount func(AccountLine) decimal.Decimal) StatementSection {
	section := StatementSection{Group: group, Lines: make([]AccountLine, 0), Total: decimal.Zero}
	for _, l := range lines {
		if GroupOf(l.Code) != group {
			continue
		}
		section.Lines = append(section.Lines, l)
		if l.IsAnalytic() {
			section.Total = section.Total.Add(amount(l))
		}
	}
	return section
}

func closingOf(l AccountLine) decimal.Decimal  { return l.Closing }
func movementOf(l AccountLine) decimal.Decimal { return l.Movement() }

// BalanceSheet is the position of assets, liabilities and equity at the end of the period
type BalanceSheet struct {
	Period      Period           `json:"period"`
	Assets      StatementSection `json:"assets"`
	Liabilities StatementSection `json:"liabilities"`
	Equity      StatementSection `json:"equity"`
	Consistent  bool             `json:"consistent"`
	// Discrepancy is Assets - (Liabilities + Equity)
	Discrepancy decimal.Decimal `json:"discrepancy"`
	// UnclosedResult is the revenue minus expense balance not yet transferred to equity
	UnclosedResult decimal.Decimal `json:"unclosed_result"`
	// ConsistentWithResult checks Assets == Liabilities + Equity + UnclosedResult,
	// which holds for a balanced journal before the period is closed
	ConsistentWithResult bool `json:"consistent_with_result"`
}

// BuildBalanceSheet computes the balance sheet with closing balances as of period.To
func BuildBalanceSheet(chart []ChartAccount, entries []JournalEntry, period Period) *BalanceSheet {
	lines := ComputeAccountLines(chart, entries, period)

	sheet := &BalanceSheet{
		Period:      period,
		Assets:      buildSection(GroupAssets, lines, closingOf),
		Liabilities: buildSection(GroupLiabilities, lines, closingOf),
		Equity:      buildSection(GroupEquity, lines, closingOf),
	}
	revenue := buildSection(GroupRevenue, lines, closingOf)
	expense := buildSection(GroupExpense, lines, closingOf)
	sheet.UnclosedResult = revenue.Total.Sub(expense.Total)

	sheet.Discrepancy = sheet.Assets.Total.Sub(sheet.Liabilities.Total.Add(sheet.Equity.Total))
	sheet.Consistent = sheet.Discrepancy.Abs().LessThanOrEqual(BalanceTolerance)
	sheet.ConsistentWithResult = sheet.Discrepancy.Sub(sheet.UnclosedResult).Abs().LessThanOrEqual(BalanceTolerance)
	return sheet
}

// ResultKind labels the bottom line of the income statement
type ResultKind string

const (
	ResultSurplus ResultKind = "surplus"
	ResultDeficit ResultKind = "deficit"
)

// IncomeStatement reports revenue and expense movements for the period
type IncomeStatement struct {
	Period     Period           `json:"period"`
	Revenue    StatementSection `json:"revenue"`
	Expense    StatementSection `json:"expense"`
	Result     decimal.Decimal  `json:"result"`
	ResultKind ResultKind       `json:"result_kind"`
}

// BuildIncomeStatement computes revenue minus expense using period movements only
func BuildIncomeStatement(chart []ChartAccount, entries []JournalEntry, period Period) *IncomeStatement {
	lines := ComputeAccountLines(chart, entries, period)

	stmt := &IncomeStatement{
		Period:  period,
		Revenue: buildSection(GroupRevenue, lines, movementOf),
		Expense: buildSection(GroupExpense, lines, movementOf),
	}
	stmt.Result = stmt.Revenue.Total.Sub(stmt.Expense.Total)
	stmt.ResultKind = ResultSurplus
	if stmt.Result.IsNegative() {
		stmt.ResultKind = ResultDeficit
	}
	return stmt
}
