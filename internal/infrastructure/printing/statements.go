package printing

import (
	"bytes"
	"html/template"
	"time"

	"github.com/ecclesia/backend/internal/domain/accounting"
	"github.com/ecclesia/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatementHeader identifies the church on every printed statement
type StatementHeader struct {
	ChurchName  string
	CNPJ        string
	GeneratedAt time.Time
}

// StatementTemplates renders accounting statements to standalone HTML pages
type StatementTemplates struct {
	tmpl *template.Template
}

// NewStatementTemplates parses the built-in statement layouts
func NewStatementTemplates() *StatementTemplates {
	funcs := template.FuncMap{
		"brl":        shared.FormatBRL,
		"date":       formatDate,
		"datetime":   formatDateTime,
		"indent":     func(level int) int { return max(level-1, 0) * 12 },
		"upper":      upperPT,
		"groupLabel": groupLabel,
		"natureTag":  natureTag,
	}
	tmpl := template.Must(template.New("statements").Funcs(funcs).Parse(statementLayouts))
	return &StatementTemplates{tmpl: tmpl}
}

type statementPage struct {
	Title  string
	Header StatementHeader
	Period accounting.Period
	Body   any
}

// TrialBalance renders the balancete
func (s *StatementTemplates) TrialBalance(h StatementHeader, tb *accounting.TrialBalance) (string, error) {
	return s.execute("trial_balance", statementPage{Title: "Balancete de Verificação", Header: h, Period: tb.Period, Body: tb})
}

// BalanceSheet renders the balanço patrimonial
func (s *StatementTemplates) BalanceSheet(h StatementHeader, bs *accounting.BalanceSheet) (string, error) {
	return s.execute("balance_sheet", statementPage{Title: "Balanço Patrimonial", Header: h, Period: bs.Period, Body: bs})
}

// IncomeStatement renders the DRE
func (s *StatementTemplates) IncomeStatement(h StatementHeader, is *accounting.IncomeStatement) (string, error) {
	return s.execute("income_statement", statementPage{Title: "Demonstração do Resultado", Header: h, Period: is.Period, Body: is})
}

func (s *StatementTemplates) execute(name string, page statementPage) (string, error) {
	if page.Header.GeneratedAt.IsZero() {
		page.Header.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, page); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// upperPT builds a Caser per call; Casers are not safe for concurrent use
func upperPT(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func groupLabel(g accounting.AccountGroup) string {
	switch g {
	case accounting.GroupAssets:
		return "Ativo"
	case accounting.GroupLiabilities:
		return "Passivo"
	case accounting.GroupEquity:
		return "Patrimônio Líquido"
	case accounting.GroupRevenue:
		return "Receitas"
	case accounting.GroupExpense:
		return "Despesas"
	default:
		return "Outras"
	}
}

func natureTag(n accounting.AccountNature) string {
	if n == accounting.NatureCreditor {
		return "C"
	}
	return "D"
}

const statementLayouts = `
{{define "head"}}<!DOCTYPE html>
<html lang="pt-BR"><head><meta charset="UTF-8"><title>{{.Title}}</title>
<style>
body{font-family:Helvetica,Arial,sans-serif;font-size:10px;color:#222}
h1{font-size:14px;margin:0 0 4px}
.meta{color:#666;margin-bottom:10px}
table{width:100%;border-collapse:collapse;margin-bottom:12px}
th,td{padding:3px 4px;border-bottom:1px solid #ddd;text-align:left}
td.num,th.num{text-align:right;white-space:nowrap}
tr.synthetic td{font-weight:bold}
tr.total td{font-weight:bold;border-top:2px solid #222}
.warn{color:#b00020;font-weight:bold}
</style></head><body>
<h1>{{.Title}}</h1>
<div class="meta">{{.Header.ChurchName}}{{if .Header.CNPJ}} · CNPJ {{.Header.CNPJ}}{{end}}<br>
Período: {{date .Period.From}} a {{date .Period.To}} · Emitido em {{datetime .Header.GeneratedAt}}</div>
{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "section"}}
<table>
<thead><tr><th colspan="2">{{upper (groupLabel .Group)}}</th><th class="num">Saldo</th></tr></thead>
<tbody>
{{range .Lines}}<tr{{if ne .Kind "analytic"}} class="synthetic"{{end}}><td>{{.Code}}</td><td style="padding-left: {{indent .Level}}px">{{.Name}}</td><td class="num">{{brl .Closing}}</td></tr>
{{end}}<tr class="total"><td colspan="2">Total {{groupLabel .Group}}</td><td class="num">{{brl .Total}}</td></tr>
</tbody></table>
{{end}}

{{define "movement_section"}}
<table>
<thead><tr><th colspan="2">{{upper (groupLabel .Group)}}</th><th class="num">Valor</th></tr></thead>
<tbody>
{{range .Lines}}<tr{{if ne .Kind "analytic"}} class="synthetic"{{end}}><td>{{.Code}}</td><td style="padding-left: {{indent .Level}}px">{{.Name}}</td><td class="num">{{brl .Movement}}</td></tr>
{{end}}<tr class="total"><td colspan="2">Total {{groupLabel .Group}}</td><td class="num">{{brl .Total}}</td></tr>
</tbody></table>
{{end}}

{{define "trial_balance"}}{{template "head" .}}{{with .Body}}
<table>
<thead><tr><th>Código</th><th>Conta</th><th>N</th><th class="num">Saldo anterior</th><th class="num">Débitos</th><th class="num">Créditos</th><th class="num">Saldo atual</th></tr></thead>
<tbody>
{{range .Lines}}<tr{{if ne .Kind "analytic"}} class="synthetic"{{end}}><td>{{.Code}}</td><td style="padding-left: {{indent .Level}}px">{{.Name}}</td><td>{{natureTag .Nature}}</td><td class="num">{{brl .Opening}}</td><td class="num">{{brl .Debits}}</td><td class="num">{{brl .Credits}}</td><td class="num">{{brl .Closing}}</td></tr>
{{end}}<tr class="total"><td colspan="3">Totais</td><td class="num">{{brl .Totals.Opening}}</td><td class="num">{{brl .Totals.Debits}}</td><td class="num">{{brl .Totals.Credits}}</td><td class="num">{{brl .Totals.Closing}}</td></tr>
</tbody></table>
{{if not .Consistent}}<p class="warn">Débitos e créditos não conferem: diferença de {{brl .Difference}}</p>{{end}}
{{if .UnmappedCodes}}<p class="warn">Lançamentos em contas fora do plano: {{range $i, $c := .UnmappedCodes}}{{if $i}}, {{end}}{{$c}}{{end}}</p>{{end}}
{{end}}{{template "foot"}}{{end}}

{{define "balance_sheet"}}{{template "head" .}}{{with .Body}}
{{template "section" .Assets}}
{{template "section" .Liabilities}}
{{template "section" .Equity}}
{{if not .UnclosedResult.IsZero}}<p>Resultado do período não encerrado: {{brl .UnclosedResult}}</p>{{end}}
{{if not .Consistent}}{{if .ConsistentWithResult}}<p>Ativo confere com Passivo + Patrimônio Líquido + resultado não encerrado</p>{{else}}<p class="warn">Ativo difere de Passivo + Patrimônio Líquido em {{brl .Discrepancy}}</p>{{end}}{{end}}
{{end}}{{template "foot"}}{{end}}

{{define "income_statement"}}{{template "head" .}}{{with .Body}}
{{template "movement_section" .Revenue}}
{{template "movement_section" .Expense}}
<table><tbody><tr class="total"><td>{{if eq .ResultKind "surplus"}}Superávit{{else}}Déficit{{end}} do período</td><td class="num">{{brl .Result}}</td></tr></tbody></table>
{{end}}{{template "foot"}}{{end}}
`
