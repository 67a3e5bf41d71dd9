package accounting

import "github.com/google/uuid"

type chartTemplate struct {
	code   string
	name   string
	nature AccountNature
	kind   AccountKind
}

// defaultChart is the starter chart of accounts offered to a new church
var defaultChart = []chartTemplate{
	{"1", "Ativo", NatureDebtor, KindSynthetic},
	{"1.1", "Ativo Circulante", NatureDebtor, KindSynthetic},
	{"1.1.01", "Caixa", NatureDebtor, KindAnalytic},
	{"1.1.02", "Bancos Conta Movimento", NatureDebtor, KindAnalytic},
	{"1.1.03", "Aplicações Financeiras", NatureDebtor, KindAnalytic},
	{"1.2", "Ativo Não Circulante", NatureDebtor, KindSynthetic},
	{"1.2.01", "Imóveis", NatureDebtor, KindAnalytic},
	{"1.2.02", "Móveis e Utensílios", NatureDebtor, KindAnalytic},
	{"2", "Passivo", NatureCreditor, KindSynthetic},
	{"2.1", "Passivo Circulante", NatureCreditor, KindSynthetic},
	{"2.1.01", "Fornecedores", NatureCreditor, KindAnalytic},
	{"2.1.02", "Obrigações Trabalhistas", NatureCreditor, KindAnalytic},
	{"3", "Patrimônio Líquido", NatureCreditor, KindSynthetic},
	{"3.1", "Patrimônio Social", NatureCreditor, KindSynthetic},
	{"3.1.01", "Patrimônio Social", NatureCreditor, KindAnalytic},
	{"3.1.02", "Superávit ou Déficit Acumulado", NatureCreditor, KindAnalytic},
	{"4", "Resultado", NatureCreditor, KindSynthetic},
	{"4.1", "Receitas", NatureCreditor, KindSynthetic},
	{"4.1.01", "Dízimos", NatureCreditor, KindAnalytic},
	{"4.1.02", "Ofertas", NatureCreditor, KindAnalytic},
	{"4.1.03", "Venda de Revistas", NatureCreditor, KindAnalytic},
	{"4.2", "Despesas", NatureDebtor, KindSynthetic},
	{"4.2.01", "Despesas Administrativas", NatureDebtor, KindAnalytic},
	{"4.2.02", "Água e Energia", NatureDebtor, KindAnalytic},
	{"4.2.03", "Material da EBD", NatureDebtor, KindAnalytic},
	{"4.2.04", "Ação Social", NatureDebtor, KindAnalytic},
}

// DefaultChart builds the starter chart of accounts for a church
func DefaultChart(churchID uuid.UUID) []*ChartAccount {
	accounts := make([]*ChartAccount, 0, len(defaultChart))
	for _, t := range defaultChart {
		account, err := NewChartAccount(churchID, t.code, t.name, t.nature, t.kind)
		if err != nil {
			// templates are static and valid
			panic(err)
		}
		accounts = append(accounts, account)
	}
	return accounts
}

// Well-known analytic accounts used by automatic postings
const (
	CodeCash          = "1.1.01"
	CodeBank          = "1.1.02"
	CodeSuppliers     = "2.1.01"
	CodeSocialEquity  = "3.1.01"
	CodeTithes        = "4.1.01"
	CodeOfferings     = "4.1.02"
	CodeMagazineSales = "4.1.03"
	CodeAdminExpenses = "4.2.01"
)
