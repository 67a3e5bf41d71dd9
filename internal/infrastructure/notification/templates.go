package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
)

var mailFuncs = template.FuncMap{
	"brl":  shared.FormatBRL,
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
}

var orderConfirmationTmpl = template.Must(template.New("order").Funcs(mailFuncs).Parse(`<p>Olá!</p>
<p>Recebemos o pagamento do pedido <strong>{{.Number}}</strong>.</p>
<table>
{{range .Lines}}<tr><td>{{.Quantity}} × {{.Name}}</td><td>{{brl .Total}}</td></tr>
{{end}}<tr><td>Frete</td><td>{{brl .Shipping}}</td></tr>
<tr><td><strong>Total</strong></td><td><strong>{{brl .Total}}</strong></td></tr>
</table>
<p>Entrega para {{.Address.City}}/{{.Address.State}} em até {{.DeliveryDays}} dias úteis.</p>`))

var billReminderTmpl = template.Must(template.New("bills").Funcs(mailFuncs).Parse(`<p>{{.Church}}: contas a pagar nos próximos dias.</p>
<table>
<tr><th>Vencimento</th><th>Fornecedor</th><th>Descrição</th><th>Valor</th></tr>
{{range .Bills}}<tr><td>{{date .DueDate}}</td><td>{{.Supplier}}</td><td>{{.Description}}</td><td>{{brl .Amount}}</td></tr>
{{end}}</table>`))

// OrderConfirmation builds the "payment received" mail for a paid order
func OrderConfirmation(order *store.Order) (Message, error) {
	var html bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&html, order); err != nil {
		return Message{}, fmt.Errorf("rendering order confirmation: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Recebemos o pagamento do pedido %s.\n", order.Number)
	for _, l := range order.Lines {
		fmt.Fprintf(&text, "%d x %s: %s\n", l.Quantity, l.Name, shared.FormatBRL(l.Total()))
	}
	fmt.Fprintf(&text, "Frete: %s\nTotal: %s\n", shared.FormatBRL(order.Shipping), shared.FormatBRL(order.Total))

	return Message{
		To:      ParseRecipients(order.BuyerEmail),
		Subject: "Pedido " + order.Number + " confirmado",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// BillReminder builds the daily digest of bills about to fall due
func BillReminder(church string, to []mail.Address, bills []finance.BillToPay) (Message, error) {
	var html bytes.Buffer
	data := struct {
		Church string
		Bills  []finance.BillToPay
	}{church, bills}
	if err := billReminderTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("rendering bill reminder: %w", err)
	}

	var text strings.Builder
	for _, b := range bills {
		fmt.Fprintf(&text, "%s  %s  %s  %s\n", b.DueDate.Format("02/01/2006"), b.Supplier, b.Description, shared.FormatBRL(b.Amount))
	}

	subject := fmt.Sprintf("%d conta(s) vencendo", len(bills))
	if len(bills) == 1 {
		subject = "1 conta vencendo"
	}
	return Message{
		To:      to,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
