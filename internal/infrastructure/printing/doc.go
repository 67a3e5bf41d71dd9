// Package printing turns accounting statements into PDF documents.
//
// StatementTemplates renders a trial balance, balance sheet or income
// statement into a standalone HTML page. A PDFRenderer then prints that page:
// ChromedpRenderer drives headless Chrome over the DevTools protocol, and
// HTMLOnlyRenderer is used when no browser is configured.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	html, err := NewStatementTemplates().TrialBalance(header, tb)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{HTML: html, Title: "Balancete"})
package printing
