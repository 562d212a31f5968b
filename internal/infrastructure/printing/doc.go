// Package printing renders order invoices to HTML and, through a headless
// Chrome instance driven by chromedp, to PDF.
//
//	engine := printing.NewTemplateEngine()
//	html, err := engine.RenderInvoiceHTML(data)
//	...
//	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{NoSandbox: true})
//	defer renderer.Close()
//	result, err := renderer.Render(ctx, &printing.RenderRequest{HTML: html, PaperSize: printing.PaperA4})
package printing
