package printing

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceData is the model bound to the invoice template
type InvoiceData struct {
	StoreName     string
	OrderID       int64
	OrderStatus   string
	PaymentMethod string
	OrderedAt     time.Time
	CustomerName  string
	Email         string
	Phone         string
	Address       string
	Note          string
	Lines         []InvoiceLine
	Total         decimal.Decimal
	PrintedAt     time.Time
}

// InvoiceLine is one ordered product
type InvoiceLine struct {
	ProductID   int64
	ProductName string
	Color       string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal is UnitPrice times Quantity
func (l InvoiceLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// RenderInvoiceHTML renders data with the built-in invoice layout
func (e *TemplateEngine) RenderInvoiceHTML(data *InvoiceData) (string, error) {
	if data == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "invoice data is nil", nil)
	}
	return e.RenderString("invoice", invoiceTemplate, data)
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice #{{.OrderID}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 20px; margin: 0 0 4px; }
  .muted { color: #777; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { padding: 6px 8px; border-bottom: 1px solid #ddd; text-align: left; }
  td.num, th.num { text-align: right; }
  tfoot td { font-weight: bold; border-bottom: none; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{default "Storefront" .StoreName}}</h1>
    <div class="muted">Invoice #{{.OrderID}}</div>
  </div>
  <div>
    <div>Status: <strong>{{title .OrderStatus}}</strong></div>
    {{- if not .OrderedAt.IsZero}}<div>Ordered: {{formatDateTime .OrderedAt}}</div>{{end}}
    {{- if .PaymentMethod}}<div>Payment: {{title .PaymentMethod}}</div>{{end}}
  </div>
</div>
<div>
  <strong>Bill to</strong><br>
  {{.CustomerName}}<br>
  {{- if .Email}}{{.Email}}<br>{{end}}
  {{- if .Phone}}{{.Phone}}<br>{{end}}
  {{- if .Address}}{{.Address}}{{end}}
</div>
<table>
  <thead>
    <tr><th>#</th><th>Product</th><th>Color</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Subtotal</th></tr>
  </thead>
  <tbody>
  {{- range $i, $l := .Lines}}
    <tr>
      <td>{{add $i 1}}</td>
      <td>{{default (printf "Product %d" $l.ProductID) $l.ProductName}}</td>
      <td>{{$l.Color}}</td>
      <td class="num">{{$l.Quantity}}</td>
      <td class="num">{{formatMoney $l.UnitPrice}}</td>
      <td class="num">{{formatMoney $l.Subtotal}}</td>
    </tr>
  {{- end}}
  </tbody>
  <tfoot>
    <tr><td colspan="5" class="num">Total</td><td class="num">{{formatMoney .Total}}</td></tr>
  </tfoot>
</table>
{{- if .Note}}<p class="muted">Note: {{truncate .Note 500}}</p>{{end}}
<p class="muted">Printed {{formatDateTime .PrintedAt}}</p>
</body>
</html>`
