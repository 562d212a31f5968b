package printing

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Format selects the invoice output
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "", "html" and "pdf"; empty means HTML
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", shared.NewDomainError(shared.CodeInvalidInput, "format must be html or pdf")
	}
}

// Document is a rendered invoice
type Document struct {
	OrderID     int64
	Format      Format
	ContentType string
	FileName    string
	Body        []byte
	PageCount   int
}

// orderLine is one element of the backend's orderItems array
type orderLine struct {
	ProductID     int64           `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Price         decimal.Decimal `json:"price"`
	SelectedColor string          `json:"selectedColor"`
}

func (l orderLine) price() decimal.Decimal {
	if !l.UnitPrice.IsZero() {
		return l.UnitPrice
	}
	return l.Price
}

func decodeLines(raw json.RawMessage) ([]orderLine, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var lines []orderLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, shared.WrapDomainError(shared.CodeRemoteError, "malformed order items", err)
	}
	return lines, nil
}

var orderTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseOrderTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
