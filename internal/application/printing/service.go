package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	infra "github.com/storefront/backend/internal/infrastructure/printing"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Backend attribute names read from an order record
const (
	fieldOrderStatus   = "orderStatus"
	fieldPaymentMethod = "paymentMethod"
	fieldEmail         = "email"
	fieldPhone         = "phone"
	fieldAddress       = "address"
	fieldNote          = "note"
	fieldOrderDate     = "orderDate"
	fieldCreatedAt     = "createdAt"
	fieldTotalAmount   = "totalAmount"
	fieldOrderItems    = "orderItems"
)

// InvoiceConfig holds configuration for invoice rendering
type InvoiceConfig struct {
	StoreName string
	PaperSize infra.PaperSize
	Timeout   time.Duration
}

// InvoiceService renders printable order invoices for the dashboard
type InvoiceService struct {
	orders   catalog.ResourceRepository
	engine   *infra.TemplateEngine
	renderer infra.PDFRenderer
	config   InvoiceConfig
	now      func() time.Time
	logger   *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. renderer may be nil, in which
// case only HTML output is available.
func NewInvoiceService(orders catalog.ResourceRepository, engine *infra.TemplateEngine, renderer infra.PDFRenderer, cfg InvoiceConfig, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = infra.NewTemplateEngine()
	}
	if !cfg.PaperSize.IsValid() {
		cfg.PaperSize = infra.PaperA4
	}
	return &InvoiceService{
		orders:   orders,
		engine:   engine,
		renderer: renderer,
		config:   cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// PDFEnabled reports whether a PDF renderer is configured
func (s *InvoiceService) PDFEnabled() bool {
	return s.renderer != nil
}

// Render fetches the order and renders its invoice in the requested format
func (s *InvoiceService) Render(ctx context.Context, p identity.Principal, orderID int64, format Format) (*Document, error) {
	if err := identity.RequireRole(p.Session, identity.PolicyDashboard); err != nil {
		return nil, err
	}
	if orderID <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "order id must be positive")
	}
	if format == FormatPDF && s.renderer == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "PDF invoices are not enabled")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "render",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID),
		telemetry.WithAttribute("invoice.format", string(format)),
	)
	defer span.End()

	kind, _ := catalog.Lookup(catalog.KindOrders)
	order, err := s.orders.Get(ctx, kind, orderID, p.AccessToken())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	data, err := s.invoiceData(order)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	html, err := s.engine.RenderInvoiceHTML(data)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, renderFailure(err)
	}

	doc := &Document{OrderID: orderID, Format: format}
	if format == FormatHTML {
		doc.ContentType = "text/html; charset=utf-8"
		doc.FileName = fmt.Sprintf("invoice-%d.html", orderID)
		doc.Body = []byte(html)
		return doc, nil
	}

	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:      html,
		Title:     fmt.Sprintf("Invoice #%d", orderID),
		PaperSize: s.config.PaperSize,
		Timeout:   s.config.Timeout,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Invoice PDF rendering failed", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, renderFailure(err)
	}
	s.logger.Debug("Invoice rendered",
		zap.Int64("order_id", orderID),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration),
	)

	doc.ContentType = "application/pdf"
	doc.FileName = fmt.Sprintf("invoice-%d.pdf", orderID)
	doc.Body = result.PDFData
	doc.PageCount = result.PageCount
	return doc, nil
}

func (s *InvoiceService) invoiceData(order *catalog.Resource) (*infra.InvoiceData, error) {
	lines, err := decodeLines(order.Attributes[fieldOrderItems])
	if err != nil {
		return nil, err
	}

	data := &infra.InvoiceData{
		StoreName:     s.config.StoreName,
		OrderID:       order.ID,
		OrderStatus:   order.String(fieldOrderStatus),
		PaymentMethod: order.String(fieldPaymentMethod),
		CustomerName:  order.Name,
		Email:         order.String(fieldEmail),
		Phone:         order.String(fieldPhone),
		Address:       order.String(fieldAddress),
		Note:          order.String(fieldNote),
		PrintedAt:     s.now(),
	}
	if ts := order.String(fieldOrderDate); ts != "" {
		data.OrderedAt = parseOrderTime(ts)
	} else {
		data.OrderedAt = parseOrderTime(order.String(fieldCreatedAt))
	}

	total := decimal.Zero
	for _, l := range lines {
		line := infra.InvoiceLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Color:       l.SelectedColor,
			Quantity:    max(l.Quantity, 1),
			UnitPrice:   l.price(),
		}
		total = total.Add(line.Subtotal())
		data.Lines = append(data.Lines, line)
	}
	data.Total = total
	// the backend's stored total wins when present
	if raw := order.String(fieldTotalAmount); raw != "" {
		if t, err := decimal.NewFromString(raw); err == nil {
			data.Total = t
		}
	}
	return data, nil
}

func renderFailure(err error) error {
	var renderErr *infra.RenderError
	if errors.As(err, &renderErr) {
		return shared.WrapDomainError(shared.CodeInternal, renderErr.Message, err)
	}
	return fmt.Errorf("failed to render invoice: %w", err)
}
