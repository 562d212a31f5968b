package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/storefront/backend/internal/application/printing"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockInvoices is a mock implementation of InvoiceAPI
type MockInvoices struct {
	mock.Mock
}

func (m *MockInvoices) Render(ctx context.Context, p identity.Principal, orderID int64, format printing.Format) (*printing.Document, error) {
	args := m.Called(ctx, p, orderID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.Document), args.Error(1)
}

func invoiceRouter(svc InvoiceAPI) http.Handler {
	h := NewInvoiceHandler(NewBaseHandler(testLanding), svc)
	r := newRouter(employee(identity.PositionEmployee))
	r.GET("/dashboard/orders/:id/invoice", h.Invoice)
	return r
}

func TestInvoiceHandler_HTML(t *testing.T) {
	svc := new(MockInvoices)
	svc.On("Render", mock.Anything, mock.Anything, int64(9), printing.FormatHTML).Return(&printing.Document{
		ContentType: "text/html; charset=utf-8",
		FileName:    "invoice-9.html",
		Body:        []byte("<h1>Invoice #9</h1>"),
	}, nil)

	w := do(invoiceRouter(svc), http.MethodGet, "/dashboard/orders/9/invoice", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="invoice-9.html"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "<h1>Invoice #9</h1>", w.Body.String())
}

func TestInvoiceHandler_PDFDownload(t *testing.T) {
	svc := new(MockInvoices)
	svc.On("Render", mock.Anything, mock.Anything, int64(9), printing.FormatPDF).Return(&printing.Document{
		ContentType: "application/pdf",
		FileName:    "invoice-9.pdf",
		Body:        []byte("%PDF-1.7"),
	}, nil)

	w := do(invoiceRouter(svc), http.MethodGet, "/dashboard/orders/9/invoice?format=pdf&download=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-9.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestInvoiceHandler_Errors(t *testing.T) {
	svc := new(MockInvoices)
	svc.On("Render", mock.Anything, mock.Anything, int64(404), mock.Anything).Return(nil, shared.ErrNotFound)
	r := invoiceRouter(svc)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/dashboard/orders/9/invoice?format=docx", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/dashboard/orders/x/invoice", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/dashboard/orders/404/invoice", nil).Code)
	svc.AssertNumberOfCalls(t, "Render", 1)
}
