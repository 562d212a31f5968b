package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/printing"
	"github.com/storefront/backend/internal/domain/identity"
)

// InvoiceAPI renders order invoices
type InvoiceAPI interface {
	Render(ctx context.Context, p identity.Principal, orderID int64, format printing.Format) (*printing.Document, error)
}

// InvoiceHandler serves printable invoices on the dashboard
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceAPI
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(base BaseHandler, invoices InvoiceAPI) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, invoices: invoices}
}

// Invoice godoc
// @Summary      Order invoice
// @Tags         dashboard
// @Produce      html
// @Produce      application/pdf
// @Param        id path int true "Order id"
// @Param        format query string false "html (default) or pdf"
// @Param        download query bool false "Send as attachment"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /dashboard/orders/{id}/invoice [get]
func (h *InvoiceHandler) Invoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order id")
		return
	}
	format, err := printing.ParseFormat(c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.invoices.Render(c.Request.Context(), principal(c), id, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
