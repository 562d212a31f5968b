package shopping

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Contact is the delivery contact captured at checkout
type Contact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// OrderLine is one cart line as submitted to the backend
type OrderLine struct {
	ProductID     int64           `json:"productId"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	SelectedColor string          `json:"selectedColor,omitempty"`
}

// OrderDraft is the order payload built from a customer's cart
type OrderDraft struct {
	CustomerID    int64           `json:"customerId"`
	Contact       Contact         `json:"contact"`
	PaymentMethod string          `json:"paymentMethod"`
	Note          string          `json:"note,omitempty"`
	Lines         []OrderLine     `json:"orderItems"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// PlacedOrder is the backend's confirmation
type PlacedOrder struct {
	OrderID     int64           `json:"orderId"`
	OrderStatus string          `json:"orderStatus,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// NewOrderDraft turns a cart into an order payload.
// An empty cart is a validation error.
func NewOrderDraft(customerID int64, cart *List, contact Contact, paymentMethod, note string) (*OrderDraft, error) {
	if cart == nil || len(cart.Entries) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "cart is empty")
	}
	if customerID <= 0 {
		return nil, shared.ErrNotAuthenticated
	}

	lines := make([]OrderLine, 0, len(cart.Entries))
	for _, e := range cart.Entries {
		qty := e.Quantity
		if qty <= 0 {
			qty = 1
		}
		lines = append(lines, OrderLine{
			ProductID:     e.ProductID,
			Quantity:      qty,
			UnitPrice:     e.Price,
			SelectedColor: e.SelectedColor,
		})
	}

	return &OrderDraft{
		CustomerID:    customerID,
		Contact:       contact,
		PaymentMethod: strings.TrimSpace(paymentMethod),
		Note:          strings.TrimSpace(note),
		Lines:         lines,
		TotalAmount:   cart.Total(),
	}, nil
}
