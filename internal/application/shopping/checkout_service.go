package shopping

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderPlacer submits orders to the backend
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, token string, draft *shopping.OrderDraft) (*shopping.PlacedOrder, error)
}

// OrderRecorder counts placed orders
type OrderRecorder interface {
	RecordOrder(ctx context.Context, paymentMethod string, amount decimal.Decimal)
}

// CheckoutRequest is the delivery and payment form
type CheckoutRequest struct {
	FullName       string `json:"fullName" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,min=6,max=20"`
	Address        string `json:"address" validate:"required,max=255"`
	PaymentMethod  string `json:"paymentMethod" validate:"required,oneof=cod bank_transfer card"`
	Note           string `json:"note" validate:"max=500"`
	IdempotencyKey string `json:"-"`
}

// ValidationDetail names one rejected field and the rule it broke
type ValidationDetail struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError carries per-field details
type ValidationError struct {
	*shared.DomainError
	Details []ValidationDetail
}

func (e *ValidationError) Unwrap() error { return e.DomainError }

var checkoutValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the form before anything reaches the backend
func (r CheckoutRequest) Validate() error {
	err := checkoutValidator.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.WrapDomainError(shared.CodeValidation, "checkout form is invalid", err)
	}
	details := make([]ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, ValidationDetail{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return &ValidationError{
		DomainError: shared.NewDomainError(shared.CodeValidation, "checkout form is invalid"),
		Details:     details,
	}
}

// CheckoutService turns a customer's cart into a backend order
type CheckoutService struct {
	lists       *SyncService
	placer      OrderPlacer
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	metrics     OrderRecorder
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. idempotency may be nil.
func NewCheckoutService(lists *SyncService, placer OrderPlacer, idempotency shared.IdempotencyStore, idemTTL time.Duration, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idemTTL <= 0 {
		idemTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &CheckoutService{
		lists:       lists,
		placer:      placer,
		idempotency: idempotency,
		idemTTL:     idemTTL,
		logger:      logger,
	}
}

// SetMetrics enables order counters
func (s *CheckoutService) SetMetrics(r OrderRecorder) {
	s.metrics = r
}

// Checkout places an order for the signed-in customer's cart. The cart is
// cleared only after the backend accepted the order.
func (s *CheckoutService) Checkout(ctx context.Context, p identity.Principal, req CheckoutRequest) (*shopping.PlacedOrder, error) {
	if err := identity.RequireRole(p.Session, identity.PolicyCustomer); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	customerID, _ := p.Session.CustomerID()
	owner := shopping.CustomerOwner(customerID)

	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, customerID),
	)
	defer span.End()

	key := ""
	if s.idempotency != nil && req.IdempotencyKey != "" {
		key = fmt.Sprintf("checkout:%d:%s", customerID, req.IdempotencyKey)
		claimed, err := s.idempotency.MarkProcessed(ctx, key, s.idemTTL)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !claimed {
			return nil, shared.NewDomainError(shared.CodeDuplicateEntry, "this order was already submitted")
		}
	}

	contact := shopping.Contact{FullName: req.FullName, Email: req.Email, Phone: req.Phone, Address: req.Address}
	var placed *shopping.PlacedOrder
	err := s.lists.ConsumeCart(ctx, owner, func(ctx context.Context, cart *shopping.List) error {
		draft, err := shopping.NewOrderDraft(customerID, cart, contact, req.PaymentMethod, req.Note)
		if err != nil {
			return err
		}
		placed, err = s.placer.PlaceOrder(ctx, p.AccessToken(), draft)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if key != "" {
			s.releaseKey(ctx, key)
		}
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, placed.OrderID, telemetry.SpanAttrAmount, placed.TotalAmount.String())
	if s.metrics != nil {
		s.metrics.RecordOrder(ctx, req.PaymentMethod, placed.TotalAmount)
	}
	s.logger.Info("Order placed",
		zap.Int64("order_id", placed.OrderID),
		zap.Int64("customer_id", customerID),
		zap.String("total", placed.TotalAmount.String()),
	)
	return placed, nil
}

// releaseKey frees the checkout key after a failed attempt. When the caller
// went away the order may still have been accepted, so the key stays claimed
// until it expires.
func (s *CheckoutService) releaseKey(ctx context.Context, key string) {
	if ctx.Err() != nil {
		s.logger.Warn("Keeping checkout key after cancelled request", zap.String("key", key))
		return
	}
	relCtx, cancel := detached(ctx)
	defer cancel()
	if err := s.idempotency.Release(relCtx, key); err != nil {
		s.logger.Warn("Failed to release checkout key", zap.Error(err))
	}
}
