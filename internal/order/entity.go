// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Order struct {
	ID              string          `db:"id"`
	OrderNumber     string          `db:"order_number"`
	CustomerID      string          `db:"customer_id"`
	Status          string          `db:"status"`
	PaymentStatus   string          `db:"payment_status"`
	PaymentMethod   string          `db:"payment_method"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	DiscountAmount  decimal.Decimal `db:"discount_amount"`
	TaxAmount       decimal.Decimal `db:"tax_amount"`
	ShippingAmount  decimal.Decimal `db:"shipping_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	ShippingAddress string          `db:"shipping_address"`
	BillingAddress  string          `db:"billing_address"`
	Notes           string          `db:"notes"`
	CreatedBy       string          `db:"created_by"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`

	Items []OrderItem `db:"-"`
}

// OrderItem freezes the unit price at order time; later product price
// changes never alter an existing order.
type OrderItem struct {
	ID        string          `db:"id"`
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	SKU       string          `db:"sku"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int             `db:"quantity"`
	LineTotal decimal.Decimal `db:"line_total"`
	CreatedAt time.Time       `db:"created_at"`
}

// statusTransitions is the fulfilment lifecycle. Cancellation from any
// non-terminal state is handled separately by CanCancel.
var statusTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed},
	StatusConfirmed:  {StatusProcessing},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

var paymentTransitions = map[string][]string{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentPaid:    {PaymentRefunded},
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func CanTransitionStatus(from, to string) bool {
	if to == StatusCancelled {
		return CanCancel(from)
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanCancel(status string) bool {
	return status != StatusDelivered && status != StatusCancelled
}
