// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id"      validate:"required,uuid"`
	Items           []OrderItemRequest `json:"items"            validate:"required,min=1,dive"`
	PaymentMethod   string             `json:"payment_method"   validate:"omitempty,max=50"`
	ShippingAddress string             `json:"shipping_address" validate:"omitempty,max=500"`
	BillingAddress  string             `json:"billing_address"  validate:"omitempty,max=500"`
	Notes           string             `json:"notes"            validate:"omitempty,max=2000"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gte=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid failed refunded"`
}

type CreateOrderResponse struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
}

type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      string              `json:"customer_id"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	ShippingAmount  decimal.Decimal     `json:"shipping_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	BillingAddress  string              `json:"billing_address,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedBy       string              `json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type ListOrdersParams struct {
	Page       int
	PageSize   int
	Status     string
	CustomerID string
}

func (p *ListOrdersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListOrdersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToOrderResponse(o *Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		TaxAmount:       o.TaxAmount,
		ShippingAmount:  o.ShippingAmount,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Notes:           o.Notes,
		CreatedBy:       o.CreatedBy,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           items,
	}
}

func ToOrderListResponse(orders []Order, total int) OrderListResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}

	return OrderListResponse{Orders: responses, Total: total}
}
