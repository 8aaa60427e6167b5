// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/metrics"
)

type Service struct {
	repo     Repository
	recorder audit.Recorder
}

func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateOrderRequest,
	actorID, ipAddress, userAgent string,
) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, core.ValidationError("order requires at least one item")
	}

	specs := make([]ItemSpec, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, core.ValidationError(
				"item quantity must be at least 1")
		}
		if seen[item.ProductID] {
			return nil, core.ValidationError(
				fmt.Sprintf("duplicate product %s", item.ProductID))
		}
		seen[item.ProductID] = true

		specs = append(specs, ItemSpec{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	o := &Order{
		ID:              uuid.New().String(),
		OrderNumber:     NewOrderNumber(),
		CustomerID:      req.CustomerID,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       decimal.Zero,
		ShippingAmount:  decimal.Zero,
		TotalAmount:     decimal.Zero,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		CreatedBy:       actorID,
	}

	if err := s.repo.Create(ctx, o, specs); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("customer")
		}
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "order.create",
		Resource:   "orders",
		ResourceID: o.ID,
		Details: map[string]any{
			"order_number": o.OrderNumber,
			"customer_id":  o.CustomerID,
			"total_amount": o.TotalAmount.String(),
			"item_count":   len(o.Items),
		},
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ActorID:   actorID,
		Outcome:   audit.OutcomeSuccess,
	})
	metrics.ObserveOrderCreated()

	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status, actorID, ipAddress, userAgent string,
) (*Order, error) {
	if !ValidStatus(status) {
		return nil, core.ValidationError("unknown order status")
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransitionStatus(o.Status, status) {
		return nil, core.ValidationError(fmt.Sprintf(
			"cannot transition order from %s to %s", o.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "order.status_change",
		Resource:   "orders",
		ResourceID: id,
		Details: map[string]any{
			"order_number": o.OrderNumber,
			"from":         o.Status,
			"to":           status,
		},
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ActorID:   actorID,
		Outcome:   audit.OutcomeSuccess,
	})

	o.Status = status
	return o, nil
}

func (s *Service) UpdatePaymentStatus(
	ctx context.Context,
	id, paymentStatus, actorID, ipAddress, userAgent string,
) (*Order, error) {
	if !ValidPaymentStatus(paymentStatus) {
		return nil, core.ValidationError("unknown payment status")
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransitionPayment(o.PaymentStatus, paymentStatus) {
		return nil, core.ValidationError(fmt.Sprintf(
			"cannot transition payment from %s to %s",
			o.PaymentStatus, paymentStatus))
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, paymentStatus); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "order.payment_change",
		Resource:   "orders",
		ResourceID: id,
		Details: map[string]any{
			"order_number": o.OrderNumber,
			"from":         o.PaymentStatus,
			"to":           paymentStatus,
		},
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ActorID:   actorID,
		Outcome:   audit.OutcomeSuccess,
	})

	o.PaymentStatus = paymentStatus
	return o, nil
}

func (s *Service) Cancel(
	ctx context.Context,
	id, actorID, ipAddress, userAgent string,
) (*Order, error) {
	return s.UpdateStatus(
		ctx, id, StatusCancelled, actorID, ipAddress, userAgent)
}
