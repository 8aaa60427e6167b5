// AngelaMos | 2026
// service_test.go

package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/core"
)

type fakeRepo struct {
	created   *Order
	specs     []ItemSpec
	createErr error
	orders    map[string]*Order
	statusSet string
}

func (f *fakeRepo) Create(ctx context.Context, o *Order, specs []ItemSpec) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, spec := range specs {
		price := decimal.RequireFromString("10.00")
		line := price.Mul(decimal.NewFromInt(int64(spec.Quantity)))
		o.Items = append(o.Items, OrderItem{
			ProductID: spec.ProductID,
			UnitPrice: price,
			Quantity:  spec.Quantity,
			LineTotal: line,
		})
		o.Subtotal = o.Subtotal.Add(line)
	}
	o.TotalAmount = o.Subtotal
	f.created = o
	f.specs = specs
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) List(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.statusSet = status
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (f *fakeRepo) UpdatePaymentStatus(
	ctx context.Context,
	id, paymentStatus string,
) error {
	f.statusSet = paymentStatus
	if o, ok := f.orders[id]; ok {
		o.PaymentStatus = paymentStatus
	}
	return nil
}

type fakeRecorder struct {
	events []audit.Event
}

func (f *fakeRecorder) Record(ctx context.Context, event audit.Event) {
	f.events = append(f.events, event)
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeRecorder{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: "c1",
	}, "actor", "127.0.0.1", "test")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeValidationFailed {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeRecorder{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: "c1",
		Items:      []OrderItemRequest{{ProductID: "p1", Quantity: 0}},
	}, "actor", "127.0.0.1", "test")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeValidationFailed {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestCreateRejectsDuplicateProduct(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeRecorder{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: "c1",
		Items: []OrderItemRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
		},
	}, "actor", "127.0.0.1", "test")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeValidationFailed {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestCreateSuccess(t *testing.T) {
	repo := &fakeRepo{}
	recorder := &fakeRecorder{}
	svc := NewService(repo, recorder)

	o, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: "c1",
		Items: []OrderItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}, "actor", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(o.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number: %q", o.OrderNumber)
	}
	if o.Status != StatusPending || o.PaymentStatus != PaymentPending {
		t.Fatalf("unexpected initial state: %s/%s", o.Status, o.PaymentStatus)
	}
	if o.CreatedBy != "actor" {
		t.Fatalf("unexpected created_by: %q", o.CreatedBy)
	}
	if got := o.TotalAmount.String(); got != "30.00" {
		t.Fatalf("unexpected total: %s", got)
	}

	if len(recorder.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(recorder.events))
	}
	event := recorder.events[0]
	if event.Action != "order.create" || event.Outcome != audit.OutcomeSuccess {
		t.Fatalf("unexpected audit event: %+v", event)
	}
	if event.Details["order_number"] != o.OrderNumber {
		t.Fatalf("audit event missing order number")
	}
}

func TestCreateMapsUnknownCustomer(t *testing.T) {
	repo := &fakeRepo{createErr: core.ErrNotFound}
	svc := NewService(repo, &fakeRecorder{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: "missing",
		Items:      []OrderItemRequest{{ProductID: "p1", Quantity: 1}},
	}, "actor", "127.0.0.1", "test")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePropagatesProductUnavailable(t *testing.T) {
	repo := &fakeRepo{createErr: core.ProductUnavailableError("p9")}
	svc := NewService(repo, &fakeRecorder{})

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: "c1",
		Items:      []OrderItemRequest{{ProductID: "p9", Quantity: 1}},
	}, "actor", "127.0.0.1", "test")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeProductUnavailable {
		t.Fatalf("expected product unavailable, got %v", err)
	}
	if !strings.Contains(appErr.Message, "p9") {
		t.Fatalf("expected product id in message, got %q", appErr.Message)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := &fakeRepo{orders: map[string]*Order{
		"o1": {ID: "o1", Status: StatusPending, PaymentStatus: PaymentPending},
	}}
	svc := NewService(repo, &fakeRecorder{})

	_, err := svc.UpdateStatus(
		context.Background(), "o1", StatusShipped,
		"actor", "127.0.0.1", "test")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeValidationFailed {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if repo.statusSet != "" {
		t.Fatalf("status must not be written on invalid transition")
	}
}

func TestCancelFromTerminalStateFails(t *testing.T) {
	repo := &fakeRepo{orders: map[string]*Order{
		"o1": {ID: "o1", Status: StatusDelivered},
	}}
	svc := NewService(repo, &fakeRecorder{})

	_, err := svc.Cancel(
		context.Background(), "o1", "actor", "127.0.0.1", "test")
	if err == nil {
		t.Fatal("expected cancel of delivered order to fail")
	}
}

func TestPaymentTransitionAudited(t *testing.T) {
	repo := &fakeRepo{orders: map[string]*Order{
		"o1": {
			ID:            "o1",
			OrderNumber:   "ORD-TEST",
			Status:        StatusPending,
			PaymentStatus: PaymentPending,
		},
	}}
	recorder := &fakeRecorder{}
	svc := NewService(repo, recorder)

	o, err := svc.UpdatePaymentStatus(
		context.Background(), "o1", PaymentPaid,
		"actor", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}
	if o.PaymentStatus != PaymentPaid {
		t.Fatalf("expected paid, got %s", o.PaymentStatus)
	}
	if len(recorder.events) != 1 ||
		recorder.events[0].Action != "order.payment_change" {
		t.Fatalf("expected payment audit event, got %+v", recorder.events)
	}

	_, err = svc.UpdatePaymentStatus(
		context.Background(), "o1", PaymentPaid,
		"actor", "127.0.0.1", "test")
	if err == nil {
		t.Fatal("expected repeat transition to fail")
	}
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
