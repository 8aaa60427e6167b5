// AngelaMos | 2026
// entity_test.go

package order

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusDelivered, false},
		{StatusDelivered, StatusPending, false},
		{StatusPending, StatusCancelled, true},
		{StatusShipped, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransitionStatus(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionStatus(%s, %s) = %v, want %v",
				tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPaid, PaymentRefunded, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentFailed, PaymentPaid, false},
		{PaymentRefunded, PaymentPending, false},
	}

	for _, tc := range cases {
		if got := CanTransitionPayment(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionPayment(%s, %s) = %v, want %v",
				tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanCancel(t *testing.T) {
	for _, status := range []string{
		StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
	} {
		if !CanCancel(status) {
			t.Errorf("expected %s to be cancellable", status)
		}
	}

	for _, status := range []string{StatusDelivered, StatusCancelled} {
		if CanCancel(status) {
			t.Errorf("expected %s to be terminal", status)
		}
	}
}

func TestOrderNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		n := NewOrderNumber()
		if len(n) != 4+26 || n[:4] != "ORD-" {
			t.Fatalf("unexpected order number format: %q", n)
		}
		if seen[n] {
			t.Fatalf("duplicate order number: %q", n)
		}
		seen[n] = true
	}
}
