// AngelaMos | 2026
// handler_test.go

package order

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRouteGates(t *testing.T) {
	handler := NewHandler(NewService(&fakeRepo{}, &fakeRecorder{}))

	// Record which (resource, action) gate each request flows through.
	var gate string
	permit := func(resource, action string) func(http.Handler) http.Handler {
		pair := resource + ":" + action
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					gate = pair
					next.ServeHTTP(w, r)
				})
		}
	}

	passthrough := func(next http.Handler) http.Handler { return next }

	router := chi.NewRouter()
	handler.RegisterRoutes(router, passthrough, permit)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/orders/", "orders:create"},
		{http.MethodGet, "/orders/", "orders:read"},
		{http.MethodGet, "/orders/o1", "orders:read"},
		{http.MethodPatch, "/orders/o1/status", "orders:update"},
		{http.MethodPatch, "/orders/o1/payment", "orders:update"},
		{http.MethodDelete, "/orders/o1", "orders:delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			gate = ""
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if gate != tt.want {
				t.Fatalf("expected gate %s, got %q", tt.want, gate)
			}
		})
	}
}
