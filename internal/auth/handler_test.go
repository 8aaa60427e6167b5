// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/wholesale-api/internal/middleware"
	"github.com/angelamos/wholesale-api/internal/user"
)

func newTestRouter(
	t *testing.T,
	users map[string]*user.User,
) (*chi.Mux, *Service) {
	t.Helper()

	sessions := newFakeSessions()
	userRepo := &fakeUserRepo{users: users}
	recorder := &captureRecorder{}
	userSvc := user.NewService(userRepo, recorder)
	manager := newTestManager(t, time.Hour)
	svc := NewService(sessions, userSvc, manager, recorder, discardLogger())

	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(
		router,
		middleware.Authenticator(manager, svc),
		middleware.SignatureAuthenticator(manager),
	)

	return router, svc
}

func TestLogoutRouteIdempotent(t *testing.T) {
	u := activeUser(t, "correct horse")
	router, svc := newTestRouter(t, map[string]*user.User{"alice": u})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct horse",
	}, "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	logout := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := logout(); code != http.StatusNoContent {
		t.Fatalf("first logout: expected 204, got %d", code)
	}
	if code := logout(); code != http.StatusNoContent {
		t.Fatalf("second logout must also succeed, got %d", code)
	}
}

func TestRevokedTokenRejectedElsewhere(t *testing.T) {
	u := activeUser(t, "correct horse")
	router, svc := newTestRouter(t, map[string]*user.User{"alice": u})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct horse",
	}, "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := get("/auth/me"); code != http.StatusOK {
		t.Fatalf("me before logout: expected 200, got %d", code)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	// The signature is still valid, but the session row is revoked.
	if code := get("/auth/me"); code != http.StatusForbidden {
		t.Fatalf("me after logout: expected 403, got %d", code)
	}
	if code := get("/auth/sessions"); code != http.StatusForbidden {
		t.Fatalf("sessions after logout: expected 403, got %d", code)
	}
}
