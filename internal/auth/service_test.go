// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/user"
)

type fakeSessions struct {
	sessions    map[string]*Session
	deactivated []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*Session)}
}

func (f *fakeSessions) Create(ctx context.Context, s *Session) error {
	s.IsActive = true
	s.CreatedAt = time.Now()
	f.sessions[s.TokenDigest] = s
	return nil
}

func (f *fakeSessions) FindByDigest(
	ctx context.Context,
	digest string,
) (*Session, error) {
	s, ok := f.sessions[digest]
	if !ok {
		return nil, core.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) IsSessionActive(
	ctx context.Context,
	digest string,
) (bool, error) {
	s, ok := f.sessions[digest]
	return ok && s.IsValid(), nil
}

func (f *fakeSessions) Deactivate(ctx context.Context, digest string) error {
	f.deactivated = append(f.deactivated, digest)
	if s, ok := f.sessions[digest]; ok {
		s.IsActive = false
	}
	return nil
}

func (f *fakeSessions) DeactivateAllForUser(
	ctx context.Context,
	userID string,
) error {
	for _, s := range f.sessions {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (f *fakeSessions) TouchActivity(ctx context.Context, digest string) error {
	return nil
}

func (f *fakeSessions) ListActiveForUser(
	ctx context.Context,
	userID string,
) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsValid() {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	user.Repository
	users     map[string]*user.User
	successes int
	failures  int
}

func (f *fakeUserRepo) GetByUsernameOrEmail(
	ctx context.Context,
	identity string,
) (*user.User, error) {
	u, ok := f.users[identity]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(
	ctx context.Context,
	id string,
) (*user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserRepo) RecordLoginSuccess(ctx context.Context, id string) error {
	f.successes++
	return nil
}

func (f *fakeUserRepo) RecordLoginFailure(ctx context.Context, id string) error {
	f.failures++
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(
	ctx context.Context,
	id, passwordHash string,
) error {
	return nil
}

type captureRecorder struct {
	events []audit.Event
}

func (c *captureRecorder) Record(ctx context.Context, event audit.Event) {
	c.events = append(c.events, event)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(
	t *testing.T,
	users map[string]*user.User,
) (*Service, *fakeSessions, *fakeUserRepo, *captureRecorder) {
	t.Helper()

	sessions := newFakeSessions()
	userRepo := &fakeUserRepo{users: users}
	recorder := &captureRecorder{}
	userSvc := user.NewService(userRepo, recorder)
	manager := newTestManager(t, time.Hour)

	svc := NewService(sessions, userSvc, manager, recorder, discardLogger())
	return svc, sessions, userRepo, recorder
}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()

	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	return &user.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Tier:         user.TierAdvanced,
		Status:       user.StatusActive,
	}
}

func TestLoginSuccess(t *testing.T) {
	u := activeUser(t, "correct horse")
	svc, sessions, userRepo, recorder := newTestService(
		t, map[string]*user.User{"alice": u})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct horse",
	}, "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if resp.User.Username != "alice" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}

	digest := core.HashToken(resp.Token)
	session, ok := sessions.sessions[digest]
	if !ok {
		t.Fatal("session row not persisted under token digest")
	}
	if session.UserID != "user-1" || !session.IsActive {
		t.Fatalf("unexpected session: %+v", session)
	}

	if userRepo.successes != 1 {
		t.Fatalf("expected one success record, got %d", userRepo.successes)
	}

	var found bool
	for _, event := range recorder.events {
		if event.Action == "auth.login" &&
			event.Outcome == audit.OutcomeSuccess {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a success audit event")
	}
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	u := activeUser(t, "correct horse")
	svc, _, _, _ := newTestService(t, map[string]*user.User{"alice": u})

	_, errUnknown := svc.Login(context.Background(), LoginRequest{
		Username: "nobody",
		Password: "whatever",
	}, "10.0.0.1", "test-agent")

	_, errWrongPass := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "wrong password",
	}, "10.0.0.1", "test-agent")

	appErr1, ok1 := core.AsAppError(errUnknown)
	appErr2, ok2 := core.AsAppError(errWrongPass)
	if !ok1 || !ok2 {
		t.Fatalf("expected app errors, got %v / %v", errUnknown, errWrongPass)
	}
	if appErr1.Code != core.CodeInvalidCredentials ||
		appErr2.Code != core.CodeInvalidCredentials {
		t.Fatalf("unexpected codes: %s / %s", appErr1.Code, appErr2.Code)
	}
	if appErr1.Message != appErr2.Message {
		t.Fatal("unknown user and bad password must be indistinguishable")
	}
}

func TestLoginWrongPasswordCountsFailure(t *testing.T) {
	u := activeUser(t, "correct horse")
	svc, _, userRepo, recorder := newTestService(
		t, map[string]*user.User{"alice": u})

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "wrong password",
	}, "10.0.0.1", "test-agent")
	if err == nil {
		t.Fatal("expected login failure")
	}

	if userRepo.failures != 1 {
		t.Fatalf("expected one failure record, got %d", userRepo.failures)
	}

	var found bool
	for _, event := range recorder.events {
		if event.Action == "auth.login" &&
			event.Outcome == audit.OutcomeFailure {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a failure audit event")
	}
}

func TestLoginSuspendedAccount(t *testing.T) {
	u := activeUser(t, "correct horse")
	u.Status = user.StatusSuspended
	svc, sessions, _, _ := newTestService(t, map[string]*user.User{"alice": u})

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct horse",
	}, "10.0.0.1", "test-agent")

	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeAccountNotActive {
		t.Fatalf("expected account not active, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("no session may be created for a suspended account")
	}
}

func TestLoginSuspendedAccountWrongPassword(t *testing.T) {
	u := activeUser(t, "correct horse")
	u.Status = user.StatusSuspended
	svc, _, userRepo, _ := newTestService(t, map[string]*user.User{"alice": u})

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "wrong password",
	}, "10.0.0.1", "test-agent")

	// Status is reported before the credential is judged.
	appErr, ok := core.AsAppError(err)
	if !ok || appErr.Code != core.CodeAccountNotActive {
		t.Fatalf("expected account not active, got %v", err)
	}
	if userRepo.failures != 0 {
		t.Fatalf("suspended account must not accrue failed attempts, got %d",
			userRepo.failures)
	}
}

func TestLoginPendingAccountAllowed(t *testing.T) {
	u := activeUser(t, "correct horse")
	u.Status = user.StatusPending
	svc, _, _, _ := newTestService(t, map[string]*user.User{"alice": u})

	_, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct horse",
	}, "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("pending accounts may log in: %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	u := activeUser(t, "correct horse")
	svc, sessions, _, recorder := newTestService(
		t, map[string]*user.User{"alice": u})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct horse",
	}, "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	digest := core.HashToken(resp.Token)

	if err := svc.Logout(
		context.Background(), digest, "user-1", "10.0.0.1", "test-agent",
	); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	active, err := svc.IsSessionActive(context.Background(), digest)
	if err != nil {
		t.Fatalf("IsSessionActive: %v", err)
	}
	if active {
		t.Fatal("session must be inactive after logout")
	}

	if err := svc.Logout(
		context.Background(), digest, "user-1", "10.0.0.1", "test-agent",
	); err != nil {
		t.Fatalf("repeat logout must succeed: %v", err)
	}

	if len(sessions.deactivated) != 2 {
		t.Fatalf("expected two deactivate calls, got %d",
			len(sessions.deactivated))
	}

	sessionID := sessions.sessions[digest].ID

	var logouts int
	for _, event := range recorder.events {
		if event.Action == "auth.logout" {
			logouts++
			if event.ResourceID != sessionID {
				t.Fatalf("logout audit must name session %s, got %q",
					sessionID, event.ResourceID)
			}
		}
	}
	if logouts != 2 {
		t.Fatalf("expected two logout audit events, got %d", logouts)
	}
}
