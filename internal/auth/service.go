// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/metrics"
	"github.com/angelamos/wholesale-api/internal/user"
)

type Service struct {
	sessions Repository
	users    *user.Service
	jwt      *JWTManager
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(
	sessions Repository,
	users *user.Service,
	jwt *JWTManager,
	recorder audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
		jwt:      jwt,
		recorder: recorder,
		logger:   logger,
	}
}

// Login authenticates by username or email. Unknown identifier and
// wrong password are indistinguishable to the caller; the password
// check runs against a dummy hash when no account matches so response
// timing does not leak which usernames exist.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	ipAddress, userAgent string,
) (*LoginResponse, error) {
	u, err := s.users.GetByUsernameOrEmail(ctx, req.Username)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if u == nil {
		// Dummy verify so the unknown-user path costs the same as a
		// real password check.
		if _, _, verr := core.VerifyPasswordTimingSafe(
			req.Password, nil,
		); verr != nil {
			return nil, fmt.Errorf("verify password: %w", verr)
		}
		s.recordLoginFailure(ctx, req.Username, nil, "unknown_account",
			ipAddress, userAgent)
		return nil, core.InvalidCredentialsError()
	}

	// Status is checked before the password: a suspended account is
	// reported as not active regardless of the credential presented,
	// and never has its failed-attempt counter bumped.
	if !u.CanLogin() {
		s.recordLoginFailure(ctx, req.Username, &u.ID, "account_"+u.Status,
			ipAddress, userAgent)
		return nil, core.AccountNotActiveError()
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&u.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		if recErr := s.users.RecordLoginFailure(ctx, u.ID); recErr != nil {
			s.logger.Warn("record login failure",
				slog.String("user_id", u.ID),
				slog.String("error", recErr.Error()),
			)
		}
		s.recordLoginFailure(ctx, req.Username, &u.ID, "bad_password",
			ipAddress, userAgent)
		return nil, core.InvalidCredentialsError()
	}

	if newHash != "" {
		if upErr := s.users.UpdatePasswordHash(ctx, u.ID, newHash); upErr != nil {
			s.logger.Warn("persist rehashed password",
				slog.String("user_id", u.ID),
				slog.String("error", upErr.Error()),
			)
		}
	}

	tokenData, err := s.jwt.CreateSessionToken(u.ID, u.Username, u.Tier)
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	session := &Session{
		ID:          uuid.New().String(),
		UserID:      u.ID,
		TokenDigest: tokenData.Digest,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		ExpiresAt:   tokenData.ExpiresAt,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	if recErr := s.users.RecordLoginSuccess(ctx, u.ID); recErr != nil {
		s.logger.Warn("record login success",
			slog.String("user_id", u.ID),
			slog.String("error", recErr.Error()),
		)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "auth.login",
		Resource:   "sessions",
		ResourceID: session.ID,
		Details:    map[string]any{"username": u.Username},
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    u.ID,
		Outcome:    audit.OutcomeSuccess,
	})
	metrics.ObserveLogin("success")

	return &LoginResponse{
		User:      user.ToUserResponse(u),
		Token:     tokenData.Token,
		TokenType: "Bearer",
		ExpiresAt: tokenData.ExpiresAt,
	}, nil
}

func (s *Service) recordLoginFailure(
	ctx context.Context,
	identity string,
	actorID *string,
	reason, ipAddress, userAgent string,
) {
	event := audit.Event{
		Action:    "auth.login",
		Resource:  "sessions",
		Details:   map[string]any{"identity": identity, "reason": reason},
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Outcome:   audit.OutcomeFailure,
	}
	if actorID != nil {
		event.ActorID = *actorID
	}

	s.recorder.Record(ctx, event)
	metrics.ObserveLogin("failure")
}

// Logout revokes the presented session. Revoking a session that is
// already inactive succeeds.
func (s *Service) Logout(
	ctx context.Context,
	tokenDigest, userID, ipAddress, userAgent string,
) error {
	// Best effort; a digest with no session row still logs out cleanly.
	var sessionID string
	if session, err := s.sessions.FindByDigest(ctx, tokenDigest); err == nil {
		sessionID = session.ID
	}

	if err := s.sessions.Deactivate(ctx, tokenDigest); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "auth.logout",
		Resource:   "sessions",
		ResourceID: sessionID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    userID,
		Outcome:    audit.OutcomeSuccess,
	})

	return nil
}

func (s *Service) GetMe(
	ctx context.Context,
	userID string,
) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) ListSessions(
	ctx context.Context,
	userID string,
) ([]Session, error) {
	return s.sessions.ListActiveForUser(ctx, userID)
}

// IsSessionActive reports whether the session behind a token digest is
// still valid. Touches last_activity_at as a side effect.
func (s *Service) IsSessionActive(
	ctx context.Context,
	tokenDigest string,
) (bool, error) {
	active, err := s.sessions.IsSessionActive(ctx, tokenDigest)
	if err != nil || !active {
		return active, err
	}

	if touchErr := s.sessions.TouchActivity(ctx, tokenDigest); touchErr != nil {
		s.logger.Warn("touch session activity",
			slog.String("error", touchErr.Error()),
		)
	}

	return true, nil
}

func (s *Service) RevokeAllSessions(
	ctx context.Context,
	userID, actorID, ipAddress, userAgent string,
) error {
	if err := s.sessions.DeactivateAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "auth.sessions_revoke",
		Resource:   "users",
		ResourceID: userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    actorID,
		Outcome:    audit.OutcomeSuccess,
	})

	return nil
}
