// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/core"
)

type Service struct {
	repo     Repository
	recorder audit.Recorder
}

func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// Register creates a self-service account. New accounts start at the
// bottom tier with pending status and hold no grants at all.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	ipAddress, userAgent string,
) (*User, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Tier:         TierBasic,
		Status:       StatusPending,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "user.register",
		Resource:   "users",
		ResourceID: u.ID,
		Details:    map[string]any{"username": u.Username},
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    u.ID,
		Outcome:    audit.OutcomeSuccess,
	})

	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsernameOrEmail(
	ctx context.Context,
	identity string,
) (*User, error) {
	return s.repo.GetByUsernameOrEmail(ctx, identity)
}

func (s *Service) GetTier(ctx context.Context, id string) (string, error) {
	return s.repo.GetTier(ctx, id)
}

func (s *Service) UpdatePasswordHash(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePasswordHash(ctx, id, passwordHash)
}

func (s *Service) RecordLoginSuccess(ctx context.Context, id string) error {
	return s.repo.RecordLoginSuccess(ctx, id)
}

func (s *Service) RecordLoginFailure(ctx context.Context, id string) error {
	return s.repo.RecordLoginFailure(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	fields := UpdateFields{FullName: req.FullName}

	if req.Email != nil {
		lowered := strings.ToLower(*req.Email)
		fields.Email = &lowered
	}

	return s.repo.Update(ctx, id, fields)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status, actorID, ipAddress, userAgent string,
) (*User, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf(
			"update status: invalid status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "user.status_change",
		Resource:   "users",
		ResourceID: id,
		Details:    map[string]any{"status": status},
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    actorID,
		Outcome:    audit.OutcomeSuccess,
	})

	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateTier(
	ctx context.Context,
	id, tier, actorID, ipAddress, userAgent string,
) (*User, error) {
	if !ValidTier(tier) {
		return nil, fmt.Errorf(
			"update tier: invalid tier %q: %w",
			tier,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateTier(ctx, id, tier); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "user.tier_change",
		Resource:   "users",
		ResourceID: id,
		Details:    map[string]any{"tier": tier},
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    actorID,
		Outcome:    audit.OutcomeSuccess,
	})

	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}
