// AngelaMos | 2026
// service.go

package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/user"
)

// TierProvider supplies a user's privilege tier.
type TierProvider interface {
	GetTier(ctx context.Context, userID string) (string, error)
}

type Service struct {
	repo     Repository
	tiers    TierProvider
	recorder audit.Recorder
}

func NewService(
	repo Repository,
	tiers TierProvider,
	recorder audit.Recorder,
) *Service {
	return &Service{repo: repo, tiers: tiers, recorder: recorder}
}

// Authorized resolves one (resource, action) check. The top tier bypasses
// the grant tables entirely; everyone else gets the union of direct and
// role-derived grants, computed fresh on every call.
func (s *Service) Authorized(
	ctx context.Context,
	userID, resource, action string,
) (bool, error) {
	tier, err := s.tiers.GetTier(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve tier: %w", err)
	}

	if tier == user.TierSuperAdmin {
		return true, nil
	}

	return s.repo.HasPermission(ctx, userID, resource, action)
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *Service) ListUserPermissions(
	ctx context.Context,
	userID string,
) ([]Permission, error) {
	return s.repo.ListUserPermissions(ctx, userID)
}

func (s *Service) AssignRole(
	ctx context.Context,
	userID, roleID, actorID, ipAddress, userAgent string,
) error {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.repo.AssignRole(ctx, userID, roleID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "rbac.role_assign",
		Resource:   "users",
		ResourceID: userID,
		Details:    map[string]any{"role": role.Name},
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    actorID,
		Outcome:    audit.OutcomeSuccess,
	})

	return nil
}

func (s *Service) RemoveRole(
	ctx context.Context,
	userID, roleID, actorID, ipAddress, userAgent string,
) error {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveRole(ctx, userID, roleID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "rbac.role_remove",
		Resource:   "users",
		ResourceID: userID,
		Details:    map[string]any{"role": role.Name},
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ActorID:    actorID,
		Outcome:    audit.OutcomeSuccess,
	})

	return nil
}

func (s *Service) GrantPermission(
	ctx context.Context,
	userID, permissionID, actorID, ipAddress, userAgent string,
) error {
	perm, err := s.repo.GetPermission(ctx, permissionID)
	if err != nil {
		return err
	}

	if err := s.repo.GrantPermission(ctx, userID, permissionID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "rbac.permission_grant",
		Resource:   "users",
		ResourceID: userID,
		Details: map[string]any{
			"resource": perm.Resource,
			"action":   perm.Action,
		},
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ActorID:   actorID,
		Outcome:   audit.OutcomeSuccess,
	})

	return nil
}

func (s *Service) RevokePermission(
	ctx context.Context,
	userID, permissionID, actorID, ipAddress, userAgent string,
) error {
	perm, err := s.repo.GetPermission(ctx, permissionID)
	if err != nil {
		return err
	}

	if err := s.repo.RevokePermission(ctx, userID, permissionID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "rbac.permission_revoke",
		Resource:   "users",
		ResourceID: userID,
		Details: map[string]any{
			"resource": perm.Resource,
			"action":   perm.Action,
		},
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ActorID:   actorID,
		Outcome:   audit.OutcomeSuccess,
	})

	return nil
}
