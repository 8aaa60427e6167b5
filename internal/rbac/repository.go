// AngelaMos | 2026
// repository.go

package rbac

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/wholesale-api/internal/core"
)

type Repository interface {
	HasPermission(
		ctx context.Context,
		userID, resource, action string,
	) (bool, error)
	ListUserPermissions(
		ctx context.Context,
		userID string,
	) ([]Permission, error)
	ListRoles(ctx context.Context) ([]Role, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	GetRole(ctx context.Context, id string) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	GetPermission(ctx context.Context, id string) (*Permission, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
	GrantPermission(ctx context.Context, userID, permissionID string) error
	RevokePermission(ctx context.Context, userID, permissionID string) error
	GrantAllToUser(ctx context.Context, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// HasPermission checks membership in the union of direct grants and
// role-derived grants. No caching; the answer must be current.
func (r *repository) HasPermission(
	ctx context.Context,
	userID, resource, action string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM user_permissions up
			JOIN permissions p ON p.id = up.permission_id
			WHERE up.user_id = $1 AND p.resource = $2 AND p.action = $3
			UNION
			SELECT 1
			FROM user_roles ur
			JOIN role_permissions rp ON rp.role_id = ur.role_id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE ur.user_id = $1 AND p.resource = $2 AND p.action = $3
		)`

	var allowed bool
	err := r.db.GetContext(ctx, &allowed, query, userID, resource, action)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}

	return allowed, nil
}

func (r *repository) ListUserPermissions(
	ctx context.Context,
	userID string,
) ([]Permission, error) {
	query := `
		SELECT DISTINCT p.id, p.resource, p.action, p.description,
		       p.is_system, p.created_at
		FROM permissions p
		WHERE p.id IN (
			SELECT permission_id FROM user_permissions WHERE user_id = $1
			UNION
			SELECT rp.permission_id
			FROM user_roles ur
			JOIN role_permissions rp ON rp.role_id = ur.role_id
			WHERE ur.user_id = $1
		)
		ORDER BY p.resource, p.action`

	var perms []Permission
	if err := r.db.SelectContext(ctx, &perms, query, userID); err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}

	return perms, nil
}

func (r *repository) ListRoles(ctx context.Context) ([]Role, error) {
	query := `
		SELECT id, name, description, tier, is_system, created_at
		FROM roles
		ORDER BY name`

	var roles []Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

func (r *repository) ListPermissions(
	ctx context.Context,
) ([]Permission, error) {
	query := `
		SELECT id, resource, action, description, is_system, created_at
		FROM permissions
		ORDER BY resource, action`

	var perms []Permission
	if err := r.db.SelectContext(ctx, &perms, query); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	return perms, nil
}

func (r *repository) GetRole(ctx context.Context, id string) (*Role, error) {
	query := `
		SELECT id, name, description, tier, is_system, created_at
		FROM roles
		WHERE id = $1`

	var role Role
	err := r.db.GetContext(ctx, &role, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}

	return &role, nil
}

func (r *repository) GetRoleByName(
	ctx context.Context,
	name string,
) (*Role, error) {
	query := `
		SELECT id, name, description, tier, is_system, created_at
		FROM roles
		WHERE name = $1`

	var role Role
	err := r.db.GetContext(ctx, &role, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get role by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get role by name: %w", err)
	}

	return &role, nil
}

func (r *repository) GetPermission(
	ctx context.Context,
	id string,
) (*Permission, error) {
	query := `
		SELECT id, resource, action, description, is_system, created_at
		FROM permissions
		WHERE id = $1`

	var perm Permission
	err := r.db.GetContext(ctx, &perm, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get permission: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return &perm, nil
}

func (r *repository) AssignRole(
	ctx context.Context,
	userID, roleID string,
) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	return nil
}

func (r *repository) RemoveRole(
	ctx context.Context,
	userID, roleID string,
) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}

	return nil
}

func (r *repository) GrantPermission(
	ctx context.Context,
	userID, permissionID string,
) error {
	query := `
		INSERT INTO user_permissions (user_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, permission_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, permissionID); err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}

	return nil
}

func (r *repository) RevokePermission(
	ctx context.Context,
	userID, permissionID string,
) error {
	query := `
		DELETE FROM user_permissions
		WHERE user_id = $1 AND permission_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, permissionID); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}

	return nil
}

// GrantAllToUser attaches the entire permission catalog to one user.
// Used by the seed bootstrap for the super_admin account.
func (r *repository) GrantAllToUser(
	ctx context.Context,
	userID string,
) error {
	query := `
		INSERT INTO user_permissions (user_id, permission_id)
		SELECT $1, id FROM permissions
		ON CONFLICT (user_id, permission_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("grant all permissions: %w", err)
	}

	return nil
}
