// AngelaMos | 2026
// entity.go

package rbac

import (
	"time"
)

// Role is a named, reusable bundle of permissions with an associated
// privilege tier. System roles are immutable seed data.
type Role struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Tier        string    `db:"tier"`
	IsSystem    bool      `db:"is_system"`
	CreatedAt   time.Time `db:"created_at"`
}

// Permission is an atomic (resource, action) capability.
type Permission struct {
	ID          string    `db:"id"`
	Resource    string    `db:"resource"`
	Action      string    `db:"action"`
	Description string    `db:"description"`
	IsSystem    bool      `db:"is_system"`
	CreatedAt   time.Time `db:"created_at"`
}

// System role names seeded at first boot.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleOperator   = "Operator"
	RoleViewer     = "Viewer"
)

type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tier        string    `json:"tier"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
}

type PermissionResponse struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoleListResponse struct {
	Roles []RoleResponse `json:"roles"`
}

type PermissionListResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
}

func ToRoleResponse(role *Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Tier:        role.Tier,
		IsSystem:    role.IsSystem,
		CreatedAt:   role.CreatedAt,
	}
}

func ToPermissionResponse(perm *Permission) PermissionResponse {
	return PermissionResponse{
		ID:          perm.ID,
		Resource:    perm.Resource,
		Action:      perm.Action,
		Description: perm.Description,
		IsSystem:    perm.IsSystem,
		CreatedAt:   perm.CreatedAt,
	}
}

func ToRoleListResponse(roles []Role) RoleListResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		responses = append(responses, ToRoleResponse(&roles[i]))
	}

	return RoleListResponse{Roles: responses}
}

func ToPermissionListResponse(perms []Permission) PermissionListResponse {
	responses := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		responses = append(responses, ToPermissionResponse(&perms[i]))
	}

	return PermissionListResponse{Permissions: responses}
}
