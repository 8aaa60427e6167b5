// AngelaMos | 2026
// handler.go

package rbac

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Permit builds a permission gate for one (resource, action) pair.
type Permit func(resource, action string) func(http.Handler) http.Handler

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	permit Permit,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(permit("users", "read")).Get("/roles", h.ListRoles)
		r.With(permit("users", "read")).
			Get("/permissions", h.ListPermissions)
	})
}

// UserRoutes registers the grant management endpoints. The returned
// function is meant to run inside the authenticated /users subtree.
func (h *Handler) UserRoutes(permit Permit) func(chi.Router) {
	return func(r chi.Router) {
		r.With(permit("users", "read")).
			Get("/{userID}/permissions", h.ListUserPermissions)
		r.With(permit("users", "update")).
			Post("/{userID}/roles/{roleID}", h.AssignRole)
		r.With(permit("users", "update")).
			Delete("/{userID}/roles/{roleID}", h.RemoveRole)
		r.With(permit("users", "update")).
			Post("/{userID}/permissions/{permissionID}", h.GrantPermission)
		r.With(permit("users", "update")).
			Delete("/{userID}/permissions/{permissionID}", h.RevokePermission)
	}
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRoleListResponse(roles))
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPermissionListResponse(perms))
}

func (h *Handler) ListUserPermissions(
	w http.ResponseWriter,
	r *http.Request,
) {
	userID := chi.URLParam(r, "userID")

	perms, err := h.service.ListUserPermissions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPermissionListResponse(perms))
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	err := h.service.AssignRole(
		r.Context(),
		chi.URLParam(r, "userID"),
		chi.URLParam(r, "roleID"),
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveRole(
		r.Context(),
		chi.URLParam(r, "userID"),
		chi.URLParam(r, "roleID"),
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	err := h.service.GrantPermission(
		r.Context(),
		chi.URLParam(r, "userID"),
		chi.URLParam(r, "permissionID"),
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	err := h.service.RevokePermission(
		r.Context(),
		chi.URLParam(r, "userID"),
		chi.URLParam(r, "permissionID"),
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.JSONError(w, core.NotFoundError("resource"))
		return
	}
	core.InternalServerError(w, err)
}
