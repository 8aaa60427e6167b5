// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Permit builds a permission gate for one (resource, action) pair.
type Permit func(resource, action string) func(http.Handler) http.Handler

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	permit Permit,
	nested ...func(chi.Router),
) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Register)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.With(permit("users", "read")).Get("/", h.List)
			r.With(permit("users", "read")).Get("/{userID}", h.Get)
			r.With(permit("users", "update")).
				Put("/{userID}", h.Update)
			r.With(permit("users", "update")).
				Patch("/{userID}/status", h.UpdateStatus)
			r.With(permit("users", "update")).
				Patch("/{userID}/tier", h.UpdateTier)

			for _, register := range nested {
				register(r)
			}
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Register(
		r.Context(),
		req,
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("username or email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToUserResponse(u))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Search: r.URL.Query().Get("search"),
		Tier:   r.URL.Query().Get("tier"),
		Status: r.URL.Query().Get("status"),
	}

	if page := r.URL.Query().Get("page"); page != "" {
		params.Page, _ = strconv.Atoi(page)
	}
	if pageSize := r.URL.Query().Get("page_size"); pageSize != "" {
		params.PageSize, _ = strconv.Atoi(pageSize)
	}

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UserListResponse{
		Users: ToUserResponseList(users),
		Total: total,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateStatus(
		r.Context(),
		userID,
		req.Status,
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid status")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateTier(
		r.Context(),
		userID,
		req.Tier,
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid tier")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}
