// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/middleware"
	"github.com/angelamos/wholesale-api/internal/user"
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

// RegisterRoutes mounts the auth endpoints. Logout routes authenticate
// by token signature only: a second logout with the same token must
// succeed even though its session row is already revoked.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	signatureAuth func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Get("/sessions", h.GetSessions)
		})

		r.Group(func(r chi.Router) {
			r.Use(signatureAuth)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(
		r.Context(),
		req,
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		if appErr, ok := core.AsAppError(err); ok {
			core.JSONError(w, appErr)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	tokenDigest := middleware.GetTokenDigest(r.Context())
	if userID == "" || tokenDigest == "" {
		core.JSONError(w, core.TokenMissingError())
		return
	}

	err := h.service.Logout(
		r.Context(),
		tokenDigest,
		userID,
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.JSONError(w, core.TokenMissingError())
		return
	}

	err := h.service.RevokeAllSessions(
		r.Context(),
		userID,
		userID,
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.JSONError(w, core.TokenMissingError())
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			ID:             s.ID,
			IPAddress:      s.IPAddress,
			UserAgent:      s.UserAgent,
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
			ExpiresAt:      s.ExpiresAt,
		})
	}

	core.OK(w, SessionsResponse{Sessions: infos})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.JSONError(w, core.TokenMissingError())
		return
	}

	u, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}
