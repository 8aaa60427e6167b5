// AngelaMos | 2026
// handler.go

package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/wholesale-api/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	requireRead func(http.Handler) http.Handler,
) {
	r.Route("/audit-logs", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(requireRead)

		r.Get("/", h.List)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Resource: r.URL.Query().Get("resource"),
		ActorID:  r.URL.Query().Get("actor_id"),
	}

	if page := r.URL.Query().Get("page"); page != "" {
		params.Page, _ = strconv.Atoi(page)
	}
	if pageSize := r.URL.Query().Get("page_size"); pageSize != "" {
		params.PageSize, _ = strconv.Atoi(pageSize)
	}

	entries, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, ToEntryResponse(&e))
	}

	core.OK(w, ListResponse{Entries: responses})
}
