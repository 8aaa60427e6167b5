// AngelaMos | 2026
// handler.go

package order

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
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.With(permit("orders", "create")).Post("/", h.Create)
		r.With(permit("orders", "read")).Get("/", h.List)
		r.With(permit("orders", "read")).Get("/{orderID}", h.Get)
		r.With(permit("orders", "update")).
			Patch("/{orderID}/status", h.UpdateStatus)
		r.With(permit("orders", "update")).
			Patch("/{orderID}/payment", h.UpdatePayment)
		r.With(permit("orders", "delete")).
			Delete("/{orderID}", h.Cancel)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.Create(
		r.Context(),
		req,
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, CreateOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetByID(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	params := ListOrdersParams{
		Page:       page,
		PageSize:   pageSize,
		Status:     query.Get("status"),
		CustomerID: query.Get("customer_id"),
	}

	orders, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToOrderListResponse(orders, total))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.UpdateStatus(
		r.Context(),
		chi.URLParam(r, "orderID"),
		req.Status,
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.UpdatePaymentStatus(
		r.Context(),
		chi.URLParam(r, "orderID"),
		req.PaymentStatus,
		middleware.GetUserID(r.Context()),
		core.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.Cancel(
		r.Context(),
		chi.URLParam(r, "orderID"),
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
	if appErr, ok := core.AsAppError(err); ok {
		core.JSONError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.NotFoundError("order"))
	case errors.Is(err, core.ErrInvalidInput):
		core.JSONError(w, core.ValidationError(err.Error()))
	default:
		core.InternalServerError(w, err)
	}
}
