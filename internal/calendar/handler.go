package calendar

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/decretos-hr/decretos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the holiday calendar.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches calendar routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/feriados", h.List)
	r.Post("/feriados", h.Create)
	r.Delete("/feriados/{id}", h.Delete)
}

// List responds with every designated holiday.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list holidays", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// Create designates a holiday.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	holiday, err := h.service.Create(r.Context(), req)
	if err != nil {
		if !httpx.IsClientError(err) {
			h.logger.Error("create holiday", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, holiday)
}

// Delete removes a holiday designation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "id must be numeric")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if !httpx.IsClientError(err) {
			h.logger.Error("delete holiday", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
