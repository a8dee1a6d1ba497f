package decrees

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/decretos-hr/decretos/internal/platform/httpx"
	"github.com/decretos-hr/decretos/internal/shared"
)

// Handler wires HTTP endpoints for decree management.
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

type listResponse struct {
	Items      []Decree          `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// List responds with a filtered page of decrees.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	filter := ListFilter{
		RUT:      q.Get("rut"),
		Kind:     Kind(q.Get("tipo")),
		DateFrom: q.Get("desde"),
		DateTo:   q.Get("hasta"),
		Page:     page,
		PerPage:  perPage,
	}
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list decrees", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: shared.NewPagination(filter.Page, filter.PerPage, total),
	})
}

// Show responds with a single decree.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get decree", err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Create registers a new decree.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDecreeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create decree", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

// Update replaces an existing decree.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateDecreeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "update decree", err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Delete removes a decree.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete decree", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
