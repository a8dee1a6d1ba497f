package audithttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/decretos-hr/decretos/internal/auditor"
	"github.com/decretos-hr/decretos/internal/platform/httpx"
	"github.com/decretos-hr/decretos/internal/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ReportService defines the business contract for consistency reports.
type ReportService interface {
	Report(ctx context.Context) (auditor.Report, error)
	Recompute(ctx context.Context) (auditor.Report, error)
}

// Handler serves the consistency findings API.
type Handler struct {
	logger  *slog.Logger
	service ReportService
}

// NewHandler constructs a findings handler.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// findingFilters narrows the findings listing; all fields are optional.
type findingFilters struct {
	Severity auditor.Severity
	Category auditor.Category
	RUT      string
	Query    string
	Page     int
	PerPage  int
}

type listResponse struct {
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Records     int               `json:"records"`
	Errors      int               `json:"errors"`
	Warnings    int               `json:"warnings"`
	Items       []auditor.Finding `json:"items"`
	Pagination  shared.Pagination `json:"pagination"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.logger.Error("load consistency report", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	filters := parseFilters(r)
	filtered := applyFilters(report.Findings, filters)

	p := shared.NewPagination(filters.Page, filters.PerPage, len(filtered))
	start := p.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + p.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}

	httpx.JSON(w, http.StatusOK, listResponse{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		Records:     report.Records,
		Errors:      report.Errors,
		Warnings:    report.Warnings,
		Items:       filtered[start:end],
		Pagination:  p,
	})
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Recompute(r.Context())
	if err != nil {
		h.logger.Error("recompute consistency report", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"runId":       report.RunID,
		"generatedAt": report.GeneratedAt,
		"records":     report.Records,
		"errors":      report.Errors,
		"warnings":    report.Warnings,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.logger.Error("export consistency report", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	filters := parseFilters(r)
	filtered := applyFilters(report.Findings, filters)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"hallazgos.csv\"")
	if err := writeFindingsCSV(w, report, filtered); err != nil {
		h.logger.Warn("write findings csv", slog.Any("error", err))
	}
}

func parseFilters(r *http.Request) findingFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	if perPage <= 0 {
		perPage = defaultPageSize
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	return findingFilters{
		Severity: auditor.Severity(strings.TrimSpace(q.Get("severity"))),
		Category: auditor.Category(strings.TrimSpace(q.Get("category"))),
		RUT:      strings.TrimSpace(q.Get("rut")),
		Query:    strings.TrimSpace(q.Get("q")),
		Page:     page,
		PerPage:  perPage,
	}
}

func applyFilters(findings []auditor.Finding, filters findingFilters) []auditor.Finding {
	folded := shared.FoldForSearch(filters.Query)
	out := make([]auditor.Finding, 0, len(findings))
	for _, f := range findings {
		if filters.Severity != "" && f.Severity != filters.Severity {
			continue
		}
		if filters.Category != "" && f.Category != filters.Category {
			continue
		}
		if filters.RUT != "" && f.Record.RUT != filters.RUT {
			continue
		}
		if folded != "" && !matchesQuery(f, folded) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func matchesQuery(f auditor.Finding, folded string) bool {
	for _, candidate := range []string{f.Record.Name, f.Record.ActNumber, f.Message, f.Detail} {
		if strings.Contains(shared.FoldForSearch(candidate), folded) {
			return true
		}
	}
	return false
}
