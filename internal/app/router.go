package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	audithttp "github.com/decretos-hr/decretos/internal/auditor/http"
	"github.com/decretos-hr/decretos/internal/calendar"
	"github.com/decretos-hr/decretos/internal/decrees"
	"github.com/decretos-hr/decretos/internal/employees"
	"github.com/decretos-hr/decretos/internal/observability"
	"github.com/decretos-hr/decretos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	DecreeHandler   *decrees.Handler
	EmployeeHandler *employees.Handler
	CalendarHandler *calendar.Handler
	AuditHandler    *audithttp.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		if params.DecreeHandler != nil {
			params.DecreeHandler.MountRoutes(api)
		}
		if params.EmployeeHandler != nil {
			params.EmployeeHandler.MountRoutes(api)
		}
		if params.CalendarHandler != nil {
			params.CalendarHandler.MountRoutes(api)
		}
		if params.AuditHandler != nil {
			params.AuditHandler.MountRoutes(api)
		}
		if params.JobHandler != nil {
			api.Route("/jobs", func(jr chi.Router) {
				params.JobHandler.MountRoutes(jr)
			})
		}
	})

	return r
}
