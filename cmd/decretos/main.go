package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/decretos-hr/decretos/internal/app"
	"github.com/decretos-hr/decretos/internal/auditor"
	audithttp "github.com/decretos-hr/decretos/internal/auditor/http"
	"github.com/decretos-hr/decretos/internal/calendar"
	"github.com/decretos-hr/decretos/internal/decrees"
	"github.com/decretos-hr/decretos/internal/employees"
	"github.com/decretos-hr/decretos/internal/observability"
	"github.com/decretos-hr/decretos/internal/platform/cache"
	"github.com/decretos-hr/decretos/internal/platform/db"
	"github.com/decretos-hr/decretos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditCache := auditor.NewCache(redisClient, cfg.AuditCacheTTL)

	decreeService := decrees.NewService(decrees.NewRepository(pool), auditCache)
	employeeService := employees.NewService(employees.NewRepository(pool))
	calendarService := calendar.NewService(calendar.NewRepository(pool), redisClient, cfg.AuditCacheTTL)
	auditService := auditor.NewService(decreeService, employeeService, calendarService, auditCache)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		DecreeHandler:   decrees.NewHandler(logger, decreeService),
		EmployeeHandler: employees.NewHandler(logger, employeeService),
		CalendarHandler: calendar.NewHandler(logger, calendarService),
		AuditHandler:    audithttp.NewHandler(logger, auditService),
		JobHandler:      jobs.NewHandler(inspector, logger),
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
