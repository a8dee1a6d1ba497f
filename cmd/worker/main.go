package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/decretos-hr/decretos/internal/app"
	"github.com/decretos-hr/decretos/internal/auditor"
	"github.com/decretos-hr/decretos/internal/calendar"
	"github.com/decretos-hr/decretos/internal/decrees"
	"github.com/decretos-hr/decretos/internal/employees"
	"github.com/decretos-hr/decretos/internal/platform/cache"
	"github.com/decretos-hr/decretos/internal/platform/db"
	"github.com/decretos-hr/decretos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	scanJob := jobs.NewConsistencyScanJob(auditService, logger, nil)

	scanTask, err := jobs.NewConsistencyScanTask(jobs.ConsistencyScanPayload{Recompute: true})
	if err != nil {
		logger.Error("build scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskConsistencyScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 3 * * *", Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
