package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/decretos-hr/decretos/internal/auditor"
	jobmetrics "github.com/decretos-hr/decretos/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportRunner is the subset of the auditor service the scan job needs.
type ReportRunner interface {
	Report(ctx context.Context) (auditor.Report, error)
	Recompute(ctx context.Context) (auditor.Report, error)
}

// ConsistencyScanJob runs the decree consistency audit in the background.
type ConsistencyScanJob struct {
	Auditor ReportRunner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewConsistencyScanJob initialises the consistency scan handler.
func NewConsistencyScanJob(auditorSvc ReportRunner, logger *slog.Logger, metrics *jobmetrics.Metrics) *ConsistencyScanJob {
	return &ConsistencyScanJob{
		Auditor: auditorSvc,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the consistency scan logic.
func (j *ConsistencyScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Auditor == nil {
		return errors.New("consistency scan: handler not configured")
	}
	var payload ConsistencyScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	tracker := j.metrics().Track(TaskConsistencyScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Bool("recompute", payload.Recompute))
	logger.Info("starting consistency scan")

	var report auditor.Report
	var err error
	if payload.Recompute {
		report, err = j.Auditor.Recompute(ctx)
	} else {
		report, err = j.Auditor.Report(ctx)
	}
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	counts := make(map[[2]string]int)
	for _, f := range report.Findings {
		counts[[2]string{string(f.Severity), string(f.Category)}]++
	}
	for key, n := range counts {
		j.metrics().AddFindings(key[0], key[1], n)
	}

	for _, f := range report.Findings {
		if f.Severity != auditor.SeverityError {
			continue
		}
		logger.Warn("consistency error detected",
			slog.String("record_id", f.RecordID),
			slog.String("rut", f.Record.RUT),
			slog.String("act", f.Record.ActNumber),
			slog.String("category", string(f.Category)),
			slog.String("message", f.Message),
		)
	}

	logger.Info("completed consistency scan",
		slog.String("run_id", report.RunID),
		slog.Int("records", report.Records),
		slog.Int("errors", report.Errors),
		slog.Int("warnings", report.Warnings),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ConsistencyScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskConsistencyScan))
	}
	return slog.Default().With(slog.String("job", TaskConsistencyScan))
}

func (j *ConsistencyScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ConsistencyScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
