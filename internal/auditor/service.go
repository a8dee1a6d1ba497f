package auditor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/decretos-hr/decretos/internal/decrees"
	"github.com/decretos-hr/decretos/internal/employees"
)

// RecordSource supplies the decree set under audit.
type RecordSource interface {
	ListAll(ctx context.Context) ([]decrees.Decree, error)
}

// RosterSource supplies the employee roster. An empty roster disables the
// roster cross-reference.
type RosterSource interface {
	ListAll(ctx context.Context) ([]employees.Employee, error)
}

// CalendarSource builds the working-day oracle the engine consults.
type CalendarSource interface {
	WorkingDayFn(ctx context.Context) (func(date string) bool, error)
}

// Service runs the consistency engine over current data, caching the resulting
// report. Concurrent callers share one computation via singleflight.
type Service struct {
	records  RecordSource
	roster   RosterSource
	calendar CalendarSource
	cache    *Cache
	group    singleflight.Group
	clock    func() time.Time
}

// NewService constructs the auditor service. The cache may be nil, in which
// case every call recomputes.
func NewService(records RecordSource, roster RosterSource, calendar CalendarSource, cache *Cache) *Service {
	return &Service{
		records:  records,
		roster:   roster,
		calendar: calendar,
		cache:    cache,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Report returns the current consistency report, served from cache when the
// underlying data has not changed since the last run.
func (s *Service) Report(ctx context.Context) (Report, error) {
	key, err := s.cache.BuildKey(ctx, "auditor", "report")
	if err != nil {
		return Report{}, fmt.Errorf("auditor: cache key: %w", err)
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var report Report
		err := s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
			fresh, err := s.run(ctx)
			if err != nil {
				return nil, err
			}
			return fresh, nil
		})
		if err != nil {
			return Report{}, err
		}
		return report, nil
	})
	if err != nil {
		return Report{}, err
	}
	return result.(Report), nil
}

// Recompute bypasses the cache, runs the engine and stores the fresh report.
func (s *Service) Recompute(ctx context.Context) (Report, error) {
	if err := s.cache.Bump(ctx); err != nil {
		return Report{}, fmt.Errorf("auditor: bump cache: %w", err)
	}
	return s.Report(ctx)
}

func (s *Service) run(ctx context.Context) (Report, error) {
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("auditor: load records: %w", err)
	}
	roster, err := s.roster.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("auditor: load roster: %w", err)
	}
	isWorkingDay, err := s.calendar.WorkingDayFn(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("auditor: load calendar: %w", err)
	}

	findings := Audit(records, roster, isWorkingDay)

	report := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: s.clock(),
		Records:     len(records),
		Findings:    findings,
	}
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			report.Errors++
		case SeverityWarning:
			report.Warnings++
		}
	}
	return report, nil
}
