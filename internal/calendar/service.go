package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dateLayout    = "2006-01-02"
	holidaySetKey = "calendar:holiday_dates"
)

// Service answers working-day questions. A calendar day counts as working when
// it is neither a weekend nor a designated holiday.
type Service struct {
	repo  Repository
	redis *redis.Client
	ttl   time.Duration
	clock func() time.Time
}

// NewService constructs the calendar service. The redis client may be nil, in
// which case the holiday set is loaded from the database on every call.
func NewService(repo Repository, client *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{repo: repo, redis: client, ttl: ttl, clock: func() time.Time { return time.Now().UTC() }}
}

// ListAll returns every designated holiday.
func (s *Service) ListAll(ctx context.Context) ([]Holiday, error) {
	return s.repo.ListAll(ctx)
}

// Create designates a new holiday and drops the cached date set.
func (s *Service) Create(ctx context.Context, req CreateHolidayRequest) (*Holiday, error) {
	h := Holiday{Date: req.Date, Name: req.Name, CreatedAt: s.clock()}
	id, err := s.repo.Create(ctx, h)
	if err != nil {
		return nil, err
	}
	h.ID = id
	s.dropCache(ctx)
	return &h, nil
}

// Delete removes a holiday and drops the cached date set.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropCache(ctx)
	return nil
}

// IsWorkingDay reports whether the given ISO date counts toward day totals.
func (s *Service) IsWorkingDay(ctx context.Context, date string) (bool, error) {
	fn, err := s.WorkingDayFn(ctx)
	if err != nil {
		return false, err
	}
	return fn(date), nil
}

// WorkingDayFn preloads the holiday set and returns a pure predicate over ISO
// date strings. The closure performs no I/O, so the consistency engine can walk
// long ranges without touching storage.
func (s *Service) WorkingDayFn(ctx context.Context) (func(date string) bool, error) {
	holidays, err := s.holidaySet(ctx)
	if err != nil {
		return nil, err
	}
	return func(date string) bool {
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			return false
		}
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
		_, isHoliday := holidays[date]
		return !isHoliday
	}, nil
}

func (s *Service) holidaySet(ctx context.Context) (map[string]struct{}, error) {
	if s.redis != nil {
		payload, err := s.redis.Get(ctx, holidaySetKey).Bytes()
		if err == nil {
			var dates []string
			if err := json.Unmarshal(payload, &dates); err == nil {
				return toSet(dates), nil
			}
		} else if err != redis.Nil {
			return nil, fmt.Errorf("calendar: cache get: %w", err)
		}
	}

	holidays, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}

	if s.redis != nil {
		if raw, err := json.Marshal(dates); err == nil {
			_ = s.redis.Set(ctx, holidaySetKey, raw, s.ttl).Err()
		}
	}
	return toSet(dates), nil
}

func (s *Service) dropCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, holidaySetKey).Err()
}

func toSet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}
