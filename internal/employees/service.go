package employees

import (
	"context"
	"strings"
	"time"

	"github.com/decretos-hr/decretos/internal/shared"
)

// Service coordinates roster access. The roster is small (hundreds of people),
// so search filters in memory after one query; this keeps accent-insensitive
// matching out of SQL.
type Service struct {
	repo  Repository
	clock func() time.Time
}

// NewService constructs a roster service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
}

// ListAll returns the full roster; the consistency auditor consumes this.
func (s *Service) ListAll(ctx context.Context) ([]Employee, error) {
	return s.repo.ListAll(ctx)
}

// Search returns roster entries whose name or RUT matches the query,
// accent- and case-insensitively. An empty query returns everyone.
func (s *Service) Search(ctx context.Context, query string) ([]Employee, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	folded := shared.FoldForSearch(query)
	if folded == "" {
		return all, nil
	}
	matches := make([]Employee, 0, len(all))
	for _, e := range all {
		if containsFolded(e.Name, folded) || containsFolded(e.RUT, folded) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// Create adds a roster entry. RUTs are stored in the conventional dotted form
// so one employee cannot appear twice under different spellings.
func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	now := s.clock()
	e := Employee{
		RUT:        shared.FormatRUT(req.RUT),
		Name:       req.Name,
		Department: req.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

// Delete removes a roster entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func containsFolded(haystack, foldedNeedle string) bool {
	return strings.Contains(shared.FoldForSearch(haystack), foldedNeedle)
}
