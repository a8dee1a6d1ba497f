package auditor

import (
	"time"

	"github.com/decretos-hr/decretos/internal/decrees"
)

// Severity grades a finding.
type Severity string

const (
	// SeverityError marks defects that block correctness, e.g. a negative
	// balance or an inverted date range.
	SeverityError Severity = "error"
	// SeverityWarning marks suspicious but not necessarily wrong data, e.g. a
	// person missing from the roster.
	SeverityWarning Severity = "warning"
)

// Category groups findings by the rule family that produced them.
type Category string

const (
	CategoryDates       Category = "dates"
	CategoryMissingInfo Category = "missing-info"
	CategoryIdentity    Category = "identity"
	CategoryBalance     Category = "balance"
	CategoryOverlap     Category = "overlap"
)

// Finding is one detected consistency issue. Findings carry a copy of the
// originating decree so consumers can render them without another lookup.
type Finding struct {
	RecordID string         `json:"recordId"`
	Record   decrees.Decree `json:"record"`
	Severity Severity       `json:"severity"`
	Category Category       `json:"category"`
	Message  string         `json:"message"`
	Detail   string         `json:"detail,omitempty"`
}

// WorkingDayFn reports whether an ISO date (YYYY-MM-DD) counts toward day
// totals. The engine treats it as an opaque oracle.
type WorkingDayFn func(date string) bool

// Report wraps one audit run's findings with run metadata.
type Report struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Records     int       `json:"records"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	Findings    []Finding `json:"findings"`
}
