package auditor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/decretos-hr/decretos/internal/decrees"
	"github.com/decretos-hr/decretos/internal/employees"
)

const dateLayout = "2006-01-02"

// Audit scans the decree set for logical defects and returns every finding in
// detector order: presence, dates, balances, overlaps, identity drift. It is a
// pure function: deterministic for identical inputs, never mutates its
// arguments and never panics on well-typed input.
//
// Person IDs are compared verbatim, exactly as stored on each record. Records
// whose IDs are formatted differently but denote the same person will bypass
// the overlap and identity detectors; that is a known limitation carried over
// from the upstream data model, not something this engine papers over.
func Audit(records []decrees.Decree, roster []employees.Employee, isWorkingDay WorkingDayFn) []Finding {
	findings := make([]Finding, 0)
	findings = append(findings, checkPresence(records, roster)...)
	findings = append(findings, checkDates(records, isWorkingDay)...)
	findings = append(findings, checkBalances(records)...)
	findings = append(findings, checkOverlaps(records)...)
	findings = append(findings, checkIdentityDrift(records)...)
	return findings
}

// checkPresence flags missing act references and identity fields, and
// cross-references the roster when one is supplied.
func checkPresence(records []decrees.Decree, roster []employees.Employee) []Finding {
	rosterIDs := make(map[string]struct{}, len(roster))
	for _, e := range roster {
		rosterIDs[e.RUT] = struct{}{}
	}

	findings := make([]Finding, 0)
	for _, rec := range records {
		if strings.TrimSpace(rec.ActNumber) == "" {
			findings = append(findings, newFinding(rec, SeverityError, CategoryMissingInfo,
				"decree has no act number", ""))
		}
		if strings.TrimSpace(rec.RUT) == "" {
			findings = append(findings, newFinding(rec, SeverityError, CategoryMissingInfo,
				"decree has no RUT", ""))
		}
		if strings.TrimSpace(rec.Name) == "" {
			findings = append(findings, newFinding(rec, SeverityError, CategoryMissingInfo,
				"decree has no employee name", ""))
		}
		if len(roster) > 0 && strings.TrimSpace(rec.RUT) != "" {
			if _, ok := rosterIDs[rec.RUT]; !ok {
				findings = append(findings, newFinding(rec, SeverityWarning, CategoryIdentity,
					fmt.Sprintf("RUT %s not found in employee roster", rec.RUT), ""))
			}
		}
	}
	return findings
}

// checkDates validates date ranges and day-count arithmetic against the
// working-day oracle. A missing or unparsable start date ends the checks for
// that record; counting against a broken range is meaningless.
func checkDates(records []decrees.Decree, isWorkingDay WorkingDayFn) []Finding {
	findings := make([]Finding, 0)
	for _, rec := range records {
		start, ok := parseDate(rec.StartDate)
		if !ok {
			findings = append(findings, newFinding(rec, SeverityError, CategoryDates,
				"missing start date", ""))
			continue
		}

		switch rec.Kind {
		case decrees.KindLegalHoliday:
			if rec.EndDate == "" {
				break
			}
			end, ok := parseDate(rec.EndDate)
			if !ok {
				findings = append(findings, newFinding(rec, SeverityError, CategoryDates,
					"invalid end date", fmt.Sprintf("fechaTermino = %q", rec.EndDate)))
				break
			}
			if end.Before(start) {
				findings = append(findings, newFinding(rec, SeverityError, CategoryDates,
					"end date precedes start date",
					fmt.Sprintf("range %s to %s", rec.StartDate, rec.EndDate)))
				break
			}
			worked := countWorkingDays(start, end, isWorkingDay)
			if float64(worked) != rec.Days {
				findings = append(findings, newFinding(rec, SeverityError, CategoryDates,
					fmt.Sprintf("day-count discrepancy: requested %s days but range contains %d working days",
						formatDays(rec.Days), worked),
					fmt.Sprintf("range %s to %s", rec.StartDate, rec.EndDate)))
			}
		case decrees.KindAdministrativePermit:
			if rec.Days > 1 && rec.EndDate == "" {
				findings = append(findings, newFinding(rec, SeverityWarning, CategoryDates,
					fmt.Sprintf("permit for %s days without explicit end date", formatDays(rec.Days)), ""))
			}
		}
	}
	return findings
}

// checkBalances flags decrees whose resulting balances go negative.
func checkBalances(records []decrees.Decree) []Finding {
	findings := make([]Finding, 0)
	for _, rec := range records {
		switch rec.Kind {
		case decrees.KindLegalHoliday:
			if rec.FirstPeriod == nil && rec.SecondPeriod == nil {
				break
			}
			var firstAfter, secondAfter float64
			if rec.FirstPeriod != nil {
				firstAfter = rec.FirstPeriod.After
			}
			if rec.SecondPeriod != nil {
				secondAfter = rec.SecondPeriod.After
			}
			if firstAfter < 0 || secondAfter < 0 {
				findings = append(findings, newFinding(rec, SeverityError, CategoryBalance,
					"resulted in negative legal-holiday balance",
					fmt.Sprintf("first period balance %s, second period balance %s",
						formatDays(firstAfter), formatDays(secondAfter))))
			}
		case decrees.KindAdministrativePermit:
			if rec.DaysEntitled == nil {
				break
			}
			after := *rec.DaysEntitled - rec.Days
			if after < 0 {
				findings = append(findings, newFinding(rec, SeverityError, CategoryBalance,
					"exceeds available administrative-permit days",
					fmt.Sprintf("entitled %s, requested %s, resulting balance %s",
						formatDays(*rec.DaysEntitled), formatDays(rec.Days), formatDays(after))))
			}
		}
	}
	return findings
}

type span struct {
	rec   *decrees.Decree
	start time.Time
	end   time.Time
}

// checkOverlaps detects pairs of decrees for the same person whose effective
// date ranges intersect. The effective range is [start, end-or-start]; the end
// a day count would imply is deliberately ignored here (a mismatch between the
// two is itself a dates finding). Both bounds are inclusive, so ranges that
// touch on a boundary day overlap. Each conflicting pair yields two findings,
// one attached to each record, so either record surfaces the conflict on its
// own.
func checkOverlaps(records []decrees.Decree) []Finding {
	groups := make(map[string][]span)
	order := make([]string, 0)
	for i := range records {
		rec := &records[i]
		start, ok := parseDate(rec.StartDate)
		if !ok {
			// Already reported as a dates finding; nothing to place on the timeline.
			continue
		}
		end := start
		if rec.EndDate != "" {
			if parsed, ok := parseDate(rec.EndDate); ok {
				end = parsed
			}
		}
		if _, seen := groups[rec.RUT]; !seen {
			order = append(order, rec.RUT)
		}
		groups[rec.RUT] = append(groups[rec.RUT], span{rec: rec, start: start, end: end})
	}

	findings := make([]Finding, 0)
	for _, id := range order {
		group := groups[id]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.start.After(b.end) || b.start.After(a.end) {
					continue
				}
				detail := fmt.Sprintf("%s and %s", a.String(), b.String())
				findings = append(findings,
					newFinding(*a.rec, SeverityError, CategoryOverlap,
						fmt.Sprintf("date range overlaps with decree act %s", actRef(b.rec)), detail),
					newFinding(*b.rec, SeverityError, CategoryOverlap,
						fmt.Sprintf("date range overlaps with decree act %s", actRef(a.rec)), detail))
			}
		}
	}
	return findings
}

func (s span) String() string {
	return fmt.Sprintf("[%s, %s]", s.start.Format(dateLayout), s.end.Format(dateLayout))
}

// checkIdentityDrift flags person IDs that appear under more than one display
// name across the record set. Names are compared case-insensitively after
// trimming; every record bearing a drifting ID is flagged, not just the
// outliers.
func checkIdentityDrift(records []decrees.Decree) []Finding {
	type nameSet struct {
		seen    map[string]struct{}
		display []string
	}
	namesByID := make(map[string]*nameSet)
	for _, rec := range records {
		display := strings.TrimSpace(rec.Name)
		if display == "" {
			continue
		}
		normalized := strings.ToLower(display)
		set := namesByID[rec.RUT]
		if set == nil {
			set = &nameSet{seen: make(map[string]struct{})}
			namesByID[rec.RUT] = set
		}
		if _, ok := set.seen[normalized]; !ok {
			set.seen[normalized] = struct{}{}
			set.display = append(set.display, display)
		}
	}

	findings := make([]Finding, 0)
	for _, rec := range records {
		set := namesByID[rec.RUT]
		if set == nil || len(set.display) < 2 {
			continue
		}
		findings = append(findings, newFinding(rec, SeverityWarning, CategoryIdentity,
			fmt.Sprintf("RUT %s appears under %d different names", rec.RUT, len(set.display)),
			strings.Join(set.display, " vs ")))
	}
	return findings
}

func newFinding(rec decrees.Decree, severity Severity, category Category, message, detail string) Finding {
	return Finding{
		RecordID: rec.ID,
		Record:   rec,
		Severity: severity,
		Category: category,
		Message:  message,
		Detail:   detail,
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func countWorkingDays(start, end time.Time, isWorkingDay WorkingDayFn) int {
	if isWorkingDay == nil {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isWorkingDay(d.Format(dateLayout)) {
			count++
		}
	}
	return count
}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func actRef(rec *decrees.Decree) string {
	if act := strings.TrimSpace(rec.ActNumber); act != "" {
		return act
	}
	return rec.ID
}
