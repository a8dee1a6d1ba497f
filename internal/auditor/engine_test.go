package auditor

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/decretos-hr/decretos/internal/decrees"
	"github.com/decretos-hr/decretos/internal/employees"
)

// weekdaysOnly is the oracle used across these tests: Monday through Friday
// are working days, nothing is a holiday.
func weekdaysOnly(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func holidayDecree(id, rut, name, act, start, end string, days float64) decrees.Decree {
	return decrees.Decree{
		ID:          id,
		ActNumber:   act,
		RUT:         rut,
		Name:        name,
		Kind:        decrees.KindLegalHoliday,
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		FirstPeriod: &decrees.PeriodBalance{Before: 15, After: 15 - days},
	}
}

func permitDecree(id, rut, name, act, start string, days, entitled float64) decrees.Decree {
	return decrees.Decree{
		ID:           id,
		ActNumber:    act,
		RUT:          rut,
		Name:         name,
		Kind:         decrees.KindAdministrativePermit,
		StartDate:    start,
		Days:         days,
		DaysEntitled: &entitled,
	}
}

func byCategory(findings []Finding, cat Category) []Finding {
	out := make([]Finding, 0)
	for _, f := range findings {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}

func cleanDataset() ([]decrees.Decree, []employees.Employee) {
	records := []decrees.Decree{
		holidayDecree("d1", "11111111-1", "Juan Pérez", "2024/101", "2024-03-04", "2024-03-08", 5),
		permitDecree("d2", "22222222-2", "María Soto", "2024/102", "2024-04-01", 1, 6),
	}
	roster := []employees.Employee{
		{ID: 1, RUT: "11111111-1", Name: "Juan Pérez"},
		{ID: 2, RUT: "22222222-2", Name: "María Soto"},
	}
	return records, roster
}

func TestAudit_CleanDatasetProducesNoFindings(t *testing.T) {
	records, roster := cleanDataset()
	findings := Audit(records, roster, weekdaysOnly)
	if len(findings) != 0 {
		t.Fatalf("expected no findings for clean dataset, got %+v", findings)
	}
}

func TestAudit_Deterministic(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-08", 3),
		holidayDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-03-06", "2024-03-12", 5),
		permitDecree("d3", "2-7", "Pedro Díaz", "", "2024-03-04", 3, 2),
	}
	roster := []employees.Employee{{ID: 1, RUT: "1-9", Name: "Ana Rojas"}}

	first := Audit(records, roster, weekdaysOnly)
	second := Audit(records, roster, weekdaysOnly)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output across runs\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected the defective dataset to produce findings")
	}
}

func TestAudit_DoesNotMutateInputs(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-01", 3),
		permitDecree("d2", "2-7", "Pedro Díaz", "2024/2", "2024-03-04", 3, 2),
	}
	roster := []employees.Employee{{ID: 1, RUT: "1-9", Name: "Ana Rojas"}}

	recordsCopy := make([]decrees.Decree, len(records))
	copy(recordsCopy, records)
	rosterCopy := make([]employees.Employee, len(roster))
	copy(rosterCopy, roster)

	Audit(records, roster, weekdaysOnly)

	if !reflect.DeepEqual(records, recordsCopy) {
		t.Fatal("records were mutated by Audit")
	}
	if !reflect.DeepEqual(roster, rosterCopy) {
		t.Fatal("roster was mutated by Audit")
	}
}

func TestAudit_OverlapSymmetry(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-08", 5),
		holidayDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-03-06", "2024-03-12", 5),
	}

	overlaps := byCategory(Audit(records, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 2 {
		t.Fatalf("expected exactly two overlap findings, got %d: %+v", len(overlaps), overlaps)
	}
	if overlaps[0].RecordID != "d1" || overlaps[1].RecordID != "d2" {
		t.Fatalf("expected one finding per record, got %q and %q", overlaps[0].RecordID, overlaps[1].RecordID)
	}
	if !strings.Contains(overlaps[0].Message, "2024/2") {
		t.Errorf("finding on d1 should reference d2's act, got %q", overlaps[0].Message)
	}
	if !strings.Contains(overlaps[1].Message, "2024/1") {
		t.Errorf("finding on d2 should reference d1's act, got %q", overlaps[1].Message)
	}
	for _, f := range overlaps {
		if f.Severity != SeverityError {
			t.Errorf("overlap findings must be errors, got %q", f.Severity)
		}
	}
}

func TestAudit_SharedBoundaryDayOverlaps(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-01-01", "2024-01-05", 5),
		holidayDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-01-05", "2024-01-10", 4),
	}
	overlaps := byCategory(Audit(records, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 2 {
		t.Fatalf("ranges sharing a boundary day must overlap, got %d findings", len(overlaps))
	}
}

func TestAudit_AdjacentRangesDoNotOverlap(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-01-01", "2024-01-05", 5),
		holidayDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-01-06", "2024-01-10", 3),
	}
	overlaps := byCategory(Audit(records, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 0 {
		t.Fatalf("adjacent ranges must not overlap, got %+v", overlaps)
	}
}

func TestAudit_DayCountDiscrepancy(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-08", 3),
	}
	dates := byCategory(Audit(records, nil, weekdaysOnly), CategoryDates)
	if len(dates) != 1 {
		t.Fatalf("expected exactly one dates finding, got %d: %+v", len(dates), dates)
	}
	f := dates[0]
	if f.Severity != SeverityError {
		t.Errorf("expected error severity, got %q", f.Severity)
	}
	if !strings.Contains(f.Message, "requested 3") || !strings.Contains(f.Message, "5 working days") {
		t.Errorf("unexpected message: %q", f.Message)
	}
	if !strings.Contains(f.Detail, "2024-03-04") || !strings.Contains(f.Detail, "2024-03-08") {
		t.Errorf("detail should include the raw range, got %q", f.Detail)
	}
}

func TestAudit_SameDayRangeCountsOneWorkingDay(t *testing.T) {
	// Monday, stated as 1 day: consistent.
	ok := holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-04", 1)
	if got := byCategory(Audit([]decrees.Decree{ok}, nil, weekdaysOnly), CategoryDates); len(got) != 0 {
		t.Fatalf("same-day weekday range stated as 1 should be consistent, got %+v", got)
	}
	// Saturday, stated as 1 day: the range holds 0 working days, so the
	// discrepancy is reported.
	sat := holidayDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-03-02", "2024-03-02", 1)
	got := byCategory(Audit([]decrees.Decree{sat}, nil, weekdaysOnly), CategoryDates)
	if len(got) != 1 || !strings.Contains(got[0].Message, "0 working days") {
		t.Fatalf("same-day weekend range stated as 1 should be flagged, got %+v", got)
	}
}

func TestAudit_InvertedRangeSkipsArithmetic(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-08", "2024-03-04", 5),
	}
	dates := byCategory(Audit(records, nil, weekdaysOnly), CategoryDates)
	if len(dates) != 1 {
		t.Fatalf("expected exactly one dates finding for the inverted range, got %+v", dates)
	}
	if !strings.Contains(dates[0].Message, "precedes") {
		t.Errorf("unexpected message: %q", dates[0].Message)
	}
}

func TestAudit_PermitExceedingEntitlement(t *testing.T) {
	records := []decrees.Decree{
		permitDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", 3, 2),
	}
	records[0].EndDate = "2024-03-06"

	findings := Audit(records, nil, weekdaysOnly)
	balance := byCategory(findings, CategoryBalance)
	if len(balance) != 1 {
		t.Fatalf("expected exactly one balance finding, got %d: %+v", len(balance), balance)
	}
	if !strings.Contains(balance[0].Message, "exceeds available administrative-permit days") {
		t.Errorf("unexpected message: %q", balance[0].Message)
	}
	if len(findings) != 1 {
		t.Fatalf("entitlement overrun must not trigger other categories, got %+v", findings)
	}
}

func TestAudit_NegativeHolidayBalance(t *testing.T) {
	rec := holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-08", 5)
	rec.FirstPeriod = &decrees.PeriodBalance{Before: 3, After: -2}
	rec.SecondPeriod = nil

	balance := byCategory(Audit([]decrees.Decree{rec}, nil, weekdaysOnly), CategoryBalance)
	if len(balance) != 1 {
		t.Fatalf("expected exactly one balance finding, got %+v", balance)
	}
	if !strings.Contains(balance[0].Detail, "first period balance -2") {
		t.Errorf("detail should show both sub-period balances, got %q", balance[0].Detail)
	}
	if !strings.Contains(balance[0].Detail, "second period balance 0") {
		t.Errorf("missing second sub-period default, got %q", balance[0].Detail)
	}
}

func TestAudit_MultiDayPermitWithoutEndDate(t *testing.T) {
	records := []decrees.Decree{
		permitDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", 2, 6),
		permitDecree("d2", "2-7", "Pedro Díaz", "2024/2", "2024-03-04", 1, 6),
	}
	dates := byCategory(Audit(records, nil, weekdaysOnly), CategoryDates)
	if len(dates) != 1 {
		t.Fatalf("expected one warning for the multi-day permit only, got %+v", dates)
	}
	if dates[0].RecordID != "d1" || dates[0].Severity != SeverityWarning {
		t.Fatalf("unexpected finding: %+v", dates[0])
	}
}

func TestAudit_IdentityDriftFlagsEveryRecord(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Juan Pérez", "2024/1", "2024-01-01", "2024-01-05", 5),
		holidayDecree("d2", "1-9", "Juan Perez Soto", "2024/2", "2024-02-05", "2024-02-09", 5),
	}
	identity := byCategory(Audit(records, nil, weekdaysOnly), CategoryIdentity)
	if len(identity) != 2 {
		t.Fatalf("expected one identity warning per record, got %d: %+v", len(identity), identity)
	}
	for _, f := range identity {
		if f.Severity != SeverityWarning {
			t.Errorf("identity drift must be a warning, got %q", f.Severity)
		}
		if !strings.Contains(f.Detail, "Juan Pérez vs Juan Perez Soto") {
			t.Errorf("detail should list all distinct names, got %q", f.Detail)
		}
	}
}

func TestAudit_CaseInsensitiveNamesAreNotDrift(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "1-9", "Juan Pérez", "2024/1", "2024-01-01", "2024-01-05", 5),
		holidayDecree("d2", "1-9", "JUAN PÉREZ ", "2024/2", "2024-02-05", "2024-02-09", 5),
	}
	identity := byCategory(Audit(records, nil, weekdaysOnly), CategoryIdentity)
	if len(identity) != 0 {
		t.Fatalf("case and whitespace variants are the same name, got %+v", identity)
	}
}

func TestAudit_MissingFields(t *testing.T) {
	records := []decrees.Decree{
		{ID: "d1", Kind: decrees.KindAdministrativePermit, Days: 1},
	}
	findings := Audit(records, nil, weekdaysOnly)

	missing := byCategory(findings, CategoryMissingInfo)
	if len(missing) != 3 {
		t.Fatalf("expected act, RUT and name findings, got %+v", missing)
	}
	dates := byCategory(findings, CategoryDates)
	if len(dates) != 1 || !strings.Contains(dates[0].Message, "missing start date") {
		t.Fatalf("expected a missing start date finding, got %+v", dates)
	}

	// An empty RUT already carries the missing-info error; the roster
	// cross-reference stays quiet rather than warning about "".
	roster := []employees.Employee{{ID: 1, RUT: "11111111-1", Name: "Juan Pérez"}}
	withRoster := Audit(records, roster, weekdaysOnly)
	if got := byCategory(withRoster, CategoryIdentity); len(got) != 0 {
		t.Fatalf("empty RUT must not produce a roster warning, got %+v", got)
	}
}

func TestAudit_UnparsableStartDateTreatedAsMissing(t *testing.T) {
	rec := holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "04/03/2024", "2024-03-08", 5)
	dates := byCategory(Audit([]decrees.Decree{rec}, nil, weekdaysOnly), CategoryDates)
	if len(dates) != 1 || !strings.Contains(dates[0].Message, "missing start date") {
		t.Fatalf("unparsable start dates must surface as missing start date, got %+v", dates)
	}
}

func TestAudit_UnparsableEndDate(t *testing.T) {
	rec := holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "03/08/2024", 5)
	dates := byCategory(Audit([]decrees.Decree{rec}, nil, weekdaysOnly), CategoryDates)
	if len(dates) != 1 || !strings.Contains(dates[0].Message, "invalid end date") {
		t.Fatalf("unparsable end dates must surface as invalid end date, got %+v", dates)
	}
	if !strings.Contains(dates[0].Detail, "03/08/2024") {
		t.Fatalf("detail should quote the rejected value, got %q", dates[0].Detail)
	}

	// In the overlap pass the bad end collapses the range to the start day.
	near := permitDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-03-04", 1, 6)
	overlaps := byCategory(Audit([]decrees.Decree{rec, near}, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 2 {
		t.Fatalf("collapsed range must still overlap on the start day, got %+v", overlaps)
	}
	for _, f := range overlaps {
		if !strings.Contains(f.Detail, "[2024-03-04, 2024-03-04]") {
			t.Fatalf("expected the collapsed single-day range in detail, got %q", f.Detail)
		}
	}

	// Days inside the range the bad end would have described do not overlap.
	away := permitDecree("d3", "1-9", "Ana Rojas", "2024/3", "2024-03-06", 1, 6)
	overlaps = byCategory(Audit([]decrees.Decree{rec, away}, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 0 {
		t.Fatalf("collapsed range must not cover later days, got %+v", overlaps)
	}
}

func TestAudit_EmptyRosterSkipsCrossReference(t *testing.T) {
	records := []decrees.Decree{
		holidayDecree("d1", "99999999-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-08", 3),
	}
	roster := []employees.Employee{{ID: 1, RUT: "11111111-1", Name: "Otro Nombre"}}

	withRoster := Audit(records, roster, weekdaysOnly)
	if got := byCategory(withRoster, CategoryIdentity); len(got) != 1 {
		t.Fatalf("expected a roster warning, got %+v", got)
	}

	withoutRoster := Audit(records, nil, weekdaysOnly)
	if got := byCategory(withoutRoster, CategoryIdentity); len(got) != 0 {
		t.Fatalf("empty roster must skip the cross-reference, got %+v", got)
	}
	if len(byCategory(withRoster, CategoryDates)) != len(byCategory(withoutRoster, CategoryDates)) {
		t.Fatal("other findings must be unaffected by roster presence")
	}
}

func TestAudit_SingleDayFallbackRangeInOverlap(t *testing.T) {
	// d2 has no end date: its effective range collapses to the start day,
	// regardless of the stated day count.
	d1 := holidayDecree("d1", "1-9", "Ana Rojas", "2024/1", "2024-03-04", "2024-03-08", 5)
	d2 := permitDecree("d2", "1-9", "Ana Rojas", "2024/2", "2024-03-06", 1, 6)
	overlaps := byCategory(Audit([]decrees.Decree{d1, d2}, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 2 {
		t.Fatalf("expected the collapsed range to overlap, got %+v", overlaps)
	}

	d3 := permitDecree("d3", "1-9", "Ana Rojas", "2024/3", "2024-03-09", 1, 6)
	overlaps = byCategory(Audit([]decrees.Decree{d1, d3}, nil, weekdaysOnly), CategoryOverlap)
	if len(overlaps) != 0 {
		t.Fatalf("start day outside the other range must not overlap, got %+v", overlaps)
	}
}
