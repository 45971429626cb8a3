package analytics

import (
	"math"
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func makeLead(status domain.Status, created time.Time) domain.Lead {
	return domain.Lead{
		ID:        uuid.New(),
		Status:    status,
		IsActive:  !domain.IsTerminal(status),
		CreatedAt: created,
	}
}

func TestByStatusPercentagesSumToHundred(t *testing.T) {
	created := time.Now()
	leads := []domain.Lead{
		makeLead(domain.StatusNew, created),
		makeLead(domain.StatusNew, created),
		makeLead(domain.StatusDNR1, created),
		makeLead(domain.StatusConverted, created),
		makeLead(domain.StatusCallBack, created),
		makeLead(domain.StatusCallBack, created),
		makeLead(domain.StatusCallBack, created),
	}

	rows := ByStatus(leads)

	sum := 0.0
	for _, row := range rows {
		sum += row.Percentage
	}
	if math.Abs(sum-100) > 0.001 {
		t.Fatalf("percentages should sum to 100, got %v", sum)
	}

	// Sorted descending by count.
	for i := 1; i < len(rows); i++ {
		if rows[i].Count > rows[i-1].Count {
			t.Fatalf("rows not sorted by count: %v", rows)
		}
	}
	if rows[0].Status != string(domain.StatusCallBack) || rows[0].Count != 3 {
		t.Fatalf("expected Call Back x3 first, got %+v", rows[0])
	}
}

func TestByStatusEmptyInput(t *testing.T) {
	rows := ByStatus(nil)
	if len(rows) != 0 {
		t.Fatalf("empty input should produce no rows, got %v", rows)
	}
}

func TestByPipelineMissingLabelBecomesUnknown(t *testing.T) {
	admissions := "Admissions"
	leads := []domain.Lead{
		{Pipeline: &admissions},
		{Pipeline: nil},
		{Pipeline: nil},
	}

	rows := ByPipeline(leads)
	if len(rows) != 2 {
		t.Fatalf("expected 2 pipelines, got %d", len(rows))
	}
	if rows[0].Pipeline != "Unknown" || rows[0].Count != 2 {
		t.Fatalf("expected Unknown x2 first, got %+v", rows[0])
	}
	if math.Abs(rows[1].Percentage-100.0/3) > 0.001 {
		t.Fatalf("expected one third share, got %v", rows[1].Percentage)
	}
}

func TestByAgentSplitsUnassigned(t *testing.T) {
	boeID := uuid.New()
	name := "Priya"
	nameless := uuid.New()

	leads := []domain.Lead{
		{AssignedBOEID: &boeID, AssignedBOEName: &name},
		{AssignedBOEID: &boeID, AssignedBOEName: &name},
		{AssignedBOEID: &nameless},
		{},
		{},
	}

	breakdown := ByAgent(leads)
	if breakdown.AssignedCount != 3 || breakdown.UnassignedCount != 2 {
		t.Fatalf("expected 3 assigned / 2 unassigned, got %d / %d",
			breakdown.AssignedCount, breakdown.UnassignedCount)
	}
	if breakdown.Agents[0].BOEName != "Priya" || breakdown.Agents[0].Count != 2 {
		t.Fatalf("expected Priya x2 first, got %+v", breakdown.Agents[0])
	}
	if breakdown.Agents[1].BOEName != "BOE #"+nameless.String() {
		t.Fatalf("expected synthesized agent label, got %q", breakdown.Agents[1].BOEName)
	}
}

func TestByRetrySortsNumerically(t *testing.T) {
	leads := []domain.Lead{
		{RetryCount: 10},
		{RetryCount: 2},
		{RetryCount: 2},
		{RetryCount: 0},
	}

	rows := ByRetry(leads)
	want := []int{0, 2, 10}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, retries := range want {
		if rows[i].Retries != retries {
			t.Fatalf("row %d: expected retries %d, got %d", i, retries, rows[i].Retries)
		}
	}
	if rows[1].Count != 2 {
		t.Fatalf("expected 2 leads at retry 2, got %d", rows[1].Count)
	}
}

func TestByDayDerivedFigures(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 0, 1, 0, 0, time.UTC)

	leads := []domain.Lead{
		makeLead(domain.StatusNew, day1),
		makeLead(domain.StatusNew, day1),
		makeLead(domain.StatusNew, day1),
		makeLead(domain.StatusNew, day2),
	}

	breakdown := ByDay(leads)
	if len(breakdown.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(breakdown.Days))
	}
	if breakdown.Days[0].Date != "2026-08-01" || breakdown.Days[0].Count != 3 {
		t.Fatalf("expected 2026-08-01 x3 first, got %+v", breakdown.Days[0])
	}
	if breakdown.AvgPerDay != 2 {
		t.Fatalf("expected avg 2/day, got %v", breakdown.AvgPerDay)
	}
	if breakdown.PeakDay != 3 {
		t.Fatalf("expected peak 3, got %v", breakdown.PeakDay)
	}
}

func TestByDayEmptyInput(t *testing.T) {
	breakdown := ByDay(nil)
	if breakdown.AvgPerDay != 0 || breakdown.PeakDay != 0 || len(breakdown.Days) != 0 {
		t.Fatalf("empty input should produce zeros, got %+v", breakdown)
	}
}

func TestSplitFollowUpsBoundary(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	leads := []domain.Lead{
		{NextFollowUpAt: &past},
		{NextFollowUpAt: &now},
		{NextFollowUpAt: &future},
		{},
	}

	split := SplitFollowUps(leads, now)
	if split.Overdue != 2 {
		t.Fatalf("a follow-up due exactly now is overdue: expected 2, got %d", split.Overdue)
	}
	if split.Upcoming != 1 {
		t.Fatalf("expected 1 upcoming, got %d", split.Upcoming)
	}
}

func TestInactiveByStatusRestrictsToTerminated(t *testing.T) {
	created := time.Now()
	leads := []domain.Lead{
		makeLead(domain.StatusNew, created),
		makeLead(domain.StatusDenied, created),
		makeLead(domain.StatusDenied, created),
		makeLead(domain.StatusConverted, created),
	}

	rows := InactiveByStatus(leads)
	if len(rows) != 2 {
		t.Fatalf("expected 2 terminal statuses, got %d", len(rows))
	}
	if rows[0].Status != string(domain.StatusDenied) || rows[0].Count != 2 {
		t.Fatalf("expected Denied x2 first, got %+v", rows[0])
	}
	// Percentages are relative to the inactive subset.
	if math.Abs(rows[0].Percentage-100.0*2/3) > 0.001 {
		t.Fatalf("expected two-thirds share, got %v", rows[0].Percentage)
	}
}
