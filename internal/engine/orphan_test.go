package engine

import (
	"testing"
	"time"

	"centsible/internal/models"
	"centsible/internal/testutil"
)

func TestMatchPeriod(t *testing.T) {
	utc := time.UTC
	start := date(2025, time.July, 21, utc)
	end := PeriodEnd(start, 7, utc)
	periods := []models.BudgetPeriod{
		{Base: models.Base{ID: "p1"}, BudgetID: "b1", StartDate: start, EndDate: end},
	}

	t.Run("timestamp_inside_range_matches", func(t *testing.T) {
		ts := time.Date(2025, time.July, 24, 18, 30, 0, 0, utc)
		got := MatchPeriod(ts, periods, utc)
		if got == nil || got.ID != "p1" {
			t.Errorf("expected p1, got %v", got)
		}
	})

	t.Run("timestamp_outside_all_ranges_matches_nothing", func(t *testing.T) {
		ts := time.Date(2025, time.August, 10, 12, 0, 0, 0, utc)
		if got := MatchPeriod(ts, periods, utc); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("latest_start_wins_when_budget_ranges_overlap", func(t *testing.T) {
		// A mid-period switch leaves the old budget's range covering the
		// same dates as the new budget's first period.
		newStart := date(2025, time.July, 23, utc)
		overlapping := append(periods, models.BudgetPeriod{
			Base: models.Base{ID: "p2"}, BudgetID: "b2",
			StartDate: newStart, EndDate: PeriodEnd(newStart, 7, utc),
		})
		ts := time.Date(2025, time.July, 24, 8, 0, 0, 0, utc)
		got := MatchPeriod(ts, overlapping, utc)
		if got == nil || got.ID != "p2" {
			t.Errorf("expected later period p2, got %v", got)
		}
	})
}

func TestAttachOrphans(t *testing.T) {
	utc := time.UTC

	t.Run("attaches_contained_and_leaves_uncontained", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		e := newTestEngine(t, db)

		budget := testutil.CreateTestBudget(t, db)
		start := date(2025, time.July, 21, utc)
		now := start.AddDate(0, 0, 2)
		period := testutil.CreateTestPeriod(t, db, budget, start, PeriodEnd(start, 7, utc), now)

		inside := testutil.CreateTestExpense(t, db, "42.10", time.Date(2025, time.July, 22, 13, 0, 0, 0, utc), nil)
		outside := testutil.CreateTestExpense(t, db, "9.99", time.Date(2025, time.June, 1, 13, 0, 0, 0, utc), nil)

		attached, err := e.AttachOrphans(now)
		testutil.AssertNoError(t, err)
		if attached != 1 {
			t.Fatalf("expected 1 attachment, got %d", attached)
		}

		var reloaded models.Expense
		if err := db.First(&reloaded, "id = ?", inside.ID).Error; err != nil {
			t.Fatalf("failed to reload expense: %v", err)
		}
		if reloaded.BudgetPeriodID == nil || *reloaded.BudgetPeriodID != period.ID {
			t.Errorf("expected expense attached to %s, got %v", period.ID, reloaded.BudgetPeriodID)
		}

		if err := db.First(&reloaded, "id = ?", outside.ID).Error; err != nil {
			t.Fatalf("failed to reload expense: %v", err)
		}
		if reloaded.BudgetPeriodID != nil {
			t.Error("expense outside all periods must stay orphaned")
		}
	})

	t.Run("rerun_attaches_nothing_further", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		e := newTestEngine(t, db)

		budget := testutil.CreateTestBudget(t, db)
		start := date(2025, time.July, 21, utc)
		now := start.AddDate(0, 0, 2)
		testutil.CreateTestPeriod(t, db, budget, start, PeriodEnd(start, 7, utc), now)
		testutil.CreateTestExpense(t, db, "10.00", now, nil)

		attached, err := e.AttachOrphans(now)
		testutil.AssertNoError(t, err)
		if attached != 1 {
			t.Fatalf("expected 1 attachment, got %d", attached)
		}

		attached, err = e.AttachOrphans(now)
		testutil.AssertNoError(t, err)
		if attached != 0 {
			t.Errorf("expected idempotent rerun, got %d attachments", attached)
		}
	})

	t.Run("no_orphans_is_a_no_op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		e := newTestEngine(t, db)

		attached, err := e.AttachOrphans(time.Now())
		testutil.AssertNoError(t, err)
		if attached != 0 {
			t.Errorf("expected 0 attachments, got %d", attached)
		}
	})
}
