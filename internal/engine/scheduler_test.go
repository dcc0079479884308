package engine

import (
	"testing"
	"time"

	"centsible/internal/models"
	"centsible/internal/testutil"
)

func TestSchedulerLifecycle(t *testing.T) {
	t.Run("start_and_stop_are_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		s := NewScheduler(newTestEngine(t, db), time.Hour)

		s.Start()
		s.Start() // no-op
		s.Stop()
		s.Stop() // no-op
	})

	t.Run("restart_after_stop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		s := NewScheduler(newTestEngine(t, db), time.Hour)

		s.Start()
		s.Stop()
		s.Start()
		s.Stop()
	})

	t.Run("first_pass_runs_immediately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		// An active budget with no period: the startup pass must heal it
		// without waiting for the first tick.
		budget := testutil.CreateTestBudget(t, db)
		setBudgetFlags(t, db, budget.ID, map[string]interface{}{"is_active": true})

		s := NewScheduler(newTestEngine(t, db), time.Hour)
		s.Start()
		defer s.Stop()

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			var count int64
			db.Model(&models.BudgetPeriod{}).Where("budget_id = ?", budget.ID).Count(&count)
			if count == 1 {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatal("expected the startup pass to create a period")
	})
}
