package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// reconcile triggers an engine pass through the operator endpoint.
func (app *testApp) reconcile(t *testing.T) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/internal/reconcile", nil)
	req.Header.Set("X-API-Key", "test-internal-key")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconcile failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetEngineFlow(t *testing.T) {
	t.Run("activate_attach_and_track_spend", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "owner@example.com", "password123")

		// An expense recorded before any budget exists is an orphan.
		rec := app.request("POST", "/api/v1/expenses",
			`{"amount":"78.25","description":"groceries run","category":"groceries"}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
		}
		orphan := parseJSON(t, rec)["expense"].(map[string]interface{})
		if orphan["budget_period_id"] != nil {
			t.Fatal("expected orphan expense before activation")
		}

		// Create and activate a weekly budget.
		rec = app.request("POST", "/api/v1/budgets",
			`{"name":"Groceries","target_amount":"500.00","start_weekday":1,"duration_days":7}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create budget failed: %d %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		budgetID := budget["id"].(string)

		rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/activate", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("activate failed: %d %s", rec.Code, rec.Body.String())
		}
		period := parseJSON(t, rec)["period"].(map[string]interface{})
		if period["status"] != "active" {
			t.Errorf("expected active period, got %v", period["status"])
		}

		// Activation attaches the preexisting orphan.
		rec = app.request("GET", "/api/v1/expenses/"+orphan["id"].(string), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get expense failed: %d", rec.Code)
		}
		attached := parseJSON(t, rec)["expense"].(map[string]interface{})
		if attached["budget_period_id"] == nil {
			t.Fatal("expected orphan attached after activation")
		}

		// A new expense lands in the active period directly.
		rec = app.request("POST", "/api/v1/expenses",
			`{"amount":"21.75","description":"more groceries","category":"groceries"}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d", rec.Code)
		}

		// Current period reports spend derived from both expenses.
		rec = app.request("GET", "/api/v1/periods/current", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("current period failed: %d %s", rec.Code, rec.Body.String())
		}
		progress := parseJSON(t, rec)
		if progress["spent"] != "100" {
			t.Errorf("expected spent 100, got %v", progress["spent"])
		}
		if progress["remaining"] != "400" {
			t.Errorf("expected remaining 400, got %v", progress["remaining"])
		}

		// A reconciliation pass changes nothing while the period is current.
		app.reconcile(t)
		rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/periods", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("list periods failed: %d", rec.Code)
		}
		periods := parseJSON(t, rec)
		if periods["total_items"] != float64(1) {
			t.Errorf("expected 1 period after idempotent pass, got %v", periods["total_items"])
		}
	})

	t.Run("csv_export", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "owner@example.com", "password123")

		rec := app.request("POST", "/api/v1/expenses",
			`{"amount":"12.50","description":"coffee","category":"dining"}`, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d", rec.Code)
		}

		rec = app.request("GET", "/api/v1/expenses/export", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("export failed: %d %s", rec.Code, rec.Body.String())
		}
		body := rec.Body.String()
		if !strings.HasPrefix(body, "date,amount,category") {
			t.Errorf("unexpected CSV header: %s", body)
		}
		if !strings.Contains(body, "12.50") {
			t.Error("expected expense row in CSV")
		}
	})

	t.Run("vacation_mode_toggle", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "owner@example.com", "password123")

		rec := app.request("POST", "/api/v1/budgets",
			`{"name":"Groceries","target_amount":"500.00","start_weekday":1,"duration_days":7}`, token)
		budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

		rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/activate", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("activate failed: %d", rec.Code)
		}

		rec = app.request("POST", "/api/v1/budgets/"+budgetID+"/vacation", `{"enabled":true}`, token)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("vacation toggle failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", token)
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["vacation_mode"] != true {
			t.Error("expected vacation mode on")
		}

		// Engine passes are still safe to run with vacation mode on.
		app.reconcile(t)
	})

	t.Run("schedule_upcoming_budget", func(t *testing.T) {
		app := setupApp(t)
		token, _, _ := app.registerUser(t, "owner@example.com", "password123")

		rec := app.request("POST", "/api/v1/budgets",
			`{"name":"Groceries","target_amount":"500.00","start_weekday":1,"duration_days":7}`, token)
		firstID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)
		rec = app.request("POST", "/api/v1/budgets",
			`{"name":"Lean Month","target_amount":"300.00","start_weekday":1,"duration_days":7}`, token)
		secondID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

		rec = app.request("POST", "/api/v1/budgets/"+firstID+"/activate", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("activate failed: %d", rec.Code)
		}
		rec = app.request("POST", "/api/v1/budgets/"+secondID+"/schedule", "", token)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("schedule failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/budgets/"+secondID, "", token)
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["is_upcoming"] != true {
			t.Error("expected second budget marked upcoming")
		}
		if budget["is_active"] != false {
			t.Error("expected second budget not active yet")
		}
	})

	t.Run("reconcile_requires_api_key", func(t *testing.T) {
		app := setupApp(t)

		req := httptest.NewRequest("POST", "/api/v1/internal/reconcile", nil)
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without API key, got %d", rec.Code)
		}
	})
}
