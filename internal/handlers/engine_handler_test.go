package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
)

type mockReconciler struct {
	runOnceFn func(now time.Time) (bool, error)
}

func (m *mockReconciler) RunOnce(now time.Time) (bool, error) {
	if m.runOnceFn != nil {
		return m.runOnceFn(now)
	}
	return true, nil
}

func setupEngineRouter(handler *EngineHandler) *gin.Engine {
	r := gin.New()
	r.POST("/internal/reconcile", handler.Reconcile)
	return r
}

func TestEngineHandler_Reconcile(t *testing.T) {
	t.Run("returns 200 when pass runs", func(t *testing.T) {
		handler := NewEngineHandler(&mockReconciler{})
		r := setupEngineRouter(handler)

		rec := doRequest(r, "POST", "/internal/reconcile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["ran"] != true || result["skipped"] != false {
			t.Errorf("expected ran=true skipped=false, got %v", result)
		}
	})

	t.Run("returns skipped when pass in flight", func(t *testing.T) {
		handler := NewEngineHandler(&mockReconciler{
			runOnceFn: func(_ time.Time) (bool, error) { return false, nil },
		})
		r := setupEngineRouter(handler)

		rec := doRequest(r, "POST", "/internal/reconcile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["skipped"] != true {
			t.Errorf("expected skipped=true, got %v", result)
		}
	})

	t.Run("returns 500 on invariant violation", func(t *testing.T) {
		handler := NewEngineHandler(&mockReconciler{
			runOnceFn: func(_ time.Time) (bool, error) { return true, apperrors.ErrStateInvariant },
		})
		r := setupEngineRouter(handler)

		rec := doRequest(r, "POST", "/internal/reconcile", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "STATE_INVARIANT")
	})
}
