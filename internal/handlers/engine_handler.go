package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"centsible/internal/services"
)

// EngineHandler exposes the reconciliation trigger for operators.
type EngineHandler struct {
	reconciler services.Reconciler
}

// NewEngineHandler creates a new EngineHandler.
func NewEngineHandler(reconciler services.Reconciler) *EngineHandler {
	return &EngineHandler{reconciler: reconciler}
}

// Reconcile handles an on-demand engine pass.
// @Summary     Run a reconciliation pass
// @Description Run the period engine once: reconcile statuses, perform due transitions, attach orphans. Returns skipped=true if a pass was already running.
// @Tags        internal
// @Produce     json
// @Param       X-API-Key header string true "Internal API key"
// @Success     200 {object} map[string]bool "Pass result"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Engine error"
// @Router      /internal/reconcile [post]
func (h *EngineHandler) Reconcile(c *gin.Context) {
	ran, err := h.reconciler.RunOnce(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ran": ran, "skipped": !ran})
}
