package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/services"
)

// SettingsHandler handles runtime settings requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// TimezoneRequest represents the request payload for setting the timezone.
type TimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required,timezone"`
}

// GetTimezone handles reading the configured timezone.
// @Summary     Get the timezone
// @Description Get the IANA timezone used for all period calendar math
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} TimezoneRequest "Current timezone"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/timezone [get]
func (h *SettingsHandler) GetTimezone(c *gin.Context) {
	name, err := h.settingsService.GetTimezone()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timezone": name})
}

// SetTimezone handles changing the configured timezone.
// @Summary     Set the timezone
// @Description Set the IANA timezone. Existing period dates are not rewritten; the new zone applies from the next engine pass.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TimezoneRequest true "Timezone name"
// @Success     200 {object} TimezoneRequest "Timezone updated"
// @Failure     400 {object} ErrorResponse "Invalid timezone"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/timezone [put]
func (h *SettingsHandler) SetTimezone(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TimezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.settingsService.SetTimezone(req.Timezone); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_TIMEZONE", "setting", "timezone", c.ClientIP(),
		map[string]interface{}{"timezone": req.Timezone})

	c.JSON(http.StatusOK, gin.H{"timezone": req.Timezone})
}
