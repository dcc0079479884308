// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("weekday", validateWeekday)
		_ = v.RegisterValidation("period_days", validatePeriodDays)
		_ = v.RegisterValidation("timezone", validateTimezone)
	}
}

// validateWeekday accepts 0 (Sunday) through 6 (Saturday).
func validateWeekday(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= 0 && d <= 6
}

// validatePeriodDays accepts recurrence lengths between one and four weeks.
func validatePeriodDays(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= 7 && d <= 28
}

// validateTimezone accepts any IANA zone name loadable on this host.
func validateTimezone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}
