package models

import "github.com/shopspring/decimal"

// Budget represents a recurring spending rule: a target amount respent every
// DurationDays days, with each window starting on StartWeekday.
//
// At most one budget is active and at most one is upcoming at any time; the
// period engine enforces and relies on both invariants.
type Budget struct {
	Base
	Name         string          `gorm:"not null" json:"name"`
	TargetAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"target_amount"`
	StartWeekday int             `gorm:"not null" json:"start_weekday"` // 0 = Sunday
	DurationDays int             `gorm:"not null" json:"duration_days"` // 7..28
	IsActive     bool            `gorm:"default:false;index" json:"is_active"`
	IsUpcoming   bool            `gorm:"default:false;index" json:"is_upcoming"`
	VacationMode bool            `gorm:"default:false" json:"vacation_mode"`

	Periods []BudgetPeriod `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"periods,omitempty"`
}
