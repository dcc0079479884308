package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the lifecycle state of a budget period. It is always a pure
// function of the period boundaries and the clock; the stored column only
// exists so queries can filter without date arithmetic.
type PeriodStatus string

const (
	PeriodStatusUpcoming  PeriodStatus = "upcoming"
	PeriodStatusActive    PeriodStatus = "active"
	PeriodStatusCompleted PeriodStatus = "completed"
)

// BudgetPeriod is one concrete date window of a budget. StartDate is local
// midnight and EndDate local 23:59:59.999 in the configured timezone, both
// inclusive. TargetAmount is frozen at creation so later budget edits do not
// rewrite history. Actual spend is never stored; it is summed from attached
// expenses on read.
type BudgetPeriod struct {
	Base
	BudgetID     string          `gorm:"type:uuid;not null;uniqueIndex:uidx_period_range,priority:1" json:"budget_id"`
	StartDate    time.Time       `gorm:"not null;uniqueIndex:uidx_period_range,priority:2" json:"start_date"`
	EndDate      time.Time       `gorm:"not null;uniqueIndex:uidx_period_range,priority:3" json:"end_date"`
	TargetAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"target_amount"`
	Status       PeriodStatus    `gorm:"not null;index" json:"status"`

	Budget   *Budget   `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Expenses []Expense `gorm:"foreignKey:BudgetPeriodID" json:"expenses,omitempty"`
}
