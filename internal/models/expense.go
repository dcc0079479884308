package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single recorded purchase. BudgetPeriodID is nil for orphans:
// expenses recorded while no period covered their date. The engine's orphan
// reconciler is the only writer of that column besides expense creation.
type Expense struct {
	Base
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description    string          `json:"description"`
	Category       string          `gorm:"index" json:"category"`
	OccurredAt     time.Time       `gorm:"not null;index" json:"occurred_at"`
	BudgetPeriodID *string         `gorm:"type:uuid;index" json:"budget_period_id,omitempty"`
	PlaceID        *string         `gorm:"type:uuid" json:"place_id,omitempty"`
	ReceiptPath    string          `json:"-"`

	BudgetPeriod *BudgetPeriod `gorm:"foreignKey:BudgetPeriodID;constraint:OnDelete:SET NULL" json:"budget_period,omitempty"`
	Place        *Place        `gorm:"foreignKey:PlaceID" json:"place,omitempty"`
}
