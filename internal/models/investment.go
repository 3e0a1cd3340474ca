package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment: money spent by the shop (tools, rent, parts bought in bulk).
// Feeds the expense side of the reports.
type Investment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"size:255;not null" json:"description" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

func (Investment) TableName() string { return "investments" }
