package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem: current state of a part kept in stock.
// CostPrice only moves upward, through reconciliation.
type StockItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:150;not null" json:"name" validate:"required"`
	Description     string          `gorm:"size:500" json:"description"`
	CostPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost_price"`
	ProfitMarginPct decimal.Decimal `gorm:"column:profit_margin_pct;type:numeric(6,2);not null;default:0" json:"profit_margin_pct"`
	Quantity        int             `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	PhotoURL        string          `gorm:"size:500" json:"photo_url"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (StockItem) TableName() string { return "stock_items" }

// SalePrice = cost * (1 + margin/100)
func (s StockItem) SalePrice() decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(s.ProfitMarginPct.Div(decimal.NewFromInt(100)))
	return s.CostPrice.Mul(factor).Round(2)
}

// StockHistoryEntry: one delivery (or the initial registration) of a stock item.
// Append-only, never updated.
type StockHistoryEntry struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StockItemID uint            `gorm:"index;not null" json:"stock_item_id" validate:"required"`
	Name        string          `gorm:"size:150;not null" json:"name" validate:"required"`
	Description string          `gorm:"size:500" json:"description"`
	CostPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost_price"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"gte=0"`
	EntryDate   time.Time       `gorm:"index;not null" json:"entry_date"`
}

func (StockHistoryEntry) TableName() string { return "stock_history" }
