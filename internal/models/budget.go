package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	BudgetStatusPending BudgetStatus = "pending"
	BudgetStatusClosed  BudgetStatus = "closed"
)

type LineItemType string

const (
	LineItemProduct LineItemType = "product"
	LineItemService LineItemType = "service"
)

// LineItem snapshots name and price of the product/service when it was added.
type LineItem struct {
	Type  LineItemType    `json:"type"`
	RefID uint            `json:"ref_id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItems is stored as a JSON column, order preserved.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LineItems) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("line_items: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = LineItems{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Total sums item prices; a missing price counts as zero.
func (l LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l {
		total = total.Add(it.Price)
	}
	return total
}

// Budget (orçamento): quote handed to a client. pending -> closed, never back.
type Budget struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ClientID  uint            `gorm:"index;not null" json:"client_id" validate:"required"`
	Client    *Client         `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	LineItems LineItems       `gorm:"column:line_items;type:jsonb;not null" json:"line_items" validate:"min=1"`
	Status    BudgetStatus    `gorm:"size:20;index;not null;default:pending" json:"status" validate:"oneof=pending closed"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (Budget) TableName() string { return "budgets" }
