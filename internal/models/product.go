package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: item sold over the counter (parts, oil, filters)
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"name" validate:"required"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Service: labor offered by the shop (alignment, oil change)
type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"name" validate:"required"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

func (Service) TableName() string { return "services" }
