package models

import "time"

type Client struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name" validate:"required"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Client) TableName() string { return "clients" }
