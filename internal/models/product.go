package models

import "github.com/shopspring/decimal"

// Product represents an item tracked by the inventory.
type Product struct {
	ID       uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string          `json:"name" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	Quantity int             `json:"quantity" gorm:"not null;default:0"`
	Category string          `json:"category" gorm:"not null"`
}
