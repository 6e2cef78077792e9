package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable bakery item with tracked stock.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockMovement is an immutable audit entry for every stock change.
// Kind: "sale" | "void-restore" | "adjustment"
// Cancellations never rewrite history — a void creates an inverse entry.
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"product_id"`
	Kind        string     `gorm:"type:varchar(20);not null" json:"kind"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	StockBefore int        `gorm:"not null" json:"stock_before"`
	StockAfter  int        `gorm:"not null" json:"stock_after"`
	Reason      string     `gorm:"not null" json:"reason"`
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"reference_id"`
	CreatedAt   time.Time  `json:"created_at"`
}
