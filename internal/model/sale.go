package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is one completed point-of-sale transaction. CashRegisterID is nil for
// channels that do not reconcile (digital-menu); otherwise it references the
// register that was open when the sale was recorded.
// Status: "completed" | "voided"
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OperatorID     uuid.UUID       `gorm:"type:uuid;not null" json:"operator_id"`
	Channel        string          `gorm:"type:varchar(20);not null" json:"channel"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status         string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	SoldAt         time.Time       `gorm:"index" json:"sold_at"`
	CashRegisterID *uuid.UUID      `gorm:"type:uuid;index" json:"cash_register_id"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// SaleItem is one product line within a Sale. Recording a sale deducts
// Quantity from the product's stock; voiding the sale restores it.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
