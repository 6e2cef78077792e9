package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Closing is the archival record produced when a register session ends.
// Totals and detail rows are a snapshot of what was computed at close time
// and are never recalculated; only Notes may change afterward.
//
// CountedCash/CashDifference are nil when the operator skipped the physical
// count — "not reconciled yet" is distinct from "reconciled to zero".
type Closing struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CashRegisterID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"cash_register_id"`
	ClosedBy          uuid.UUID        `gorm:"type:uuid;not null" json:"closed_by"`
	ClosedAt          time.Time        `gorm:"index" json:"closed_at"`
	TotalSales        decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total_sales"`
	TotalTransactions int              `gorm:"not null" json:"total_transactions"`
	Notes             *string          `json:"notes"`
	CountedCash       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"counted_cash"`
	CashDifference    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"cash_difference"`

	Register *Register       `gorm:"foreignKey:CashRegisterID" json:"register,omitempty"`
	Details  []ClosingDetail `gorm:"foreignKey:ClosingID" json:"details"`
}

// ClosingDetail is the per-payment-method breakdown of a Closing. One row per
// method actually observed in the window; methods with zero sales get no row.
type ClosingDetail struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClosingID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"closing_id"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	TransactionCount int             `gorm:"not null" json:"transaction_count"`
}
