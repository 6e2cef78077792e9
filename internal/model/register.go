package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Register is a cash drawer session: opened with a float, accumulates sales,
// closed exactly once by a reconciliation. At most one row per Name may be
// open at a time (partial unique index, see infra.applySchemaPatches).
type Register struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"type:varchar(20);not null;index" json:"name"`
	OpenedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"opened_by"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"opening_balance"`
	IsOpen         bool            `gorm:"not null;default:true" json:"is_open"`
	OpenedAt       time.Time       `json:"opened_at"`
	ClosedAt       *time.Time      `json:"closed_at"`
}

func (Register) TableName() string { return "cash_registers" }
