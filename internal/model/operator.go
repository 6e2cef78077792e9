package model

import (
	"time"

	"github.com/google/uuid"
)

// Operator stores staff accounts with role-based access.
// Role: "cashier" | "manager" | "owner"
type Operator struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  string    `gorm:"not null" json:"display_name"`
	Email        *string   `json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Operator) TableName() string { return "operators" }

// Roles, least to most privileged.
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleOwner   = "owner"
)
