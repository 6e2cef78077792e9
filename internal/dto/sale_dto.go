package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type RecordSaleRequest struct {
	Channel       string  `json:"channel"        validate:"required,oneof=till-1 till-2 delivery digital-menu"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=pix credit-card debit-card cash meal-voucher"`
	// RegisterID is required for till/delivery channels and must reference an
	// open register; digital-menu sales carry none.
	RegisterID *string           `json:"register_id" validate:"omitempty,uuid"`
	Items      []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Channel       string             `json:"channel"`
	PaymentMethod string             `json:"payment_method"`
	RegisterID    *string            `json:"register_id"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	SoldAt        string             `json:"sold_at"`
	Items         []SaleItemResponse `json:"items"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
