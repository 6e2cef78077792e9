package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenRegisterRequest struct {
	Name           string          `json:"name"            validate:"required,oneof=till-1 till-2 delivery"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CloseRegisterRequest struct {
	Notes *string `json:"notes"`
	// CountedCash is the operator's physical drawer count. Omitting it defers
	// reconciliation: the closing is archived with a nil difference.
	CountedCash *decimal.Decimal `json:"counted_cash" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegisterResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	OpenedBy       string          `json:"opened_by"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	IsOpen         bool            `json:"is_open"`
	OpenedAt       string          `json:"opened_at"`
	ClosedAt       *string         `json:"closed_at"`
}

// MethodSummary is one payment method's slice of a sales summary.
type MethodSummary struct {
	PaymentMethod    string          `json:"payment_method"`
	Total            decimal.Decimal `json:"total"`
	TransactionCount int             `json:"transaction_count"`
}

// SalesSummaryResponse is the live (polled) view of an open register.
type SalesSummaryResponse struct {
	RegisterID   string          `json:"register_id"`
	RegisterName string          `json:"register_name"`
	OpenedAt     string          `json:"opened_at"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalCount   int             `json:"total_count"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	ByMethod     []MethodSummary `json:"by_method"`
}
