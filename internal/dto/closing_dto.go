package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Query filters ───────────────────────────────────────────────────────────

// Date filter presets accepted by the closings list endpoint.
const (
	DateFilterToday     = "today"
	DateFilterYesterday = "yesterday"
	DateFilterThisWeek  = "this-week"
	DateFilterThisMonth = "this-month"
	DateFilterAll       = "all"
)

// ClosingFilter is the resolved repository-level filter: a half-open
// [From, To) window plus an optional register name pushed into the query.
type ClosingFilter struct {
	From         time.Time
	To           time.Time
	RegisterName string
	Limit        int
}

// ResolveDateFilter translates a preset into a concrete window around now.
// "all" (or anything unrecognized) leaves the window unbounded.
func ResolveDateFilter(preset string, now time.Time) (from, to time.Time) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch preset {
	case DateFilterToday:
		return dayStart, dayStart.AddDate(0, 0, 1)
	case DateFilterYesterday:
		return dayStart.AddDate(0, 0, -1), dayStart
	case DateFilterThisWeek:
		// Week starts on Monday
		offset := (int(now.Weekday()) + 6) % 7
		weekStart := dayStart.AddDate(0, 0, -offset)
		return weekStart, weekStart.AddDate(0, 0, 7)
	case DateFilterThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart, monthStart.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdateClosingNotesRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClosingDetailResponse struct {
	PaymentMethod    string          `json:"payment_method"`
	Total            decimal.Decimal `json:"total"`
	TransactionCount int             `json:"transaction_count"`
}

type ClosingResponse struct {
	ID                string                  `json:"id"`
	RegisterID        string                  `json:"register_id"`
	RegisterName      string                  `json:"register_name"`
	OpenedBy          string                  `json:"opened_by"`
	OpenedByName      string                  `json:"opened_by_name,omitempty"`
	OpeningBalance    decimal.Decimal         `json:"opening_balance"`
	OpenedAt          string                  `json:"opened_at"`
	ClosedBy          string                  `json:"closed_by"`
	ClosedByName      string                  `json:"closed_by_name,omitempty"`
	ClosedAt          string                  `json:"closed_at"`
	TotalSales        decimal.Decimal         `json:"total_sales"`
	TotalTransactions int                     `json:"total_transactions"`
	ExpectedCash      decimal.Decimal         `json:"expected_cash"`
	CountedCash       *decimal.Decimal        `json:"counted_cash"`
	CashDifference    *decimal.Decimal        `json:"cash_difference"`
	Notes             *string                 `json:"notes"`
	Details           []ClosingDetailResponse `json:"details"`
}

// ─── Sale filter (shared with sale handlers) ─────────────────────────────────

type SaleFilter struct {
	Status     string
	Date       string // YYYY-MM-DD
	RegisterID *uuid.UUID
	Page       int
	Limit      int
}
