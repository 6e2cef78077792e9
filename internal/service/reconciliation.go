package service

// Reconciliation math for register closings. Everything here is pure: the
// repository hands in aggregated sale rows and the functions below produce
// totals, expected cash, and the signed variance. Keeping this free of I/O is
// what makes the close path and the live dashboard share one computation.

import (
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"

	"github.com/shopspring/decimal"
)

// MethodTotals is the aggregate for a single payment method in the window.
type MethodTotals struct {
	Total decimal.Decimal
	Count int
}

// SalesSummary aggregates every sale booked to a register since it opened.
// A register with no sales yields a zero-valued summary, never an error.
type SalesSummary struct {
	TotalSales decimal.Decimal
	TotalCount int
	ByMethod   map[string]MethodTotals
}

// NewSalesSummary folds GROUP BY rows into a summary. Methods absent from
// rows are absent from ByMethod — zero-sale methods produce no entry.
func NewSalesSummary(rows []repository.MethodAggregate) SalesSummary {
	s := SalesSummary{
		TotalSales: decimal.Zero,
		ByMethod:   make(map[string]MethodTotals, len(rows)),
	}
	for _, row := range rows {
		s.ByMethod[row.PaymentMethod] = MethodTotals{Total: row.Total, Count: row.Count}
		s.TotalSales = s.TotalSales.Add(row.Total)
		s.TotalCount += row.Count
	}
	return s
}

// CashTotal returns the cash-method slice of the summary, zero if absent.
func (s SalesSummary) CashTotal() decimal.Decimal {
	if m, ok := s.ByMethod[model.PaymentCash]; ok {
		return m.Total
	}
	return decimal.Zero
}

// OrderedMethods returns the observed methods in canonical display order.
func (s SalesSummary) OrderedMethods() []string {
	out := make([]string, 0, len(s.ByMethod))
	for _, m := range model.PaymentMethods {
		if _, ok := s.ByMethod[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ExpectedCash is what the drawer should physically hold at close:
// the opening float plus every cash-method sale. Card, pix and voucher
// settlements never touch the drawer.
func ExpectedCash(openingBalance, cashTotal decimal.Decimal) decimal.Decimal {
	return openingBalance.Add(cashTotal)
}

// Variance returns counted - expected, or nil when no physical count was
// entered. Sign convention drives the UI labels: positive = surplus,
// negative = shortfall, zero = exactly reconciled. A skipped count is nil,
// never zero.
func Variance(counted *decimal.Decimal, expected decimal.Decimal) *decimal.Decimal {
	if counted == nil {
		return nil
	}
	d := counted.Sub(expected)
	return &d
}
