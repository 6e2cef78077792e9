package infra

// pdf.go — closing report rendering using go-pdf/fpdf.
// One A5 page per closing:
//   - register name, open/close timestamps, operator ids
//   - opening float
//   - per-payment-method table (total, transaction count)
//   - grand total + transaction count
//   - expected cash vs counted cash and the signed difference
//
// The output file is saved to storagePath/closing_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateClosingPDF renders the archival report for a finalized Closing.
// closing.Register and closing.Details must be loaded. Returns the absolute
// path of the generated file.
func GenerateClosingPDF(closing *model.Closing, expectedCash decimal.Decimal, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("closing_%s.pdf", closing.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Cafe Cafe Confeitaria", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Register Closing Report", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Session info ─────────────────────────────────────────────────────────
	name := ""
	openedAt := ""
	if closing.Register != nil {
		name = closing.Register.Name
		openedAt = closing.Register.OpenedAt.Format("02/01/2006 15:04")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Register: %s", name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Opened:  %s", openedAt), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Closed:  %s", closing.ClosedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if closing.Register != nil {
		pdf.CellFormat(contentW, 4, "Opening float:  R$ "+closing.Register.OpeningBalance.StringFixed(2), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Payment method table ─────────────────────────────────────────────────
	col1 := contentW * 0.50
	col2 := contentW * 0.18
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Method", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Txns", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range closing.Details {
		pdf.CellFormat(col1, 5, d.PaymentMethod, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", d.TransactionCount), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+d.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, fmt.Sprintf("%d", closing.TotalTransactions), "T", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+closing.TotalSales.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Reconciliation ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(col1+col2, 5, "Expected cash in drawer:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "R$ "+expectedCash.StringFixed(2), "", 1, "R", false, 0, "")

	if closing.CountedCash != nil {
		pdf.CellFormat(col1+col2, 5, "Counted cash:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+closing.CountedCash.StringFixed(2), "", 1, "R", false, 0, "")

		label := "Difference (surplus):"
		if closing.CashDifference != nil && closing.CashDifference.IsNegative() {
			label = "Difference (shortfall):"
		}
		pdf.SetFont("Helvetica", "B", 8)
		diff := decimal.Zero
		if closing.CashDifference != nil {
			diff = *closing.CashDifference
		}
		pdf.CellFormat(col1+col2, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+diff.StringFixed(2), "", 1, "R", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, "Physical count skipped — reconciliation deferred.", "", 1, "L", false, 0, "")
	}

	if closing.Notes != nil && *closing.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(contentW, 4, "Notes: "+*closing.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
