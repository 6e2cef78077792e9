package worker

// report_worker.go — closing report fan-out.
// After a register closes, this worker renders the archival PDF, mails it to
// the configured report address, and notifies the automation webhook. The
// closing itself is already durable; everything here is best-effort with
// retries handled by the pool/DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/config"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ReportWorker struct {
	closings    repository.ClosingRepository
	mailer      *infra.Mailer
	webhook     *infra.WebhookClient
	cb          *infra.CircuitBreaker
	pdfDir      string
	reportEmail string
}

func NewReportWorker(
	closings repository.ClosingRepository,
	mailer *infra.Mailer,
	webhook *infra.WebhookClient,
	cb *infra.CircuitBreaker,
	cfg *config.Config,
) *ReportWorker {
	return &ReportWorker{
		closings:    closings,
		mailer:      mailer,
		webhook:     webhook,
		cb:          cb,
		pdfDir:      cfg.PDFStoragePath,
		reportEmail: cfg.ReportEmail,
	}
}

func (w *ReportWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var p ClosingReportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("report: unmarshal payload: %w", err)
	}
	id, err := uuid.Parse(p.ClosingID)
	if err != nil {
		return fmt.Errorf("report: invalid closing id: %w", err)
	}

	closing, err := w.closings.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("report: load closing %s: %w", id, err)
	}

	expected := expectedCash(closing)

	pdfPath, err := infra.GenerateClosingPDF(closing, expected, w.pdfDir)
	if err != nil {
		return err
	}

	if w.reportEmail != "" {
		name := ""
		if closing.Register != nil {
			name = closing.Register.Name
		}
		subject := fmt.Sprintf("Register closing — %s — %s", name, closing.ClosedAt.Format("02/01/2006 15:04"))
		body := fmt.Sprintf(
			"Register %s closed with R$ %s across %d transactions.",
			name, closing.TotalSales.StringFixed(2), closing.TotalTransactions,
		)
		if err := w.mailer.SendClosingReport(w.reportEmail, subject, body, pdfPath); err != nil {
			return fmt.Errorf("report: send email: %w", err)
		}
	}

	if w.webhook != nil && w.webhook.Enabled() {
		event := buildClosingEvent(closing, expected)
		if err := w.cb.Execute(func() error { return w.webhook.Notify(ctx, event) }); err != nil {
			return fmt.Errorf("report: webhook notify: %w", err)
		}
	}

	log.Info().Str("closing_id", id.String()).Msg("closing report delivered")
	return nil
}

// expectedCash reconstructs expected drawer cash from the archived snapshot.
func expectedCash(c *model.Closing) decimal.Decimal {
	expected := decimal.Zero
	if c.Register != nil {
		expected = c.Register.OpeningBalance
	}
	for _, d := range c.Details {
		if d.PaymentMethod == model.PaymentCash {
			expected = expected.Add(d.Total)
		}
	}
	return expected
}

func buildClosingEvent(c *model.Closing, expected decimal.Decimal) infra.ClosingEvent {
	event := infra.ClosingEvent{
		ClosingID:         c.ID.String(),
		ClosedAt:          c.ClosedAt.UTC().Format("2006-01-02T15:04:05Z"),
		TotalSales:        c.TotalSales.StringFixed(2),
		TotalTransactions: c.TotalTransactions,
		ExpectedCash:      expected.StringFixed(2),
	}
	if c.Register != nil {
		event.RegisterName = c.Register.Name
	}
	if c.CountedCash != nil {
		s := c.CountedCash.StringFixed(2)
		event.CountedCash = &s
	}
	if c.CashDifference != nil {
		s := c.CashDifference.StringFixed(2)
		event.CashDifference = &s
	}
	for _, d := range c.Details {
		event.ByMethod = append(event.ByMethod, struct {
			Method string `json:"method"`
			Total  string `json:"total"`
			Count  int    `json:"count"`
		}{Method: d.PaymentMethod, Total: d.Total.StringFixed(2), Count: d.TransactionCount})
	}
	return event
}
