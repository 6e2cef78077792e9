package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apperr"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RegisterService interface {
	Open(ctx context.Context, openedBy uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error)
	// Close finalizes the session: computes the reconciliation, archives the
	// Closing with its per-method details, and flips the register — all three
	// writes in one transaction.
	Close(ctx context.Context, registerID, closedBy uuid.UUID, req dto.CloseRegisterRequest) (*dto.ClosingResponse, error)
	// Summary is the live dashboard read: sales booked to the register since
	// it opened. Idempotent; cached briefly when a redis client is present.
	Summary(ctx context.Context, registerID uuid.UUID) (*dto.SalesSummaryResponse, error)
	ListOpen(ctx context.Context) ([]dto.RegisterResponse, error)
	// FindOpen resolves the open session for a named till, if any.
	FindOpen(ctx context.Context, name string) (*dto.RegisterResponse, error)
}

type registerService struct {
	registers  repository.RegisterRepository
	sales      repository.SaleRepository
	closings   repository.ClosingRepository
	dispatcher *worker.Dispatcher
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewRegisterService(
	registers repository.RegisterRepository,
	sales repository.SaleRepository,
	closings repository.ClosingRepository,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
	cacheTTL time.Duration,
) RegisterService {
	return &registerService{
		registers:  registers,
		sales:      sales,
		closings:   closings,
		dispatcher: dispatcher,
		rdb:        rdb,
		cacheTTL:   cacheTTL,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *registerService) Open(ctx context.Context, openedBy uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error) {
	if !model.ValidRegisterName(req.Name) {
		return nil, apperr.Validation("unknown register name %q", req.Name)
	}
	if req.OpeningBalance.IsNegative() {
		return nil, apperr.Validation("opening balance must not be negative")
	}

	// Pre-check for a friendly error; the partial unique index on
	// (name) WHERE is_open is what actually guarantees single-open-per-name
	// under concurrency.
	if existing, err := s.registers.FindOpenByName(ctx, req.Name); err == nil && existing != nil {
		return nil, apperr.Conflict("register %q is already open", req.Name)
	}

	reg := &model.Register{
		Name:           req.Name,
		OpenedBy:       openedBy,
		OpeningBalance: req.OpeningBalance,
		IsOpen:         true,
		OpenedAt:       time.Now(),
	}
	if err := s.registers.Create(ctx, reg); err != nil {
		return nil, apperr.Persistence(err, "could not open register")
	}

	return registerToResponse(reg), nil
}

// ── Close ────────────────────────────────────────────────────────────────────

func (s *registerService) Close(ctx context.Context, registerID, closedBy uuid.UUID, req dto.CloseRegisterRequest) (*dto.ClosingResponse, error) {
	reg, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("register %s not found", registerID)
		}
		return nil, apperr.Persistence(err, "could not load register")
	}
	if !reg.IsOpen {
		return nil, apperr.Conflict("register %q is already closed", reg.Name)
	}
	if req.CountedCash != nil && req.CountedCash.IsNegative() {
		return nil, apperr.Validation("counted cash must not be negative")
	}

	// The close read is inclusive: every sale attributed to the register up
	// to this point counts, including ones recorded while the operator was
	// already standing at the close dialog.
	rows, err := s.sales.AggregateByRegister(ctx, reg.ID, reg.OpenedAt)
	if err != nil {
		return nil, apperr.Persistence(err, "could not aggregate sales")
	}
	summary := NewSalesSummary(rows)

	expected := ExpectedCash(reg.OpeningBalance, summary.CashTotal())
	difference := Variance(req.CountedCash, expected)

	now := time.Now()
	closing := &model.Closing{
		CashRegisterID:    reg.ID,
		ClosedBy:          closedBy,
		ClosedAt:          now,
		TotalSales:        summary.TotalSales,
		TotalTransactions: summary.TotalCount,
		Notes:             req.Notes,
		CountedCash:       req.CountedCash,
		CashDifference:    difference,
	}
	for _, method := range summary.OrderedMethods() {
		m := summary.ByMethod[method]
		closing.Details = append(closing.Details, model.ClosingDetail{
			PaymentMethod:    method,
			Total:            m.Total,
			TransactionCount: m.Count,
		})
	}

	// Closing + details + the conditional register flip commit or roll back
	// together: a failed detail insert must never leave an orphaned Closing,
	// and a lost close race must never produce a second Closing.
	txErr := runTx(ctx, s.closings.DB(), func(tx *gorm.DB) error {
		if err := s.closings.CreateTx(tx, closing); err != nil {
			return apperr.Persistence(err, "could not archive closing")
		}
		affected, err := s.registers.CloseTx(tx, reg.ID, now)
		if err != nil {
			return apperr.Persistence(err, "could not close register")
		}
		if affected == 0 {
			return apperr.Conflict("register %q was closed concurrently", reg.Name)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateSummaryCache(ctx, reg.ID)

	// Report fan-out is best-effort: the closing is durable either way.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueClosingReport(ctx, closing.ID); err != nil {
			log.Warn().Err(err).Str("closing_id", closing.ID.String()).Msg("could not enqueue closing report")
		}
	}

	closing.Register = reg
	return closingToResponse(closing, expected, nil), nil
}

// ── Summary ──────────────────────────────────────────────────────────────────

func (s *registerService) Summary(ctx context.Context, registerID uuid.UUID) (*dto.SalesSummaryResponse, error) {
	if cached := s.summaryFromCache(ctx, registerID); cached != nil {
		return cached, nil
	}

	reg, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("register %s not found", registerID)
		}
		return nil, apperr.Persistence(err, "could not load register")
	}

	rows, err := s.sales.AggregateByRegister(ctx, reg.ID, reg.OpenedAt)
	if err != nil {
		return nil, apperr.Persistence(err, "could not aggregate sales")
	}
	summary := NewSalesSummary(rows)

	resp := &dto.SalesSummaryResponse{
		RegisterID:   reg.ID.String(),
		RegisterName: reg.Name,
		OpenedAt:     reg.OpenedAt.Format(time.RFC3339),
		TotalSales:   summary.TotalSales,
		TotalCount:   summary.TotalCount,
		ExpectedCash: ExpectedCash(reg.OpeningBalance, summary.CashTotal()),
	}
	for _, method := range summary.OrderedMethods() {
		m := summary.ByMethod[method]
		resp.ByMethod = append(resp.ByMethod, dto.MethodSummary{
			PaymentMethod:    method,
			Total:            m.Total,
			TransactionCount: m.Count,
		})
	}

	s.storeSummaryCache(ctx, registerID, resp)
	return resp, nil
}

func (s *registerService) ListOpen(ctx context.Context) ([]dto.RegisterResponse, error) {
	regs, err := s.registers.ListOpen(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "could not list open registers")
	}
	out := make([]dto.RegisterResponse, len(regs))
	for i := range regs {
		out[i] = *registerToResponse(&regs[i])
	}
	return out, nil
}

func (s *registerService) FindOpen(ctx context.Context, name string) (*dto.RegisterResponse, error) {
	if !model.ValidRegisterName(name) {
		return nil, apperr.Validation("unknown register name %q", name)
	}
	reg, err := s.registers.FindOpenByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("register %q is not open", name)
		}
		return nil, apperr.Persistence(err, "could not look up register")
	}
	return registerToResponse(reg), nil
}

// ── Summary cache ────────────────────────────────────────────────────────────
// The dashboard polls every few seconds per open register; a short redis TTL
// absorbs that without another window scan. The close path never reads it.

func summaryCacheKey(registerID uuid.UUID) string {
	return fmt.Sprintf("register:summary:%s", registerID)
}

func (s *registerService) summaryFromCache(ctx context.Context, registerID uuid.UUID) *dto.SalesSummaryResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, summaryCacheKey(registerID)).Bytes()
	if err != nil {
		return nil
	}
	var resp dto.SalesSummaryResponse
	if json.Unmarshal(raw, &resp) != nil {
		return nil
	}
	return &resp
}

func (s *registerService) storeSummaryCache(ctx context.Context, registerID uuid.UUID, resp *dto.SalesSummaryResponse) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, summaryCacheKey(registerID), raw, s.cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("summary cache store failed")
	}
}

func (s *registerService) invalidateSummaryCache(ctx context.Context, registerID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, summaryCacheKey(registerID)).Err()
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func registerToResponse(r *model.Register) *dto.RegisterResponse {
	resp := &dto.RegisterResponse{
		ID:             r.ID.String(),
		Name:           r.Name,
		OpenedBy:       r.OpenedBy.String(),
		OpeningBalance: r.OpeningBalance,
		IsOpen:         r.IsOpen,
		OpenedAt:       r.OpenedAt.Format(time.RFC3339),
	}
	if r.ClosedAt != nil {
		t := r.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}

// closingToResponse maps a Closing (with Register and Details loaded) to its
// transport shape. names may be nil when operator resolution was skipped.
func closingToResponse(c *model.Closing, expected decimal.Decimal, names map[uuid.UUID]string) *dto.ClosingResponse {
	resp := &dto.ClosingResponse{
		ID:                c.ID.String(),
		RegisterID:        c.CashRegisterID.String(),
		ClosedBy:          c.ClosedBy.String(),
		ClosedAt:          c.ClosedAt.Format(time.RFC3339),
		TotalSales:        c.TotalSales,
		TotalTransactions: c.TotalTransactions,
		ExpectedCash:      expected,
		CountedCash:       c.CountedCash,
		CashDifference:    c.CashDifference,
		Notes:             c.Notes,
	}
	if c.Register != nil {
		resp.RegisterName = c.Register.Name
		resp.OpenedBy = c.Register.OpenedBy.String()
		resp.OpeningBalance = c.Register.OpeningBalance
		resp.OpenedAt = c.Register.OpenedAt.Format(time.RFC3339)
		if names != nil {
			resp.OpenedByName = names[c.Register.OpenedBy]
		}
	}
	if names != nil {
		resp.ClosedByName = names[c.ClosedBy]
	}
	for _, d := range c.Details {
		resp.Details = append(resp.Details, dto.ClosingDetailResponse{
			PaymentMethod:    d.PaymentMethod,
			Total:            d.Total,
			TransactionCount: d.TransactionCount,
		})
	}
	return resp
}
