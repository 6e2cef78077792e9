package service

import (
	"context"
	"errors"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apperr"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClosingService is the archive side of reconciliation: closings are written
// once by RegisterService.Close and thereafter only listed, annotated, or
// removed. Totals and detail rows are immutable history.
type ClosingService interface {
	List(ctx context.Context, datePreset, registerName string, limit int) ([]dto.ClosingResponse, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
	// Delete is an archival correction only: it cascades to detail rows but
	// never reopens the register or touches sale records.
	Delete(ctx context.Context, id uuid.UUID) error
}

type closingService struct {
	closings  repository.ClosingRepository
	operators repository.OperatorRepository
}

func NewClosingService(closings repository.ClosingRepository, operators repository.OperatorRepository) ClosingService {
	return &closingService{closings: closings, operators: operators}
}

func (s *closingService) List(ctx context.Context, datePreset, registerName string, limit int) ([]dto.ClosingResponse, error) {
	if registerName != "" && !model.ValidRegisterName(registerName) {
		return nil, apperr.Validation("unknown register name %q", registerName)
	}

	from, to := dto.ResolveDateFilter(datePreset, time.Now())
	closings, err := s.closings.List(ctx, dto.ClosingFilter{
		From:         from,
		To:           to,
		RegisterName: registerName,
		Limit:        limit,
	})
	if err != nil {
		return nil, apperr.Persistence(err, "could not list closings")
	}

	// Resolve opener and closer display names in one round trip.
	idSet := make(map[uuid.UUID]struct{})
	for i := range closings {
		idSet[closings[i].ClosedBy] = struct{}{}
		if closings[i].Register != nil {
			idSet[closings[i].Register.OpenedBy] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names, err := s.operators.DisplayNames(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence(err, "could not resolve operator names")
	}

	out := make([]dto.ClosingResponse, 0, len(closings))
	for i := range closings {
		c := &closings[i]
		out = append(out, *closingToResponse(c, expectedCashOf(c), names))
	}
	return out, nil
}

// expectedCashOf reconstructs the expected drawer amount from the archived
// snapshot: the opening float plus the cash detail row.
func expectedCashOf(c *model.Closing) decimal.Decimal {
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

func (s *closingService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	affected, err := s.closings.UpdateNotes(ctx, id, notes)
	if err != nil {
		return apperr.Persistence(err, "could not update notes")
	}
	if affected == 0 {
		return apperr.NotFound("closing %s not found", id)
	}
	return nil
}

func (s *closingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.closings.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("closing %s not found", id)
		}
		return apperr.Persistence(err, "could not load closing")
	}

	return runTx(ctx, s.closings.DB(), func(tx *gorm.DB) error {
		if _, err := s.closings.DeleteTx(tx, id); err != nil {
			return apperr.Persistence(err, "could not delete closing")
		}
		return nil
	})
}
