package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apperr"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	// Record books a sale and deducts stock in one transaction. Till and
	// delivery sales must reference the open register for their channel;
	// digital-menu sales carry no register and never reconcile.
	Record(ctx context.Context, operatorID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	// Void marks a sale voided and restores the stock its items consumed.
	// Voided sales are excluded from every reconciliation summary.
	Void(ctx context.Context, id uuid.UUID, reason string) error
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales     repository.SaleRepository
	registers repository.RegisterRepository
	products  repository.ProductRepository
}

func NewSaleService(
	sales repository.SaleRepository,
	registers repository.RegisterRepository,
	products repository.ProductRepository,
) SaleService {
	return &saleService{sales: sales, registers: registers, products: products}
}

// ── Record ───────────────────────────────────────────────────────────────────

func (s *saleService) Record(ctx context.Context, operatorID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperr.Validation("unknown payment method %q", req.PaymentMethod)
	}

	var registerID *uuid.UUID
	if req.Channel == model.ChannelDigitalMenu {
		if req.RegisterID != nil {
			return nil, apperr.Validation("digital-menu sales cannot reference a register")
		}
	} else {
		if req.RegisterID == nil {
			return nil, apperr.Validation("channel %q requires an open register", req.Channel)
		}
		rid, err := uuid.Parse(*req.RegisterID)
		if err != nil {
			return nil, apperr.Validation("invalid register id: %v", err)
		}
		reg, err := s.registers.FindByID(ctx, rid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("register %s not found", rid)
			}
			return nil, apperr.Persistence(err, "could not load register")
		}
		if !reg.IsOpen {
			return nil, apperr.Conflict("register %q is closed", reg.Name)
		}
		if reg.Name != req.Channel {
			return nil, apperr.Validation("register %q does not serve channel %q", reg.Name, req.Channel)
		}
		registerID = &rid
	}

	// Resolve products and price the sale before touching the DB.
	type resolvedItem struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
		subtotal  decimal.Decimal
	}
	var resolved []resolvedItem
	total := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperr.Validation("invalid product id: %v", err)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product %s not found", pid)
			}
			return nil, apperr.Persistence(err, "could not load product")
		}
		if !p.Active {
			return nil, apperr.Validation("product %q is inactive", p.Name)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			quantity:  item.Quantity,
			subtotal:  subtotal,
		})
	}

	sale := model.Sale{
		OperatorID:     operatorID,
		Channel:        req.Channel,
		PaymentMethod:  req.PaymentMethod,
		Total:          total,
		Status:         "completed",
		SoldAt:         time.Now(),
		CashRegisterID: registerID,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: r.productID,
			Quantity:  r.quantity,
			UnitPrice: r.price,
			Subtotal:  r.subtotal,
		})
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.Create(ctx, tx, &sale); err != nil {
			return apperr.Persistence(err, "could not record sale")
		}
		for _, r := range resolved {
			p, err := s.products.FindByIDTx(tx, r.productID)
			if err != nil {
				return apperr.Persistence(err, "could not read stock")
			}
			before := p.Stock
			affected, err := s.products.AdjustStockTx(tx, r.productID, -r.quantity)
			if err != nil {
				return apperr.Persistence(err, "could not deduct stock")
			}
			if affected == 0 {
				return apperr.Conflict("insufficient stock for %q", r.name)
			}
			ref := sale.ID
			mov := &model.StockMovement{
				ProductID:   r.productID,
				Kind:        "sale",
				Quantity:    -r.quantity,
				StockBefore: before,
				StockAfter:  before - r.quantity,
				Reason:      fmt.Sprintf("sale %s", sale.ID),
				ReferenceID: &ref,
			}
			if err := s.products.CreateMovementTx(tx, mov); err != nil {
				return apperr.Persistence(err, "could not record stock movement")
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

// ── Void ─────────────────────────────────────────────────────────────────────

func (s *saleService) Void(ctx context.Context, id uuid.UUID, reason string) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("sale %s not found", id)
		}
		return apperr.Persistence(err, "could not load sale")
	}
	if sale.Status == "voided" {
		return apperr.Conflict("sale is already voided")
	}

	return runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			p, err := s.products.FindByIDTx(tx, item.ProductID)
			if err != nil {
				return apperr.Persistence(err, "could not read stock")
			}
			before := p.Stock
			if _, err := s.products.AdjustStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return apperr.Persistence(err, "could not restore stock")
			}
			ref := sale.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Kind:        "void-restore",
				Quantity:    item.Quantity,
				StockBefore: before,
				StockAfter:  before + item.Quantity,
				Reason:      fmt.Sprintf("void sale %s — %s", sale.ID, reason),
				ReferenceID: &ref,
			}
			if err := s.products.CreateMovementTx(tx, mov); err != nil {
				return apperr.Persistence(err, "could not record stock movement")
			}
		}
		if err := s.sales.UpdateStatusTx(tx, id, "voided"); err != nil {
			return apperr.Persistence(err, "could not void sale")
		}
		return nil
	})
}

// ── List ─────────────────────────────────────────────────────────────────────

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = "completed"
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence(err, "could not list sales")
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	var registerID *string
	if sale.CashRegisterID != nil {
		s := sale.CashRegisterID.String()
		registerID = &s
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		Channel:       sale.Channel,
		PaymentMethod: sale.PaymentMethod,
		RegisterID:    registerID,
		Total:         sale.Total,
		Status:        sale.Status,
		SoldAt:        sale.SoldAt.Format(time.RFC3339),
		Items:         items,
	}
}
