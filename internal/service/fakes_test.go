package service

// In-memory repository fakes for unit tests. DB() returns nil, which makes
// runTx invoke the callback directly instead of opening a real transaction.

import (
	"context"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── registers ────────────────────────────────────────────────────────────────

type fakeRegisterRepo struct {
	regs map[uuid.UUID]*model.Register
}

var _ repository.RegisterRepository = (*fakeRegisterRepo)(nil)

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{regs: make(map[uuid.UUID]*model.Register)}
}

func (f *fakeRegisterRepo) DB() *gorm.DB { return nil }

func (f *fakeRegisterRepo) Create(_ context.Context, r *model.Register) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	cp := *r
	f.regs[r.ID] = &cp
	return nil
}

func (f *fakeRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Register, error) {
	r, ok := f.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRegisterRepo) FindOpenByName(_ context.Context, name string) (*model.Register, error) {
	for _, r := range f.regs {
		if r.Name == name && r.IsOpen {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegisterRepo) ListOpen(_ context.Context) ([]model.Register, error) {
	var out []model.Register
	for _, r := range f.regs {
		if r.IsOpen {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegisterRepo) CloseTx(_ *gorm.DB, id uuid.UUID, closedAt time.Time) (int64, error) {
	r, ok := f.regs[id]
	if !ok || !r.IsOpen {
		return 0, nil
	}
	r.IsOpen = false
	t := closedAt
	r.ClosedAt = &t
	return 1, nil
}

// ── sales ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (f *fakeSaleRepo) DB() *gorm.DB { return nil }

func (f *fakeSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	f.sales[s.ID] = &cp
	return nil
}

func (f *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	if s, ok := f.sales[id]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeSaleRepo) AggregateByRegister(_ context.Context, registerID uuid.UUID, since time.Time) ([]repository.MethodAggregate, error) {
	byMethod := make(map[string]*repository.MethodAggregate)
	for _, s := range f.sales {
		if s.CashRegisterID == nil || *s.CashRegisterID != registerID {
			continue
		}
		if s.Status != "completed" || s.SoldAt.Before(since) {
			continue
		}
		agg, ok := byMethod[s.PaymentMethod]
		if !ok {
			agg = &repository.MethodAggregate{PaymentMethod: s.PaymentMethod}
			byMethod[s.PaymentMethod] = agg
		}
		agg.Total = agg.Total.Add(s.Total)
		agg.Count++
	}
	var rows []repository.MethodAggregate
	for _, agg := range byMethod {
		rows = append(rows, *agg)
	}
	return rows, nil
}

func (f *fakeSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range f.sales {
		if filter.Status != "" && filter.Status != "all" && s.Status != filter.Status {
			continue
		}
		if filter.RegisterID != nil && (s.CashRegisterID == nil || *s.CashRegisterID != *filter.RegisterID) {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

// ── closings ─────────────────────────────────────────────────────────────────

type fakeClosingRepo struct {
	closings map[uuid.UUID]*model.Closing
}

var _ repository.ClosingRepository = (*fakeClosingRepo)(nil)

func newFakeClosingRepo() *fakeClosingRepo {
	return &fakeClosingRepo{closings: make(map[uuid.UUID]*model.Closing)}
}

func (f *fakeClosingRepo) DB() *gorm.DB { return nil }

func (f *fakeClosingRepo) CreateTx(_ *gorm.DB, c *model.Closing) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Details {
		if c.Details[i].ID == uuid.Nil {
			c.Details[i].ID = uuid.New()
		}
		c.Details[i].ClosingID = c.ID
	}
	cp := *c
	f.closings[c.ID] = &cp
	return nil
}

func (f *fakeClosingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Closing, error) {
	c, ok := f.closings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClosingRepo) List(_ context.Context, filter dto.ClosingFilter) ([]model.Closing, error) {
	var out []model.Closing
	for _, c := range f.closings {
		if !filter.From.IsZero() && c.ClosedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !c.ClosedAt.Before(filter.To) {
			continue
		}
		if filter.RegisterName != "" && (c.Register == nil || c.Register.Name != filter.RegisterName) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClosingRepo) UpdateNotes(_ context.Context, id uuid.UUID, notes string) (int64, error) {
	c, ok := f.closings[id]
	if !ok {
		return 0, nil
	}
	n := notes
	c.Notes = &n
	return 1, nil
}

func (f *fakeClosingRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := f.closings[id]; !ok {
		return 0, nil
	}
	delete(f.closings, id)
	return 1, nil
}

// ── operators ────────────────────────────────────────────────────────────────

type fakeOperatorRepo struct {
	ops map[uuid.UUID]*model.Operator
}

var _ repository.OperatorRepository = (*fakeOperatorRepo)(nil)

func newFakeOperatorRepo() *fakeOperatorRepo {
	return &fakeOperatorRepo{ops: make(map[uuid.UUID]*model.Operator)}
}

func (f *fakeOperatorRepo) Create(_ context.Context, o *model.Operator) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	f.ops[o.ID] = &cp
	return nil
}

func (f *fakeOperatorRepo) FindByUsername(_ context.Context, username string) (*model.Operator, error) {
	for _, o := range f.ops {
		if o.Username == username && o.Active {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOperatorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Operator, error) {
	o, ok := f.ops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOperatorRepo) List(_ context.Context) ([]model.Operator, error) {
	var out []model.Operator
	for _, o := range f.ops {
		if o.Active {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOperatorRepo) DisplayNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, id := range ids {
		if o, ok := f.ops[id]; ok {
			names[id] = o.DisplayName
		}
	}
	return names, nil
}

// ── products ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products  map[uuid.UUID]*model.Product
	movements []model.StockMovement
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	p, ok := f.products[id]
	if !ok || p.Stock+delta < 0 {
		return 0, nil
	}
	p.Stock += delta
	return 1, nil
}

func (f *fakeProductRepo) CreateMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.movements = append(f.movements, *m)
	return nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}
