package repository

import (
	"context"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MethodAggregate is one GROUP BY payment_method row from the sales window.
type MethodAggregate struct {
	PaymentMethod string
	Total         decimal.Decimal
	Count         int
}

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	// AggregateByRegister sums completed sales booked to the register since
	// the lower bound, grouped by payment method.
	AggregateByRegister(ctx context.Context, registerID uuid.UUID, since time.Time) ([]MethodAggregate, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) AggregateByRegister(ctx context.Context, registerID uuid.UUID, since time.Time) ([]MethodAggregate, error) {
	var rows []MethodAggregate
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("cash_register_id = ? AND sold_at >= ? AND status = 'completed'", registerID, since).
		Group("payment_method").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RegisterID != nil {
		q = q.Where("cash_register_id = ?", *filter.RegisterID)
	}
	if filter.Date != "" {
		q = q.Where("DATE(sold_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Product").
		Order("sold_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}
