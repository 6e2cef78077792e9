package repository

import (
	"context"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// AdjustStockTx adds delta to the product's stock. A negative delta that
	// would drive stock below zero affects no rows, so the caller can abort.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error)
	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, p *model.Product) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *productRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *productRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}
