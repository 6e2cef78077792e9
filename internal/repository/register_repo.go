package repository

import (
	"context"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterRepository interface {
	Create(ctx context.Context, r *model.Register) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Register, error)
	FindOpenByName(ctx context.Context, name string) (*model.Register, error)
	ListOpen(ctx context.Context) ([]model.Register, error)
	// CloseTx conditionally flips is_open → false inside tx. Returns the
	// number of rows affected: 0 means the register was already closed by a
	// concurrent caller and the enclosing transaction must abort.
	CloseTx(tx *gorm.DB, id uuid.UUID, closedAt time.Time) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) DB() *gorm.DB { return r.db }

func (r *registerRepo) Create(ctx context.Context, reg *model.Register) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Register, error) {
	var reg model.Register
	err := r.db.WithContext(ctx).First(&reg, id).Error
	return &reg, err
}

func (r *registerRepo) FindOpenByName(ctx context.Context, name string) (*model.Register, error) {
	var reg model.Register
	err := r.db.WithContext(ctx).Where("name = ? AND is_open", name).First(&reg).Error
	return &reg, err
}

func (r *registerRepo) ListOpen(ctx context.Context) ([]model.Register, error) {
	var regs []model.Register
	err := r.db.WithContext(ctx).Where("is_open").Order("opened_at ASC").Find(&regs).Error
	return regs, err
}

func (r *registerRepo) CloseTx(tx *gorm.DB, id uuid.UUID, closedAt time.Time) (int64, error) {
	res := tx.Model(&model.Register{}).
		Where("id = ? AND is_open", id).
		Updates(map[string]interface{}{"is_open": false, "closed_at": closedAt})
	return res.RowsAffected, res.Error
}
