package repository

import (
	"context"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClosingRepository interface {
	// CreateTx inserts the closing and its detail rows in the caller's
	// transaction (gorm cascades the Details association).
	CreateTx(tx *gorm.DB, c *model.Closing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Closing, error)
	List(ctx context.Context, filter dto.ClosingFilter) ([]model.Closing, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (int64, error)
	// DeleteTx removes detail rows first, then the closing itself.
	DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type closingRepo struct{ db *gorm.DB }

func NewClosingRepository(db *gorm.DB) ClosingRepository { return &closingRepo{db: db} }

func (r *closingRepo) DB() *gorm.DB { return r.db }

func (r *closingRepo) CreateTx(tx *gorm.DB, c *model.Closing) error {
	return tx.Create(c).Error
}

func (r *closingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Closing, error) {
	var c model.Closing
	err := r.db.WithContext(ctx).Preload("Register").Preload("Details").First(&c, id).Error
	return &c, err
}

func (r *closingRepo) List(ctx context.Context, filter dto.ClosingFilter) ([]model.Closing, error) {
	q := r.db.WithContext(ctx).Model(&model.Closing{})

	if !filter.From.IsZero() {
		q = q.Where("closings.closed_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("closings.closed_at < ?", filter.To)
	}
	if filter.RegisterName != "" {
		q = q.Joins("JOIN cash_registers ON cash_registers.id = closings.cash_register_id").
			Where("cash_registers.name = ?", filter.RegisterName)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var closings []model.Closing
	err := q.Preload("Register").Preload("Details").
		Order("closings.closed_at DESC").
		Limit(limit).
		Find(&closings).Error
	return closings, err
}

func (r *closingRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Closing{}).
		Where("id = ?", id).
		Update("notes", notes)
	return res.RowsAffected, res.Error
}

func (r *closingRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	if err := tx.Where("closing_id = ?", id).Delete(&model.ClosingDetail{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&model.Closing{})
	return res.RowsAffected, res.Error
}
