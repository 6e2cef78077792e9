package repository

import (
	"context"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperatorRepository interface {
	Create(ctx context.Context, o *model.Operator) error
	FindByUsername(ctx context.Context, username string) (*model.Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error)
	List(ctx context.Context) ([]model.Operator, error)
	// DisplayNames resolves operator ids to display names in one query.
	// Unknown ids are simply absent from the result map.
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type operatorRepo struct{ db *gorm.DB }

func NewOperatorRepository(db *gorm.DB) OperatorRepository { return &operatorRepo{db: db} }

func (r *operatorRepo) Create(ctx context.Context, o *model.Operator) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *operatorRepo) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var o model.Operator
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Where("(username = ? OR LOWER(email::text) = LOWER(?)) AND active = true", username, username).
		First(&o).Error
	return &o, err
}

func (r *operatorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var o model.Operator
	err := r.db.WithContext(ctx).First(&o, id).Error
	return &o, err
}

func (r *operatorRepo) List(ctx context.Context) ([]model.Operator, error) {
	var ops []model.Operator
	err := r.db.WithContext(ctx).Where("active = true").Order("display_name ASC").Find(&ops).Error
	return ops, err
}

func (r *operatorRepo) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	var ops []model.Operator
	if err := r.db.WithContext(ctx).Select("id", "display_name").Where("id IN ?", ids).Find(&ops).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(ops))
	for _, o := range ops {
		names[o.ID] = o.DisplayName
	}
	return names, nil
}
