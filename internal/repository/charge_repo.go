package repository

import (
	"context"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChargeRepository interface {
	Create(ctx context.Context, c *model.Charge) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Charge, error)
	List(ctx context.Context) ([]model.Charge, error)
	Update(ctx context.Context, c *model.Charge) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type chargeRepo struct{ db *gorm.DB }

func NewChargeRepository(db *gorm.DB) ChargeRepository { return &chargeRepo{db: db} }

func (r *chargeRepo) DB() *gorm.DB { return r.db }

func (r *chargeRepo) Create(ctx context.Context, c *model.Charge) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *chargeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Charge, error) {
	var c model.Charge
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *chargeRepo) List(ctx context.Context) ([]model.Charge, error) {
	var items []model.Charge
	err := r.db.WithContext(ctx).Order("date DESC").Find(&items).Error
	return items, err
}

func (r *chargeRepo) Update(ctx context.Context, c *model.Charge) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *chargeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Charge{}, id).Error
}
