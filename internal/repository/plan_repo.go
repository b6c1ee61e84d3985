package repository

import (
	"context"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(ctx context.Context, p *model.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]model.Plan, error)
	Update(ctx context.Context, p *model.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListActiveOrdered returns active plans oldest first; reservation
	// reconciliation depends on this ordering for deterministic matching.
	ListActiveOrdered(ctx context.Context) ([]model.Plan, error)
	DB() *gorm.DB
}

type planRepo struct{ db *gorm.DB }

func NewPlanRepository(db *gorm.DB) PlanRepository { return &planRepo{db: db} }

func (r *planRepo) DB() *gorm.DB { return r.db }

func (r *planRepo) Create(ctx context.Context, p *model.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *planRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *planRepo) List(ctx context.Context, activeOnly bool) ([]model.Plan, error) {
	var plans []model.Plan
	q := r.db.WithContext(ctx).Order("created_at")
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *planRepo) Update(ctx context.Context, p *model.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *planRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Plan{}, id).Error
}

func (r *planRepo) ListActiveOrdered(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	err := r.db.WithContext(ctx).
		Where("active = true").Order("created_at, id").Find(&plans).Error
	return plans, err
}
