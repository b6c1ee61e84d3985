package repository

import (
	"context"
	"time"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	CreateTx(tx *gorm.DB, m *model.Membership) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error)
	List(ctx context.Context, activeOnly bool) ([]model.Membership, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Membership, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.Membership, error)
	Update(ctx context.Context, m *model.Membership) error
	// DeactivateExpired flips active memberships whose end date has passed
	// and returns how many rows changed. Run daily by the cron sweep.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	DB() *gorm.DB
}

type membershipRepo struct{ db *gorm.DB }

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) DB() *gorm.DB { return r.db }

func (r *membershipRepo) Create(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *membershipRepo) CreateTx(tx *gorm.DB, m *model.Membership) error {
	return tx.Create(m).Error
}

func (r *membershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).Preload("Client").Preload("Plan").First(&m, id).Error
	return &m, err
}

func (r *membershipRepo) List(ctx context.Context, activeOnly bool) ([]model.Membership, error) {
	var items []model.Membership
	q := r.db.WithContext(ctx).Preload("Client").Preload("Plan").Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = true")
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *membershipRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Membership, error) {
	var items []model.Membership
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Preload("Plan").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *membershipRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]model.Membership, error) {
	var items []model.Membership
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Preload("Client").
		Preload("Plan").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *membershipRepo) Update(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *membershipRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("active = true AND end_date < ?", now).
		Update("active", false)
	return res.RowsAffected, res.Error
}
