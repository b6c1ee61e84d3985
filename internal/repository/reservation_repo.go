package repository

import (
	"context"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository interface {
	Create(ctx context.Context, res *model.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// FindByIDForUpdate locks the reservation row for the duration of tx so
	// concurrent validations of the same reservation serialize.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context, f ReservationFilter) ([]model.Reservation, int64, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Reservation, error)
	Update(ctx context.Context, res *model.Reservation) error
	UpdateTx(tx *gorm.DB, res *model.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type ReservationFilter struct {
	Status string
	Kind   string
	Page   int
	Limit  int
}

type reservationRepo struct{ db *gorm.DB }

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) DB() *gorm.DB { return r.db }

func (r *reservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *reservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Client").Preload("Plan").
		First(&res, id).Error
	return &res, err
}

func (r *reservationRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error
	return &res, err
}

func (r *reservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, int64, error) {
	var (
		items []model.Reservation
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Reservation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	err := q.Preload("Client").Preload("Plan").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *reservationRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Reservation, error) {
	var items []model.Reservation
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Preload("Plan").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *reservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *reservationRepo) UpdateTx(tx *gorm.DB, res *model.Reservation) error {
	return tx.Save(res).Error
}

func (r *reservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Reservation{}, id).Error
}
