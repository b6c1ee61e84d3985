package repository

import (
	"context"
	"time"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	CreateTx(tx *gorm.DB, p *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, trxID string) (*model.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]model.Payment, int64, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	// MarkPaidIfPending flips PENDING to PAID with a conditional UPDATE and
	// reports whether this call won the transition. A second webhook delivery
	// for the same transaction sees zero rows affected and becomes a no-op.
	MarkPaidIfPending(tx *gorm.DB, id uuid.UUID, paidAt time.Time) (bool, error)
	// SumPaidByReservation totals PAID payments attached to a reservation,
	// inside the caller's transaction so it observes the row just inserted.
	SumPaidByReservation(tx *gorm.DB, reservationID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type PaymentFilter struct {
	Status   string
	Method   string
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) DB() *gorm.DB { return r.db }

func (r *paymentRepo) Create(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) CreateTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Preload("Client").Preload("Plan").Preload("Session").
		First(&p, id).Error
	return &p, err
}

func (r *paymentRepo) FindByTransactionID(ctx context.Context, trxID string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", trxID).First(&p).Error
	return &p, err
}

func (r *paymentRepo) List(ctx context.Context, f PaymentFilter) ([]model.Payment, int64, error) {
	var (
		items []model.Payment
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Payment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
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

func (r *paymentRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Payment, error) {
	var items []model.Payment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Preload("Plan").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *paymentRepo) Update(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *paymentRepo) MarkPaidIfPending(tx *gorm.DB, id uuid.UUID, paidAt time.Time) (bool, error) {
	res := tx.Model(&model.Payment{}).
		Where("id = ? AND status = 'PENDING'", id).
		Updates(map[string]interface{}{"status": "PAID", "paid_at": paidAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *paymentRepo) SumPaidByReservation(tx *gorm.DB, reservationID uuid.UUID) (decimal.Decimal, error) {
	var raw struct {
		Total decimal.Decimal
	}
	err := tx.Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("reservation_id = ? AND status = 'PAID'", reservationID).
		Scan(&raw).Error
	return raw.Total, err
}
