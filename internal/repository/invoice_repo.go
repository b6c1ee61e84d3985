package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*model.Invoice, error)
	// GetOrCreate returns the existing invoice for the payment or inserts a
	// fresh one. The unique index on payment_id makes the insert race-safe:
	// the loser of a concurrent insert re-reads the winner's row.
	GetOrCreate(ctx context.Context, paymentID uuid.UUID, kind string) (*model.Invoice, bool, error)
	List(ctx context.Context, page, limit int) ([]model.Invoice, int64, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	// ListPendingRetries returns invoices whose PDF generation failed and
	// whose backoff window has elapsed.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Invoice, error)
	// ListPaidWithoutInvoice finds PAID payments that never got an invoice
	// row, for the repair sweep.
	ListPaidWithoutInvoice(ctx context.Context, limit int) ([]model.Payment, error)
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Payment").First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) GetOrCreate(ctx context.Context, paymentID uuid.UUID, kind string) (*model.Invoice, bool, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&inv).Error
	if err == nil {
		return &inv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	inv = model.Invoice{
		PaymentID: paymentID,
		Reference: uuid.New(),
		Kind:      kind,
	}
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.Invoice
			if ferr := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&existing).Error; ferr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &inv, true, nil
}

func (r *invoiceRepo) List(ctx context.Context, page, limit int) ([]model.Invoice, int64, error) {
	var (
		items []model.Invoice
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	err := r.db.WithContext(ctx).
		Preload("Payment").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *invoiceRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Invoice, error) {
	var items []model.Invoice
	err := r.db.WithContext(ctx).
		Joins("JOIN payments ON payments.id = invoices.payment_id").
		Where("payments.client_id = ?", clientID).
		Preload("Payment").
		Order("invoices.created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invoiceRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Invoice, error) {
	var items []model.Invoice
	err := r.db.WithContext(ctx).
		Where("pdf_path IS NULL AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *invoiceRepo) ListPaidWithoutInvoice(ctx context.Context, limit int) ([]model.Payment, error) {
	var items []model.Payment
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Joins("LEFT JOIN invoices ON invoices.payment_id = payments.id").
		Where("payments.status = 'PAID' AND invoices.id IS NULL").
		Order("payments.paid_at").
		Limit(limit).
		Find(&items).Error
	return items, err
}
