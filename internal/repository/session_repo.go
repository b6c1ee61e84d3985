package repository

import (
	"context"
	"time"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	CreateTx(tx *gorm.DB, s *model.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	List(ctx context.Context, from, to *time.Time) ([]model.Session, error)
	Update(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	DB() *gorm.DB
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) DB() *gorm.DB { return r.db }

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) CreateTx(tx *gorm.DB, s *model.Session) error {
	return tx.Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Preload("Coach").First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) List(ctx context.Context, from, to *time.Time) ([]model.Session, error) {
	var items []model.Session
	q := r.db.WithContext(ctx).Preload("Coach").Order("date DESC, created_at DESC")
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *sessionRepo) Update(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Session{}, id).Error
}

func (r *sessionRepo) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("date >= ? AND date < ?", from, to).Count(&n).Error
	return n, err
}
