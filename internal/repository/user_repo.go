package repository

import (
	"context"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	// FindByIDForUpdate locks the user row inside tx; used by the balance
	// debit and the webhook recharge credit to avoid lost updates.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.User, error)
	AdjustBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	CountActiveClients(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) DB() *gorm.DB { return r.db }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND active = true", email).
		First(&u).Error
	return &u, err
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, id).Error
	return &u, err
}

func (r *userRepo) AdjustBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.User{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *userRepo) CountActiveClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = 'CLIENT' AND active = true").Count(&n).Error
	return n, err
}
