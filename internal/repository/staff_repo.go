package repository

import (
	"context"
	"time"

	"github.com/sime65123/gym-project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffRepository interface {
	Create(ctx context.Context, s *model.StaffMember) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StaffMember, error)
	List(ctx context.Context, category string) ([]model.StaffMember, error)
	Update(ctx context.Context, s *model.StaffMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type staffRepo struct{ db *gorm.DB }

func NewStaffRepository(db *gorm.DB) StaffRepository { return &staffRepo{db: db} }

func (r *staffRepo) DB() *gorm.DB { return r.db }

func (r *staffRepo) Create(ctx context.Context, s *model.StaffMember) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *staffRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	var s model.StaffMember
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *staffRepo) List(ctx context.Context, category string) ([]model.StaffMember, error) {
	var items []model.StaffMember
	q := r.db.WithContext(ctx).Order("last_name, first_name")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *staffRepo) Update(ctx context.Context, s *model.StaffMember) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *staffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StaffMember{}, id).Error
}

type AttendanceRepository interface {
	// Upsert records attendance for a staff member and day. Checking in the
	// same pair twice overwrites status and arrival time instead of failing
	// on the unique index.
	Upsert(ctx context.Context, a *model.Attendance) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Attendance, error)
	FindByStaffAndDay(ctx context.Context, staffID uuid.UUID, day time.Time) (*model.Attendance, error)
	List(ctx context.Context, f AttendanceFilter) ([]model.Attendance, error)
	Update(ctx context.Context, a *model.Attendance) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type AttendanceFilter struct {
	StaffID *uuid.UUID
	From    *time.Time
	To      *time.Time
}

type attendanceRepo struct{ db *gorm.DB }

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) DB() *gorm.DB { return r.db }

func (r *attendanceRepo) Upsert(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "arrival_time", "updated_at"}),
	}).Create(a).Error
}

func (r *attendanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).Preload("Staff").First(&a, id).Error
	return &a, err
}

func (r *attendanceRepo) FindByStaffAndDay(ctx context.Context, staffID uuid.UUID, day time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND day = ?", staffID, day).
		First(&a).Error
	return &a, err
}

func (r *attendanceRepo) List(ctx context.Context, f AttendanceFilter) ([]model.Attendance, error) {
	var items []model.Attendance
	q := r.db.WithContext(ctx).Preload("Staff").Order("day DESC")
	if f.StaffID != nil {
		q = q.Where("staff_id = ?", *f.StaffID)
	}
	if f.From != nil {
		q = q.Where("day >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("day <= ?", *f.To)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *attendanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Attendance{}, id).Error
}
