package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubAttendanceRepo mirrors the (staff_id, day) unique index of the real
// table: Upsert overwrites the existing row for the pair.
type stubAttendanceRepo struct {
	rows map[string]*model.Attendance
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{rows: make(map[string]*model.Attendance)}
}

func attKey(staffID uuid.UUID, day time.Time) string {
	return staffID.String() + "|" + day.Format("2006-01-02")
}

func (r *stubAttendanceRepo) Upsert(_ context.Context, a *model.Attendance) error {
	key := attKey(a.StaffID, a.Day)
	if existing, ok := r.rows[key]; ok {
		existing.Status = a.Status
		existing.ArrivalTime = a.ArrivalTime
		return nil
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.rows[key] = a
	return nil
}

func (r *stubAttendanceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Attendance, error) {
	for _, a := range r.rows {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAttendanceRepo) FindByStaffAndDay(_ context.Context, staffID uuid.UUID, day time.Time) (*model.Attendance, error) {
	a, ok := r.rows[attKey(staffID, day)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, a := range r.rows {
		if f.StaffID != nil && a.StaffID != *f.StaffID {
			continue
		}
		if f.From != nil && a.Day.Before(*f.From) {
			continue
		}
		if f.To != nil && a.Day.After(*f.To) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	r.rows[attKey(a.StaffID, a.Day)] = a
	return nil
}

func (r *stubAttendanceRepo) Delete(_ context.Context, id uuid.UUID) error {
	for key, a := range r.rows {
		if a.ID == id {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *stubAttendanceRepo) DB() *gorm.DB { return nil }

var _ repository.AttendanceRepository = (*stubAttendanceRepo)(nil)

func newStaffFixture() (service.StaffService, *stubStaffRepo, *stubAttendanceRepo) {
	staff := newStubStaffRepo()
	attendance := newStubAttendanceRepo()
	return service.NewStaffService(staff, attendance), staff, attendance
}

func TestCheckInRecordsPresence(t *testing.T) {
	svc, staff, _ := newStaffFixture()
	coach := staff.add(&model.StaffMember{FirstName: "Awa", LastName: "Diop", Category: "COACH"})

	arrival := "08:30"
	resp, err := svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID:     coach.ID.String(),
		Day:         "2026-09-01",
		Status:      "PRESENT",
		ArrivalTime: &arrival,
	})
	require.NoError(t, err)

	assert.Equal(t, "PRESENT", resp.Status)
	require.NotNil(t, resp.ArrivalTime)
	assert.Equal(t, "08:30", *resp.ArrivalTime)
	assert.Equal(t, "Awa Diop", resp.StaffName)
}

func TestCheckInPresentRequiresArrivalTime(t *testing.T) {
	svc, staff, _ := newStaffFixture()
	coach := staff.add(&model.StaffMember{FirstName: "Awa", LastName: "Diop", Category: "COACH"})

	_, err := svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID: coach.ID.String(),
		Day:     "2026-09-01",
		Status:  "PRESENT",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCheckInSameDayOverwrites(t *testing.T) {
	svc, staff, attendance := newStaffFixture()
	coach := staff.add(&model.StaffMember{FirstName: "Awa", LastName: "Diop", Category: "COACH"})

	arrival := "08:30"
	_, err := svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID:     coach.ID.String(),
		Day:         "2026-09-01",
		Status:      "PRESENT",
		ArrivalTime: &arrival,
	})
	require.NoError(t, err)

	// Correcting the same day to ABSENT replaces the row and clears the time.
	resp, err := svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID:     coach.ID.String(),
		Day:         "2026-09-01",
		Status:      "ABSENT",
		ArrivalTime: &arrival,
	})
	require.NoError(t, err)

	assert.Equal(t, "ABSENT", resp.Status)
	assert.Nil(t, resp.ArrivalTime)
	assert.Len(t, attendance.rows, 1)
}

func TestCheckInUnknownStaff(t *testing.T) {
	svc, _, _ := newStaffFixture()

	arrival := "08:30"
	_, err := svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID:     uuid.NewString(),
		Day:         "2026-09-01",
		Status:      "PRESENT",
		ArrivalTime: &arrival,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDailyReportCoversFullRoster(t *testing.T) {
	svc, staff, _ := newStaffFixture()
	coach := staff.add(&model.StaffMember{FirstName: "Awa", LastName: "Diop", Category: "COACH"})
	cleaner := staff.add(&model.StaffMember{FirstName: "Moussa", LastName: "Ba", Category: "CLEANING"})
	staff.add(&model.StaffMember{FirstName: "Fatou", LastName: "Sall", Category: "OTHER"})

	arrival := "07:45"
	_, err := svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID:     coach.ID.String(),
		Day:         "2026-09-01",
		Status:      "PRESENT",
		ArrivalTime: &arrival,
	})
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), dto.CheckInRequest{
		StaffID: cleaner.ID.String(),
		Day:     "2026-09-01",
		Status:  "ABSENT",
	})
	require.NoError(t, err)

	day, _ := time.Parse("2006-01-02", "2026-09-01")
	report, err := svc.DailyReport(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", report.Day)
	assert.Equal(t, 1, report.Present)
	assert.Equal(t, 1, report.Absent)
	assert.Equal(t, 1, report.NotRecorded)
	require.Len(t, report.Entries, 3)

	byName := make(map[string]dto.DailyAttendanceEntry, len(report.Entries))
	for _, e := range report.Entries {
		byName[e.StaffName] = e
	}
	assert.Equal(t, "PRESENT", byName["Awa Diop"].Status)
	require.NotNil(t, byName["Awa Diop"].ArrivalTime)
	assert.Equal(t, "ABSENT", byName["Moussa Ba"].Status)
	assert.Equal(t, "NOT_RECORDED", byName["Fatou Sall"].Status)

	// A day with no records reports the whole roster as unrecorded.
	other, _ := time.Parse("2006-01-02", "2026-09-02")
	report, err = svc.DailyReport(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 3, report.NotRecorded)
}
