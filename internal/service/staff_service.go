package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"

	"github.com/google/uuid"
)

type StaffService interface {
	Create(ctx context.Context, req dto.CreateStaffRequest) (*dto.StaffResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error)
	List(ctx context.Context, category string) ([]dto.StaffResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CheckIn(ctx context.Context, req dto.CheckInRequest) (*dto.AttendanceResponse, error)
	UpdateAttendance(ctx context.Context, id uuid.UUID, req dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter dto.AttendanceFilter) ([]dto.AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id uuid.UUID) error
	DailyReport(ctx context.Context, day time.Time) (*dto.DailyAttendanceReport, error)
}

type staffService struct {
	repo           repository.StaffRepository
	attendanceRepo repository.AttendanceRepository
}

func NewStaffService(repo repository.StaffRepository, attendanceRepo repository.AttendanceRepository) StaffService {
	return &staffService{repo: repo, attendanceRepo: attendanceRepo}
}

func (s *staffService) Create(ctx context.Context, req dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return nil, fmt.Errorf("%w: hire_date", ErrValidation)
	}
	staff := &model.StaffMember{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		HireDate:  hireDate,
		Category:  req.Category,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}
	resp := staffToResponse(staff)
	return &resp, nil
}

func (s *staffService) Get(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: staff member", ErrNotFound)
	}
	resp := staffToResponse(staff)
	return &resp, nil
}

func (s *staffService) List(ctx context.Context, category string) ([]dto.StaffResponse, error) {
	items, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StaffResponse, len(items))
	for i := range items {
		resp[i] = staffToResponse(&items[i])
	}
	return resp, nil
}

func (s *staffService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: staff member", ErrNotFound)
	}
	if req.FirstName != "" {
		staff.FirstName = req.FirstName
	}
	if req.LastName != "" {
		staff.LastName = req.LastName
	}
	if req.HireDate != "" {
		d, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, fmt.Errorf("%w: hire_date", ErrValidation)
		}
		staff.HireDate = d
	}
	if req.Category != "" {
		staff.Category = req.Category
	}
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	resp := staffToResponse(staff)
	return &resp, nil
}

func (s *staffService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: staff member", ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}

// CheckIn records today's attendance for a staff member. A second check-in
// for the same staff and day overwrites the first.
func (s *staffService) CheckIn(ctx context.Context, req dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("%w: staff_id", ErrValidation)
	}
	staff, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: staff member", ErrNotFound)
	}

	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: day", ErrValidation)
	}

	if req.Status == "PRESENT" && req.ArrivalTime == nil {
		return nil, fmt.Errorf("%w: arrival_time required when present", ErrValidation)
	}
	arrival := req.ArrivalTime
	if req.Status == "ABSENT" {
		arrival = nil
	}

	att := &model.Attendance{
		StaffID:     staffID,
		Day:         day,
		Status:      req.Status,
		ArrivalTime: arrival,
	}
	if err := s.attendanceRepo.Upsert(ctx, att); err != nil {
		return nil, err
	}

	// Re-read after upsert so the response carries the stored row.
	stored, err := s.attendanceRepo.FindByStaffAndDay(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	stored.Staff = staff
	resp := attendanceToResponse(stored)
	return &resp, nil
}

func (s *staffService) UpdateAttendance(ctx context.Context, id uuid.UUID, req dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error) {
	att, err := s.attendanceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: attendance record", ErrNotFound)
	}
	if req.Status != "" {
		att.Status = req.Status
		if req.Status == "ABSENT" {
			att.ArrivalTime = nil
		}
	}
	if req.ArrivalTime != nil {
		att.ArrivalTime = req.ArrivalTime
	}
	if err := s.attendanceRepo.Update(ctx, att); err != nil {
		return nil, err
	}
	resp := attendanceToResponse(att)
	return &resp, nil
}

func (s *staffService) ListAttendance(ctx context.Context, filter dto.AttendanceFilter) ([]dto.AttendanceResponse, error) {
	repoFilter := repository.AttendanceFilter{}
	if filter.StaffID != "" {
		sid, err := uuid.Parse(filter.StaffID)
		if err != nil {
			return nil, fmt.Errorf("%w: staff_id", ErrValidation)
		}
		repoFilter.StaffID = &sid
	}
	if filter.Day != "" {
		day, err := time.Parse("2006-01-02", filter.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: day", ErrValidation)
		}
		repoFilter.From = &day
		repoFilter.To = &day
	}

	items, err := s.attendanceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AttendanceResponse, 0, len(items))
	for i := range items {
		if filter.Status != "" && items[i].Status != filter.Status {
			continue
		}
		resp = append(resp, attendanceToResponse(&items[i]))
	}
	return resp, nil
}

// DailyReport crosses the staff roster with one day's attendance rows. Staff
// with no row for the day are reported as NOT_RECORDED rather than omitted.
func (s *staffService) DailyReport(ctx context.Context, day time.Time) (*dto.DailyAttendanceReport, error) {
	roster, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.List(ctx, repository.AttendanceFilter{From: &day, To: &day})
	if err != nil {
		return nil, err
	}
	byStaff := make(map[uuid.UUID]*model.Attendance, len(records))
	for i := range records {
		byStaff[records[i].StaffID] = &records[i]
	}

	report := &dto.DailyAttendanceReport{
		Day:     day.Format("2006-01-02"),
		Entries: make([]dto.DailyAttendanceEntry, 0, len(roster)),
	}
	for i := range roster {
		entry := dto.DailyAttendanceEntry{
			StaffID:   roster[i].ID.String(),
			StaffName: roster[i].FirstName + " " + roster[i].LastName,
			Category:  roster[i].Category,
			Status:    "NOT_RECORDED",
		}
		if att, ok := byStaff[roster[i].ID]; ok {
			entry.Status = att.Status
			entry.ArrivalTime = att.ArrivalTime
		}
		switch entry.Status {
		case "PRESENT":
			report.Present++
		case "ABSENT":
			report.Absent++
		default:
			report.NotRecorded++
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

func (s *staffService) DeleteAttendance(ctx context.Context, id uuid.UUID) error {
	if _, err := s.attendanceRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: attendance record", ErrNotFound)
	}
	return s.attendanceRepo.Delete(ctx, id)
}

func staffToResponse(m *model.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:        m.ID.String(),
		FirstName: m.FirstName,
		LastName:  m.LastName,
		HireDate:  m.HireDate.Format("2006-01-02"),
		Category:  m.Category,
	}
}

func attendanceToResponse(a *model.Attendance) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:          a.ID.String(),
		StaffID:     a.StaffID.String(),
		Day:         a.Day.Format("2006-01-02"),
		Status:      a.Status,
		ArrivalTime: a.ArrivalTime,
	}
	if a.Staff != nil {
		resp.StaffName = a.Staff.FirstName + " " + a.Staff.LastName
	}
	return resp
}
