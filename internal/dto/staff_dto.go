package dto

type CreateStaffRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
	HireDate  string `json:"hire_date"  validate:"required,datetime=2006-01-02"`
	Category  string `json:"category"   validate:"required,oneof=COACH CLEANING CARE_ASSISTANT OTHER"`
}

type UpdateStaffRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"omitempty,min=1,max=100"`
	HireDate  string `json:"hire_date"  validate:"omitempty,datetime=2006-01-02"`
	Category  string `json:"category"   validate:"omitempty,oneof=COACH CLEANING CARE_ASSISTANT OTHER"`
}

type StaffResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	HireDate  string `json:"hire_date"`
	Category  string `json:"category"`
}

// ─── Attendance ──────────────────────────────────────────────────────────────

type CheckInRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
	Day     string `json:"day"      validate:"required,datetime=2006-01-02"`
	Status  string `json:"status"   validate:"required,oneof=PRESENT ABSENT"`
	// ArrivalTime "HH:MM"; required when PRESENT
	ArrivalTime *string `json:"arrival_time" validate:"omitempty,datetime=15:04"`
}

type UpdateAttendanceRequest struct {
	Status      string  `json:"status"       validate:"omitempty,oneof=PRESENT ABSENT"`
	ArrivalTime *string `json:"arrival_time" validate:"omitempty,datetime=15:04"`
}

type AttendanceResponse struct {
	ID          string  `json:"id"`
	StaffID     string  `json:"staff_id"`
	StaffName   string  `json:"staff_name,omitempty"`
	Day         string  `json:"day"`
	Status      string  `json:"status"`
	ArrivalTime *string `json:"arrival_time"`
}

// DailyAttendanceReport covers the whole staff roster for one day: members
// with no attendance row appear as NOT_RECORDED.
type DailyAttendanceReport struct {
	Day         string                 `json:"day"`
	Present     int                    `json:"present"`
	Absent      int                    `json:"absent"`
	NotRecorded int                    `json:"not_recorded"`
	Entries     []DailyAttendanceEntry `json:"entries"`
}

type DailyAttendanceEntry struct {
	StaffID     string  `json:"staff_id"`
	StaffName   string  `json:"staff_name"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	ArrivalTime *string `json:"arrival_time,omitempty"`
}

type AttendanceFilter struct {
	StaffID string `form:"staff_id"`
	Day     string `form:"day"`
	Status  string `form:"status"`
}
