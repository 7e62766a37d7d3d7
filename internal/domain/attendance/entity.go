package attendance

import (
	"time"
)

type Status string

const (
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusOnBreak    Status = "on_break"
	StatusAbsent     Status = "absent"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCheckedIn, StatusCheckedOut, StatusOnBreak, StatusAbsent:
		return true
	}
	return false
}

// Shift is one of the shop's fixed work shifts.
type Shift string

const (
	ShiftPagi  Shift = "pagi"
	ShiftSiang Shift = "siang"
	ShiftMalam Shift = "malam"
)

type shiftWindow struct {
	startHour int
	hours     int
}

var shiftWindows = map[Shift]shiftWindow{
	ShiftPagi:  {startHour: 8, hours: 8},
	ShiftSiang: {startHour: 12, hours: 8},
	ShiftMalam: {startHour: 16, hours: 8},
}

func (s Shift) IsValid() bool {
	_, ok := shiftWindows[s]
	return ok
}

// StartOn returns the shift start on the calendar day of date, in date's location.
func (s Shift) StartOn(date time.Time) time.Time {
	w := shiftWindows[s]
	return time.Date(date.Year(), date.Month(), date.Day(), w.startHour, 0, 0, 0, date.Location())
}

// ScheduledHours is the planned length of the shift.
func (s Shift) ScheduledHours() float64 {
	return float64(shiftWindows[s].hours)
}

type Record struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckIn          *time.Time
	CheckOut         *time.Time
	CheckInPhotoURL  *string
	CheckOutPhotoURL *string
	Status           Status
	Shift            Shift
	BranchID         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UpdateFields is a partial update of a record.
type UpdateFields struct {
	CheckOut         *time.Time
	CheckOutPhotoURL *string
	Status           *Status
}

// DayClass is the outcome of classifying one attendance day.
type DayClass string

const (
	DayPresent DayClass = "present"
	DayLate    DayClass = "late"
	DayAbsent  DayClass = "absent"
)

// QuotaStatus is derived from the absence counters on every read and never stored.
type QuotaStatus string

const (
	QuotaWithin    QuotaStatus = "withinQuota"
	QuotaNearLimit QuotaStatus = "nearLimit"
	QuotaOver      QuotaStatus = "overQuota"
)

// Quota is the evaluated absence allowance of one employee.
type Quota struct {
	MaxAbsentDays     int
	CurrentAbsentDays int
	RemainingDays     int // may be negative
	ExcessDays        int
	Status            QuotaStatus
}

// DisplayRemaining clamps RemainingDays at zero for presentation.
func (q Quota) DisplayRemaining() int {
	if q.RemainingDays < 0 {
		return 0
	}
	return q.RemainingDays
}

// Summary is the attendance aggregate of one employee over a window.
type Summary struct {
	EmployeeID     string
	From           time.Time
	To             time.Time
	WorkDays       int
	PresentDays    int
	LateDays       int
	AbsentDays     int
	OvertimeHours  float64
	AttendanceRate int
	Quota          Quota
}
