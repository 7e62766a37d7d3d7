package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	grace time.Duration
	loc   *time.Location
	now   func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	grace time.Duration,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		grace:                grace,
		loc:                  time.Local,
		now:                  time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func (a *AttendanceServiceImpl) Summary(ctx context.Context, employeeID string, from, to time.Time) (attendance.SummaryResponse, error) {
	if to.Before(from) {
		return attendance.SummaryResponse{}, attendance.ErrInvalidWindow
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, emp.ID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to load attendance records: %w", err)
	}

	quota := EvaluateQuota(emp.MaxAbsentDays, emp.CurrentAbsentDays)
	summary := Summarize(emp.ID, records, from, to, a.now().In(a.loc), a.grace, quota)
	return toSummaryResponse(summary), nil
}

func (a *AttendanceServiceImpl) UpdateQuota(ctx context.Context, req attendance.UpdateQuotaRequest) (attendance.QuotaResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.QuotaResponse{}, err
	}

	updated, err := a.EmployeeRepository.Update(ctx, req.EmployeeID, employee.UpdateFields{
		MaxAbsentDays: &req.MaxAbsentDays,
	})
	if err != nil {
		return attendance.QuotaResponse{}, err
	}

	return attendance.NewQuotaResponse(updated.ID, EvaluateQuota(updated.MaxAbsentDays, updated.CurrentAbsentDays)), nil
}

func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	now := a.now().In(a.loc)
	if err := req.Validate(now); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	at := now
	if req.At != nil {
		at = req.At.In(a.loc)
	}
	date := startOfDay(at)

	_, err = a.AttendanceRepository.GetByEmployeeDate(ctx, emp.ID, date)
	if err == nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	branchID := req.BranchID
	if branchID == "" {
		branchID = emp.BranchID
	}

	created, err := a.AttendanceRepository.Insert(ctx, attendance.Record{
		EmployeeID:      emp.ID,
		Date:            date,
		CheckIn:         &at,
		CheckInPhotoURL: req.PhotoURL,
		Status:          attendance.StatusCheckedIn,
		Shift:           attendance.Shift(req.Shift),
		BranchID:        branchID,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return a.toRecordResponse(created), nil
}

func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	at := a.now().In(a.loc)
	if err := req.Validate(at); err != nil {
		return attendance.RecordResponse{}, err
	}
	if req.At != nil {
		at = req.At.In(a.loc)
	}

	record, err := a.AttendanceRepository.GetByEmployeeDate(ctx, req.EmployeeID, startOfDay(at))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.RecordResponse{}, err
	}
	if record.Status == attendance.StatusAbsent || record.CheckIn == nil {
		return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}

	status := attendance.StatusCheckedOut
	updated, err := a.AttendanceRepository.Update(ctx, record.ID, attendance.UpdateFields{
		CheckOut:         &at,
		CheckOutPhotoURL: req.PhotoURL,
		Status:           &status,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return a.toRecordResponse(updated), nil
}

// MarkAbsent records an absence and, for the current month, bumps the employee's tally.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkAbsentRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, a.loc)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if date.After(startOfDay(a.now().In(a.loc))) {
		return attendance.RecordResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "must not be in the future"},
		}
	}

	var created attendance.Record
	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		emp, err := a.EmployeeRepository.GetByID(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}

		if _, err := a.AttendanceRepository.GetByEmployeeDate(txCtx, emp.ID, date); err == nil {
			return attendance.ErrAttendanceExists
		} else if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}

		branchID := req.BranchID
		if branchID == "" {
			branchID = emp.BranchID
		}
		created, err = a.AttendanceRepository.Insert(txCtx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       date,
			Status:     attendance.StatusAbsent,
			Shift:      attendance.Shift(req.Shift),
			BranchID:   branchID,
		})
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.ErrAttendanceExists
		}
		if err != nil {
			return fmt.Errorf("failed to create absence record: %w", err)
		}

		now := a.now().In(a.loc)
		if date.Year() == now.Year() && date.Month() == now.Month() {
			count := emp.CurrentAbsentDays + 1
			if _, err := a.EmployeeRepository.Update(txCtx, emp.ID, employee.UpdateFields{CurrentAbsentDays: &count}); err != nil {
				return fmt.Errorf("failed to update absence tally: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return a.toRecordResponse(created), nil
}

func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.RecordResponse, error) {
	if to.Before(from) {
		return nil, attendance.ErrInvalidWindow
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, a.toRecordResponse(r))
	}
	return result, nil
}

// RecountAbsences sets every employee's CurrentAbsentDays to the number of absent days
// recorded in the month containing now. It returns how many employees changed.
func (a *AttendanceServiceImpl) RecountAbsences(ctx context.Context, now time.Time) (int, error) {
	local := now.In(a.loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, a.loc)
	to := from.AddDate(0, 1, 0)

	records, err := a.AttendanceRepository.ListByRange(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to load attendance records: %w", err)
	}

	absentDays := make(map[string]map[time.Time]bool)
	for _, r := range records {
		if ClassifyDay(r, a.grace) != attendance.DayAbsent {
			continue
		}
		if absentDays[r.EmployeeID] == nil {
			absentDays[r.EmployeeID] = make(map[time.Time]bool)
		}
		absentDays[r.EmployeeID][startOfDay(r.Date)] = true
	}

	employees, err := a.EmployeeRepository.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	changed := 0
	for _, emp := range employees {
		count := len(absentDays[emp.ID])
		if count == emp.CurrentAbsentDays {
			continue
		}
		if _, err := a.EmployeeRepository.Update(ctx, emp.ID, employee.UpdateFields{CurrentAbsentDays: &count}); err != nil {
			return changed, fmt.Errorf("failed to update absence tally for %s: %w", emp.ID, err)
		}
		slog.Info("Absence tally recounted", "employee_id", emp.ID, "from", emp.CurrentAbsentDays, "to", count)
		changed++
	}
	return changed, nil
}

// ========== HELPERS ==========

func (a *AttendanceServiceImpl) toRecordResponse(r attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		Date:             r.Date.Format("2006-01-02"),
		CheckIn:          timePtrToString(r.CheckIn),
		CheckOut:         timePtrToString(r.CheckOut),
		CheckInPhotoURL:  r.CheckInPhotoURL,
		CheckOutPhotoURL: r.CheckOutPhotoURL,
		Status:           string(r.Status),
		Shift:            string(r.Shift),
		BranchID:         r.BranchID,
		DayClass:         string(ClassifyDay(r, a.grace)),
	}
}

func toSummaryResponse(s attendance.Summary) attendance.SummaryResponse {
	return attendance.SummaryResponse{
		EmployeeID:     s.EmployeeID,
		From:           s.From.Format("2006-01-02"),
		To:             s.To.Format("2006-01-02"),
		WorkDays:       s.WorkDays,
		PresentDays:    s.PresentDays,
		LateDays:       s.LateDays,
		AbsentDays:     s.AbsentDays,
		OvertimeHours:  s.OvertimeHours,
		AttendanceRate: s.AttendanceRate,
		Quota:          attendance.NewQuotaResponse(s.EmployeeID, s.Quota),
	}
}
