package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, check_in, check_out, check_in_photo_url,
	check_out_photo_url, status, shift, branch_id, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.CheckInPhotoURL,
		&rec.CheckOutPhotoURL, &rec.Status, &rec.Shift, &rec.BranchID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Insert implements attendance.AttendanceRepository. One record per employee per day.
func (r *attendanceRepositoryImpl) Insert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in, check_out, check_in_photo_url, check_out_photo_url,
			status, shift, branch_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.Date, record.CheckIn, record.CheckOut,
		record.CheckInPhotoURL, record.CheckOutPhotoURL, record.Status, record.Shift, record.BranchID,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_attendance_employee_date") {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, database.WrapStoreError("insert attendance", err)
	}
	return created, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, id string, fields attendance.UpdateFields) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	var setClauses []string
	var args []interface{}
	argIdx := 1

	if fields.CheckOut != nil {
		setClauses = append(setClauses, fmt.Sprintf("check_out = $%d", argIdx))
		args = append(args, *fields.CheckOut)
		argIdx++
	}
	if fields.CheckOutPhotoURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("check_out_photo_url = $%d", argIdx))
		args = append(args, *fields.CheckOutPhotoURL)
		argIdx++
	}
	if fields.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *fields.Status)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE attendances SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, attendanceColumns)
	args = append(args, id)

	updated, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, database.WrapStoreError("update attendance", err)
	}
	return updated, nil
}

// GetByEmployeeDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, database.WrapStoreError("get attendance", err)
	}
	return rec, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + ` FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, employee_id`
	return r.list(ctx, query, employeeID, from, to)
}

// ListByRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + ` FROM attendances
		WHERE date >= $1 AND date < $2
		ORDER BY date, employee_id`
	return r.list(ctx, query, from, to)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, database.WrapStoreError("list attendances", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, database.WrapStoreError("scan attendance", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, database.WrapStoreError("list attendances", err)
	}
	return records, nil
}
