package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *attendanceRepository) Insert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	r.store.mu.Lock()
	for _, existing := range r.store.attendances {
		if existing.EmployeeID == record.EmployeeID && sameDay(existing.Date, record.Date) {
			r.store.mu.Unlock()
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
	}
	if record.ID == "" {
		record.ID = newID()
	}
	now := r.store.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.store.attendances[record.ID] = record
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableAttendances, changefeed.OpInsert, record.ID)
	return record, nil
}

func (r *attendanceRepository) Update(ctx context.Context, id string, fields attendance.UpdateFields) (attendance.Record, error) {
	r.store.mu.Lock()
	record, ok := r.store.attendances[id]
	if !ok {
		r.store.mu.Unlock()
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if fields.CheckOut != nil {
		record.CheckOut = fields.CheckOut
	}
	if fields.CheckOutPhotoURL != nil {
		record.CheckOutPhotoURL = fields.CheckOutPhotoURL
	}
	if fields.Status != nil {
		record.Status = *fields.Status
	}
	record.UpdatedAt = r.store.now()
	r.store.attendances[id] = record
	r.store.mu.Unlock()

	r.store.notify(changefeed.TableAttendances, changefeed.OpUpdate, id)
	return record, nil
}

func (r *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, record := range r.store.attendances {
		if record.EmployeeID == employeeID && sameDay(record.Date, date) {
			return record, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	return r.list(func(rec attendance.Record) bool {
		return rec.EmployeeID == employeeID && inRange(rec.Date, from, to)
	}), nil
}

func (r *attendanceRepository) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return r.list(func(rec attendance.Record) bool {
		return inRange(rec.Date, from, to)
	}), nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *attendanceRepository) list(keep func(attendance.Record) bool) []attendance.Record {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]attendance.Record, 0)
	for _, rec := range r.store.attendances {
		if keep(rec) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result
}
