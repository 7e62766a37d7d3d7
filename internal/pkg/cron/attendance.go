package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
)

const recountAbsencesJob = "recount_absences"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(recountAbsencesJob, j.interval, j.RecountAbsences)
}

// RecountAbsences brings every employee's absence tally in line with this month's records
func (j *AttendanceJobs) RecountAbsences(ctx context.Context) error {
	changed, err := j.attendanceService.RecountAbsences(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to recount absences: %w", err)
	}
	if changed > 0 {
		slog.Info("Cron: absence tallies updated", "employees", changed)
	}
	return nil
}
