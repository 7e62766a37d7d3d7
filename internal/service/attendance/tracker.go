package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
)

// startOfDay truncates t to local midnight in t's location. time.Truncate works in UTC and
// would shift the day for non-UTC zones.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// windowEnd is the exclusive day boundary of [from, to) as seen at now: to rounded up to a
// whole day, capped at the start of tomorrow.
func windowEnd(to, now time.Time) time.Time {
	end := startOfDay(to)
	if !to.Equal(end) {
		end = end.AddDate(0, 0, 1)
	}
	if tomorrow := startOfDay(now).AddDate(0, 0, 1); end.After(tomorrow) {
		end = tomorrow
	}
	return end
}

// WorkDaysIn counts the calendar days in [from, to), not counting days after now.
func WorkDaysIn(from, to, now time.Time) int {
	start := startOfDay(from)
	end := windowEnd(to, now)

	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// ClassifyDay decides whether record counts as present, late or absent. A check-in later
// than the shift start plus grace is late.
func ClassifyDay(record attendance.Record, grace time.Duration) attendance.DayClass {
	if record.Status == attendance.StatusAbsent || record.CheckIn == nil {
		return attendance.DayAbsent
	}
	if !record.Shift.IsValid() {
		return attendance.DayPresent
	}

	scheduledIn := record.Shift.StartOn(*record.CheckIn)
	if record.CheckIn.After(scheduledIn.Add(grace)) {
		return attendance.DayLate
	}
	return attendance.DayPresent
}

// Overtime is worked hours beyond the scheduled shift length, or 0. Open records have none.
func Overtime(record attendance.Record) float64 {
	if record.CheckIn == nil || record.CheckOut == nil || !record.Shift.IsValid() {
		return 0
	}
	worked := record.CheckOut.Sub(*record.CheckIn).Hours()
	return math.Max(0, worked-record.Shift.ScheduledHours())
}

// ComputeAttendanceRate returns attended days over work days as a whole percent. Late days
// count as attended. Zero work days yields 0.
func ComputeAttendanceRate(records []attendance.Record, workDays int, grace time.Duration) int {
	if workDays <= 0 {
		return 0
	}
	present, late, _ := countDays(records, grace)
	return int(math.Round(float64(present+late) / float64(workDays) * 100))
}

// countDays classifies each distinct day once; a day with any attended record wins over an
// absent one.
func countDays(records []attendance.Record, grace time.Duration) (present, late, absent int) {
	byDay := make(map[time.Time]attendance.DayClass, len(records))
	for _, r := range records {
		day := startOfDay(r.Date)
		class := ClassifyDay(r, grace)
		if prev, ok := byDay[day]; ok && prev != attendance.DayAbsent {
			continue
		}
		byDay[day] = class
	}
	for _, class := range byDay {
		switch class {
		case attendance.DayPresent:
			present++
		case attendance.DayLate:
			late++
		case attendance.DayAbsent:
			absent++
		}
	}
	return present, late, absent
}

// EvaluateQuota derives the absence quota status from the two counters.
func EvaluateQuota(maxAbsentDays, currentAbsentDays int) attendance.Quota {
	remaining := maxAbsentDays - currentAbsentDays
	q := attendance.Quota{
		MaxAbsentDays:     maxAbsentDays,
		CurrentAbsentDays: currentAbsentDays,
		RemainingDays:     remaining,
		ExcessDays:        max(0, currentAbsentDays-maxAbsentDays),
	}
	switch {
	case remaining < 0:
		q.Status = attendance.QuotaOver
	case remaining <= 2:
		q.Status = attendance.QuotaNearLimit
	default:
		q.Status = attendance.QuotaWithin
	}
	return q
}

// RecordsInWindow keeps the records dated inside the same days WorkDaysIn counts, so a
// record dated after now never lands in the numerator.
func RecordsInWindow(records []attendance.Record, from, to, now time.Time) []attendance.Record {
	start := startOfDay(from)
	end := windowEnd(to, now)

	kept := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		day := startOfDay(r.Date)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Summarize aggregates records over [from, to) as seen at now.
func Summarize(employeeID string, records []attendance.Record, from, to, now time.Time, grace time.Duration, quota attendance.Quota) attendance.Summary {
	workDays := WorkDaysIn(from, to, now)
	records = RecordsInWindow(records, from, to, now)
	present, late, absent := countDays(records, grace)

	overtime := 0.0
	for _, r := range records {
		overtime += Overtime(r)
	}

	return attendance.Summary{
		EmployeeID:     employeeID,
		From:           from,
		To:             to,
		WorkDays:       workDays,
		PresentDays:    present,
		LateDays:       late,
		AbsentDays:     absent,
		OvertimeHours:  math.Round(overtime*100) / 100,
		AttendanceRate: ComputeAttendanceRate(records, workDays, grace),
		Quota:          quota,
	}
}
