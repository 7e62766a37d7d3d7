package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recountStub struct {
	attendance.AttendanceService
	calls   atomic.Int32
	lastNow time.Time
	err     error
}

func (s *recountStub) RecountAbsences(ctx context.Context, now time.Time) (int, error) {
	s.calls.Add(1)
	s.lastNow = now
	return 1, s.err
}

func TestScheduler_RunsJobImmediatelyAndStops(t *testing.T) {
	scheduler := NewScheduler(context.Background())
	var runs atomic.Int32
	scheduler.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	scheduler.Start()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	scheduler.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	scheduler := NewScheduler(context.Background())
	boom := errors.New("boom")
	scheduler.AddJob("ok", time.Hour, func(ctx context.Context) error { return nil })
	scheduler.AddJob("broken", time.Hour, func(ctx context.Context) error { return boom })

	err := scheduler.RunOnce(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}

func TestAttendanceJobs_RecountAbsences(t *testing.T) {
	stub := &recountStub{}
	jobs := NewAttendanceJobs(stub, time.Hour)
	fixed := time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return fixed }

	scheduler := NewScheduler(context.Background())
	jobs.RegisterJobs(scheduler)
	require.Len(t, scheduler.Jobs(), 1)
	assert.Equal(t, recountAbsencesJob, scheduler.Jobs()[0].Name)

	// Act
	require.NoError(t, scheduler.RunOnce(context.Background()))

	// Assert
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, fixed, stub.lastNow)

	stub.err = errors.New("store down")
	assert.Error(t, jobs.RecountAbsences(context.Background()))
}
