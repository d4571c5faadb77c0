package scheduler_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FigmentBoy/MuseScore/internal/scheduler"
)

func TestSchedulerRunsQueuedTasks(t *testing.T) {
	s := scheduler.New(10)
	s.Run()

	var executed atomic.Int32
	task := scheduler.Task{
		Name: "count",
		Execute: func() error {
			executed.Add(1)
			return nil
		},
	}

	for i := 0; i < 5; i++ {
		s.Schedule(task)
	}

	// Stop waits for everything queued to finish.
	s.Stop()

	if got := executed.Load(); got != 5 {
		t.Errorf("executed %d tasks, want 5", got)
	}
}

func TestSchedulerKeepsGoingAfterFailure(t *testing.T) {
	s := scheduler.New(10)
	s.Run()

	var executed atomic.Int32
	s.Schedule(scheduler.Task{
		Name:    "failing",
		Execute: func() error { return errors.New("task failed") },
	})
	s.Schedule(scheduler.Task{
		Name: "following",
		Execute: func() error {
			executed.Add(1)
			return nil
		},
	})

	s.Stop()

	if got := executed.Load(); got != 1 {
		t.Errorf("task after a failing one did not run (executed = %d)", got)
	}
}

func TestSchedulePeriodicRunsImmediately(t *testing.T) {
	s := scheduler.New(10)
	s.Run()

	ran := make(chan struct{}, 1)
	s.SchedulePeriodic(time.Hour, scheduler.Task{
		Name: "refresh",
		Execute: func() error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic task did not run at startup")
	}

	s.Stop()
}
