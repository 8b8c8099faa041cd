// Package notify defines the reminder-scheduling collaborator.
//
// Scheduling is best-effort everywhere: a nil handle or an error from the
// scheduler never blocks or fails the data mutation that triggered it.
package notify

import (
	"log"
	"time"
)

// Scheduler schedules reminders for planned joys. Implementations return
// an opaque handle, or nil when no reminder could be scheduled.
type Scheduler interface {
	Schedule(id, title string, at time.Time) (*string, error)
	Reschedule(oldHandle *string, id, title string, at time.Time) (*string, error)
	Cancel(handle string) error
}

// Noop is the default scheduler. Platform reminder delivery lives outside
// this core, so the standalone binary runs without one.
type Noop struct{}

func (Noop) Schedule(id, title string, at time.Time) (*string, error) {
	log.Printf("notify: no scheduler configured, skipping reminder for %s", id)
	return nil, nil
}

func (Noop) Reschedule(oldHandle *string, id, title string, at time.Time) (*string, error) {
	log.Printf("notify: no scheduler configured, skipping reminder for %s", id)
	return nil, nil
}

func (Noop) Cancel(handle string) error {
	return nil
}
