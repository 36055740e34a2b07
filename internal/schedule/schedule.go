// Package schedule runs registered jobs at fixed local times of day.
//
// The scheduler is deliberately minimal: an ordered list of (time-of-day,
// job) entries polled once per second against the wall clock, with a
// last-fired date per entry so a job fires at most once per day. Jobs run
// synchronously on the polling goroutine, so firings can never overlap; a
// job still running when another trigger passes simply delays that firing
// until the poll loop gets back around (and skips it entirely if the day
// rolls over first).
package schedule

import (
	"context"
	"time"

	"github.com/backmassage/lapsemaster/internal/config"
)

// Job is a scheduled task.
type Job func()

const dateFormat = "20060102"

type entry struct {
	hour, minute int
	job          Job
	lastFired    string // date this entry last fired, dateFormat
}

// Scheduler polls registered entries and fires them when their time of day
// has passed. Not safe for concurrent use; register everything before Run.
type Scheduler struct {
	entries []*entry
	now     func() time.Time
	tick    time.Duration
}

// New returns a Scheduler on the real clock with a one-second poll tick.
func New() *Scheduler {
	return &Scheduler{now: time.Now, tick: time.Second}
}

// At registers job to fire daily at the "HH:MM" local time. An occurrence
// already in the past at registration time is skipped, so a process started
// at 14:00 does not immediately fire a 13:00 entry.
func (s *Scheduler) At(timeOfDay string, job Job) error {
	hour, minute, err := config.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return err
	}
	e := &entry{hour: hour, minute: minute, job: job}
	if now := s.now(); due(e, now) {
		e.lastFired = now.Format(dateFormat)
	}
	s.entries = append(s.entries, e)
	return nil
}

// Run polls once per tick and fires due entries synchronously, in
// registration order. It returns only when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.runPending()
		}
	}
}

// runPending fires every entry whose trigger time has passed today and that
// has not already fired today. The lastFired date is recorded before the job
// runs, so a long job followed by more poll ticks within the same minute
// cannot double-fire.
func (s *Scheduler) runPending() {
	now := s.now()
	day := now.Format(dateFormat)
	for _, e := range s.entries {
		if e.lastFired == day || !due(e, now) {
			continue
		}
		e.lastFired = day
		e.job()
	}
}

// due reports whether the entry's time of day has been reached at now.
func due(e *entry, now time.Time) bool {
	if now.Hour() != e.hour {
		return now.Hour() > e.hour
	}
	return now.Minute() >= e.minute
}
