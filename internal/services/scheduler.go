package services

import (
	"context"
	"fmt"
	"log"
	"time"
)

type scheduledJob struct {
	name   string
	hour   int
	minute int
	run    func(ctx context.Context)
}

// JobScheduler fires each registered job once a day at its fixed wall-clock
// time in the configured timezone. Jobs are given distinct times, so they
// never overlap and take no locks.
type JobScheduler struct {
	loc      *time.Location
	jobs     []scheduledJob
	stopChan chan struct{}
}

func NewJobScheduler(timezone string) (*JobScheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	return &JobScheduler{
		loc:      loc,
		stopChan: make(chan struct{}),
	}, nil
}

// Add registers a daily job. Call before Start.
func (s *JobScheduler) Add(name string, hour, minute int, run func(ctx context.Context)) {
	s.jobs = append(s.jobs, scheduledJob{name: name, hour: hour, minute: minute, run: run})
}

func (s *JobScheduler) Start() {
	for _, job := range s.jobs {
		go s.loop(job)
		log.Printf("scheduler: %s registered at %02d:%02d (%s)", job.name, job.hour, job.minute, s.loc)
	}
}

func (s *JobScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *JobScheduler) loop(job scheduledJob) {
	for {
		next := nextRunAt(time.Now().In(s.loc), job.hour, job.minute)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			job.run(context.Background())
		}
	}
}

// nextRunAt returns the next occurrence of hour:minute after now, in
// now's location.
func nextRunAt(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
