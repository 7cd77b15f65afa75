// Package scheduler runs the reminder jobs on wall-clock and interval schedules.
package scheduler

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context)

// Jobs are the callbacks the scheduler drives. Nil jobs are not registered.
type Jobs struct {
	Summary  Job // daily digests
	Detailed Job // detailed urgent reminders
	Hourly   Job // final-hour reminders
	Refresh  Job // assignment cache refresh
	Ping     Job // self-ping
	Sweep    Job // conversation state eviction
}

const (
	SummarySpec  = "0 6,8,12,16,20 * * *"
	DetailedSpec = "0 7,11,15,19 * * *"
	HourlySpec   = "@every 1h"
	RefreshSpec  = "@every 2h"
	SweepSpec    = "@every 10m"
)

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	jobs    Jobs
	pingMin time.Duration
	pingMax time.Duration

	// run holds every job, so at most one runs at a time.
	run sync.Mutex
}

// New creates a scheduler in loc. The ping bounds are only used when Jobs.Ping is set.
func New(loc *time.Location, jobs Jobs, pingMin, pingMax time.Duration) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		ctx:     ctx,
		cancel:  cancel,
		jobs:    jobs,
		pingMin: pingMin,
		pingMax: pingMax,
	}
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		s.run.Lock()
		defer s.run.Unlock()
		if s.ctx.Err() != nil {
			return
		}
		log.Printf("🕘 Running scheduled job: %s", name)
		start := time.Now()
		job(s.ctx)
		log.Printf("✅ Job %s finished in %s", name, time.Since(start).Round(time.Millisecond))
	}
}

// Register adds every configured job without starting the scheduler.
func (s *Scheduler) Register() error {
	specs := []struct {
		name string
		spec string
		job  Job
	}{
		{"summary", SummarySpec, s.jobs.Summary},
		{"detailed", DetailedSpec, s.jobs.Detailed},
		{"hourly", HourlySpec, s.jobs.Hourly},
		{"refresh", RefreshSpec, s.jobs.Refresh},
		{"sweep", SweepSpec, s.jobs.Sweep},
	}
	for _, sp := range specs {
		if sp.job == nil {
			continue
		}
		if _, err := s.cron.AddFunc(sp.spec, s.wrap(sp.name, sp.job)); err != nil {
			return err
		}
	}
	if s.jobs.Ping != nil {
		s.cron.Schedule(NewJitter(s.pingMin, s.pingMax), cron.FuncJob(s.wrap("self-ping", s.jobs.Ping)))
	}
	log.Printf("📅 Reminder schedule configured (%d jobs)", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) Start() error {
	if err := s.Register(); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("📅 Scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Jitter fires at a uniformly random interval in [min, max].
type Jitter struct {
	Min, Max time.Duration
	rand     func(n int64) int64
}

// Intervals are at least a minute.
func NewJitter(min, max time.Duration) *Jitter {
	if min < time.Minute {
		min = time.Minute
	}
	if max < min {
		max = min
	}
	return &Jitter{Min: min, Max: max, rand: rand.Int64N}
}

func (j *Jitter) Next(t time.Time) time.Time {
	d := j.Min
	if span := j.Max - j.Min; span > 0 {
		d += time.Duration(j.rand(int64(span) + 1))
	}
	return t.Add(d)
}
