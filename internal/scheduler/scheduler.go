package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/garageflow/garage-backend/internal/campaign"
)

// CampaignRunner is the job a schedule drives. Satisfied by *campaign.Runner.
type CampaignRunner interface {
	Run(ctx context.Context) (campaign.Report, error)
}

// Result carries the outcome of an awaitable manual trigger.
type Result struct {
	Report campaign.Report
	Err    error
}

// Scheduler fires the outreach campaign once a day at a fixed local time.
// Each Scheduler owns its own cron instance, so independent schedules can
// coexist (and be exercised in tests) without shared state.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	runner CampaignRunner
	hour   int
	minute int
	loc    *time.Location
}

// New creates a stopped scheduler that will fire daily at hour:minute in loc.
func New(runner CampaignRunner, hour, minute int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		runner: runner,
		hour:   hour,
		minute: minute,
		loc:    loc,
	}
}

// Start registers the daily trigger and begins firing. Calling Start on a
// running scheduler is a no-op, so there is never more than one active
// recurring trigger.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	spec := fmt.Sprintf("%d %d * * *", s.minute, s.hour)
	if _, err := c.AddFunc(spec, s.fire); err != nil {
		return fmt.Errorf("register daily trigger: %w", err)
	}
	c.Start()

	s.cron = c
	s.running = true
	log.WithFields(log.Fields{
		"at":       fmt.Sprintf("%02d:%02d", s.hour, s.minute),
		"timezone": s.loc.String(),
	}).Info("campaign scheduler started")
	return nil
}

// Stop cancels future firings. An in-flight run is not interrupted. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.running = false
	log.Info("campaign scheduler stopped")
}

// Running reports whether the daily trigger is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TriggerNow runs the campaign immediately on its own goroutine, independent
// of the schedule: it is allowed while stopped and does not move the next
// scheduled firing. The returned channel receives the single result, so
// callers that care (tests, operator endpoints) can await completion.
func (s *Scheduler) TriggerNow() <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		report, err := s.runner.Run(context.Background())
		ch <- Result{Report: report, Err: err}
	}()
	return ch
}

// fire is the scheduled entry point. Any failure is logged and swallowed so
// one bad run never kills the daily trigger.
func (s *Scheduler) fire() {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("campaign run panicked")
		}
	}()

	report, err := s.runner.Run(context.Background())
	if err != nil {
		log.WithError(err).Error("scheduled campaign run failed")
		return
	}
	log.WithFields(log.Fields{"sent": report.Sent, "total": report.Total}).Info("scheduled campaign run finished")
}

// entryCount reports the number of registered cron entries. Test hook.
func (s *Scheduler) entryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return 0
	}
	return len(s.cron.Entries())
}
