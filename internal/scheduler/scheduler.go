package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/solar-potential/internal/solar"
)

// Prober runs one round of provider health probes.
type Prober interface {
	ProbeProviders(ctx context.Context) []solar.ProbeResult
}

// Scheduler periodically probes the upstream providers.
type Scheduler struct {
	scheduler *gocron.Scheduler
	prober    Prober
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. Each probe round is bounded by timeout.
func New(interval, timeout time.Duration, prober Prober) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		prober:    prober,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the probe job, runs it once immediately and starts the scheduler.
// A non-positive interval disables probing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: probe interval is zero; provider probing disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	log.Printf("scheduler: probing providers every %s", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// RunOnce performs a single probe round.
func (s *Scheduler) RunOnce() {
	log.Println("scheduler: running provider probe job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	results := s.prober.ProbeProviders(ctx)

	healthy := 0
	for _, r := range results {
		if r.OK {
			healthy++
		}
	}
	log.Printf("scheduler: completed provider probe job (%d/%d healthy)", healthy, len(results))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
