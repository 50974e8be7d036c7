package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/mauv0809/cricket-hub/internal/processor"
)

// Runner is the lifecycle pass the scheduler repeats.
type Runner interface {
	ProcessTournaments(ctx context.Context, dryRun bool) (processor.Summary, error)
}

type Scheduler struct {
	s        gocron.Scheduler
	runner   Runner
	interval time.Duration
	timeout  time.Duration
}

func New(runner Runner, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("lifecycle interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{s: s, runner: runner, interval: interval, timeout: interval}, nil
}

// Start runs the lifecycle pass now and then every interval. A pass that
// overruns the interval delays the next one instead of overlapping it.
func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.processTournaments),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithName("process-tournaments"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule lifecycle job: %w", err)
	}
	s.s.Start()
	log.Info("Scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) processTournaments() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.runner.ProcessTournaments(ctx, false); err != nil {
		log.Error("Scheduled lifecycle run failed", "error", err)
	}
}
