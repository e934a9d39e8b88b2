package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/observability"
	"github.com/BizKey/webaggregator/internal/reporting"
)

// Scheduler periodically writes the strategy report files.
type Scheduler struct {
	generator *reporting.Generator
	cfg       domain.StrategyConfig
	outputDir string
	interval  time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr string
	runs    int
}

// SchedulerState is the report scheduler section of /status.
type SchedulerState struct {
	OutputDir string    `json:"output_dir"`
	Interval  string    `json:"interval"`
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Runs      int       `json:"runs"`
}

// NewScheduler creates a report scheduler writing to outputDir every interval.
func NewScheduler(gen *reporting.Generator, cfg domain.StrategyConfig, outputDir string, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		generator: gen,
		cfg:       cfg,
		outputDir: outputDir,
		interval:  interval,
		logger:    logger,
	}
}

// Run generates a report immediately and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Str("output_dir", s.outputDir).Msg("starting report scheduler")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce generates and writes one report. Overlapping runs are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("report generation already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	err := s.generate(ctx)

	s.mu.Lock()
	s.running = false
	s.lastRun = start
	s.runs++
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("report generation failed")
		return
	}
	observability.RecordReportRun()
	s.logger.Info().Dur("elapsed", time.Since(start)).Str("output_dir", s.outputDir).Msg("reports generated")
}

func (s *Scheduler) generate(ctx context.Context) error {
	report, err := s.generator.Generate(ctx, s.cfg)
	if err != nil {
		return err
	}
	_, err = reporting.WriteFiles(s.outputDir, report)
	return err
}

// State returns a snapshot of the scheduler state.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerState{
		OutputDir: s.outputDir,
		Interval:  s.interval.String(),
		Running:   s.running,
		LastRun:   s.lastRun,
		LastError: s.lastErr,
		Runs:      s.runs,
	}
}
