package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/matcher"
)

// Scanner runs one aggregation
type Scanner interface {
	Scan(ctx context.Context) *matcher.Result
}

// Scheduler runs periodic scans. Scans only refresh metrics and logs;
// nothing is ever deleted from here.
type Scheduler struct {
	cron     *cron.Cron
	scanner  Scanner
	schedule string
	timeout  time.Duration
	logger   *logrus.Logger
	runs     atomic.Int64
}

// NewScheduler creates a new scheduler. An empty schedule disables it.
func NewScheduler(scanner Scanner, schedule string, timeout time.Duration, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.VerbosePrintfLogger(logger)
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		scanner:  scanner,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger,
	}
}

// Enabled reports whether a schedule is configured
func (s *Scheduler) Enabled() bool {
	return s.schedule != ""
}

// Start registers the scan job and runs an initial scan in the background
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.logger.Info("Scan schedule empty, scheduler disabled")
		return nil
	}

	s.logger.WithField("schedule", s.schedule).Info("Starting scheduler")

	if _, err := s.cron.AddFunc(s.schedule, s.RunScan); err != nil {
		return fmt.Errorf("failed to add scan job: %w", err)
	}

	s.cron.Start()

	go s.RunScan()

	return nil
}

// Stop stops the scheduler and waits for a running scan to finish
func (s *Scheduler) Stop() {
	if !s.Enabled() {
		return
	}
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunScan executes one scheduled scan and logs a summary
func (s *Scheduler) RunScan() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := s.runs.Add(1)
	s.logger.WithField("run", run).Info("Running scheduled scan")

	result := s.scanner.Scan(ctx)

	fields := logrus.Fields{
		"run":       run,
		"rows":      len(result.Rows),
		"on_disk":   len(result.FileLoaded()),
		"deletable": result.Deletable(),
	}
	if result.DiskUsage != nil {
		fields["disk_percent"] = result.DiskUsage.Percent
		fields["disk_path"] = result.DiskUsage.Path
	}
	s.logger.WithFields(fields).Info("Scheduled scan completed")
}

// Runs returns the number of scans started
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}
