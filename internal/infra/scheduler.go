package infra

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronSpecFormat accepts a leading seconds field, e.g. "*/30 * * * * *", and descriptors like "@every 1m".
const cronSpecFormat = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// Scheduler runs periodic background jobs
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
}

// NewScheduler creates a stopped scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cron.NewParser(cronSpecFormat)),
			cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
		),
		jobs: make(map[string]cron.EntryID),
	}
}

// AddJob registers fn under name. Adding a name twice replaces the earlier job.
func (s *Scheduler) AddJob(name, spec string, fn func()) error {
	id, err := s.cron.AddFunc(spec, func() {
		started := time.Now()
		fn()
		slog.Debug("Scheduled job finished", slog.String("job", name), slog.Duration("took", time.Since(started)))
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}

	if old, ok := s.jobs[name]; ok {
		s.cron.Remove(old)
	}
	s.jobs[name] = id
	slog.Info("Job scheduled", slog.String("job", name), slog.String("spec", spec))
	return nil
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.jobs)
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop stops the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("Scheduler stopped")
	case <-ctx.Done():
		slog.Warn("Scheduler stop timed out with jobs still running")
	}
}

// cronLogger routes cron's own messages into slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append([]interface{}{slog.Any("error", err)}, keysAndValues...)...)
}
