// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jkowal/dbtranslate/internal/store"
)

// Scheduler owns the cron runner and the registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	q      *store.Queries
	logger *slog.Logger
}

// New creates a scheduler. Jobs are registered by Start.
func New(q *store.Queries, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		q:      q,
		logger: logger,
	}
}

// Start registers the jobs and starts the cron runner. The missing
// translation report runs hourly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", s.reportMissing); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started")
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn("scheduler stop timed out")
	}
}

// reportMissing logs how many translations are still empty, per language.
// The log line is the report; operators alert on it.
func (s *Scheduler) reportMissing() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	languages, err := s.q.ListLanguages(ctx)
	if err != nil {
		s.logger.Error("missing translation report failed", "error", err)
		return
	}

	var total int64
	for _, lang := range languages {
		missing, err := s.q.CountMissingTranslationsByLanguage(ctx, lang.ID)
		if err != nil {
			s.logger.Error("missing translation report failed",
				"locale", lang.Locale, "error", err)
			return
		}
		if missing > 0 {
			s.logger.Info("missing translations",
				"locale", lang.Locale, "language", lang.Name, "missing", missing)
		}
		total += missing
	}
	s.logger.Info("missing translation report complete",
		"languages", len(languages), "total_missing", total)
}
