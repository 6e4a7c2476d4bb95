// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: pruning the event log and
// closing idle editor sessions.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/ocms-menus/internal/store"
)

// Default job schedules
const (
	DefaultPruneSchedule = "@daily"
	DefaultSweepSchedule = "*/5 * * * *"
)

// Job names
const (
	JobPruneEvents   = "prune-events"
	JobSweepSessions = "sweep-sessions"
)

// SessionSweeper closes editor sessions idle for longer than a duration.
type SessionSweeper interface {
	Sweep(idle time.Duration, now time.Time) int
}

// Config controls which jobs run. A zero duration disables the job.
type Config struct {
	EventRetention time.Duration
	SessionIdle    time.Duration
	PruneSchedule  string
	SweepSchedule  string
}

// JobInfo is the public view of a scheduled job.
type JobInfo struct {
	Name     string
	Schedule string
	LastRun  time.Time
	NextRun  time.Time
}

type job struct {
	schedule string
	entryID  cron.EntryID
}

// Scheduler runs maintenance jobs on cron schedules.
type Scheduler struct {
	queries  *store.Queries
	sessions SessionSweeper
	cfg      Config
	cron     *cron.Cron
	logger   *slog.Logger

	mu   sync.RWMutex
	jobs map[string]job
	now  func() time.Time
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New creates a scheduler. sessions may be nil when no registry is running.
func New(db *sql.DB, sessions SessionSweeper, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultPruneSchedule
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = DefaultSweepSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		queries:  store.New(db),
		sessions: sessions,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(parser)),
		logger:   logger,
		jobs:     make(map[string]job),
		now:      time.Now,
	}
}

// Start registers the enabled jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.EventRetention > 0 {
		if err := s.add(JobPruneEvents, s.cfg.PruneSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := s.PruneEvents(ctx); err != nil {
				s.logger.Error("failed to prune event log", "error", err)
			}
		}); err != nil {
			return err
		}
	}
	if s.cfg.SessionIdle > 0 && s.sessions != nil {
		if err := s.add(JobSweepSessions, s.cfg.SweepSchedule, func() { s.SweepSessions() }); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) add(name, schedule string, fn func()) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q for %s: %w", schedule, name, err)
	}
	id, err := s.cron.AddFunc(schedule, fn)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}

	s.mu.Lock()
	s.jobs[name] = job{schedule: schedule, entryID: id}
	s.mu.Unlock()
	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Jobs returns the registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for name, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		result = append(result, JobInfo{
			Name:     name,
			Schedule: j.schedule,
			LastRun:  entry.Prev,
			NextRun:  entry.Next,
		})
	}
	sort.Slice(result, func(i, k int) bool { return result[i].Name < result[k].Name })
	return result
}

// PruneEvents deletes event log entries older than the configured retention.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	if s.cfg.EventRetention <= 0 {
		return 0, nil
	}
	n, err := s.queries.DeleteEventsBefore(ctx, s.now().Add(-s.cfg.EventRetention))
	if err != nil {
		return 0, fmt.Errorf("deleting old events: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned event log", "deleted", n, "retention", s.cfg.EventRetention)
	}
	return n, nil
}

// SweepSessions closes editor sessions idle for longer than the configured limit.
func (s *Scheduler) SweepSessions() int {
	if s.sessions == nil || s.cfg.SessionIdle <= 0 {
		return 0
	}
	return s.sessions.Sweep(s.cfg.SessionIdle, s.now())
}
