// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/pageforge/internal/store"
)

// Scheduler runs the nightly purge of stale unpublished drafts.
type Scheduler struct {
	store         *store.Store
	cron          *cron.Cron
	logger        *slog.Logger
	retentionDays int
}

// New creates a scheduler. retentionDays of 0 disables the purge job.
func New(st *store.Store, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:         st,
		cron:          cron.New(),
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start registers the purge job and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.retentionDays <= 0 {
		s.logger.Info("draft purge disabled")
		return nil
	}

	// Nightly at 03:00.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.purgeStaleDrafts(); err != nil {
			s.logger.Error("failed to purge stale drafts", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "retention_days", s.retentionDays)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeStaleDrafts deletes unpublished pages older than the retention window.
func (s *Scheduler) purgeStaleDrafts() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	purged, err := s.store.PurgeStaleDrafts(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		s.logger.Info("purged stale drafts", "count", purged, "cutoff", cutoff.Format(time.RFC3339))
		_ = s.store.CreateEvent(ctx, store.CreateEventParams{
			Level:     "info",
			Category:  "page",
			Message:   "Stale unpublished drafts purged by scheduler",
			Metadata:  fmt.Sprintf(`{"count":%d}`, purged),
			CreatedAt: time.Now().UTC(),
		})
	}
	return nil
}
