// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically deletes expired sessions from a Store
type Sweeper struct {
	store Store
	cron  *cron.Cron
	now   func() time.Time
}

// NewSweeper schedules cleanup with a cron spec such as "@every 10m"
func NewSweeper(store Store, schedule string) (*Sweeper, error) {
	s := &Sweeper{
		store: store,
		cron:  cron.New(),
		now:   time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduling; the returned context is done once a running
// sweep has finished.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := s.store.Purge(ctx, s.now())
	if err != nil {
		slog.Error("session sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}
}
