// Package analytics runs the background sync that copies vector rows from a
// source table into an analytics table page by page.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NarmalaSk/diem/store"
)

const (
	defaultInterval = 5 * time.Second
	defaultPageSize = 1000
	defaultKey      = "id"
)

// Runner owns its own store and never shares a transaction with the request
// path. Each tick copies at most one page; no transaction is held across
// sleep intervals.
type Runner struct {
	store    *store.Store
	req      store.CopyRequest
	interval time.Duration
}

// NewRunner creates a sync runner for one source/destination pair.
func NewRunner(s *store.Store, req store.CopyRequest, interval time.Duration) *Runner {
	if req.KeyColumn == "" {
		req.KeyColumn = defaultKey
	}
	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{store: s, req: req, interval: interval}
}

// Run copies pages until ctx is cancelled. It syncs once on startup and then
// on every tick.
func (r *Runner) Run(ctx context.Context) {
	r.syncOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.syncOnce(ctx)
		case <-ctx.Done():
			slog.Info("analytics sync stopped",
				"source", r.req.Source, "dest", r.req.Dest)
			return
		}
	}
}

// RunOnce performs a single page copy (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	r.syncOnce(ctx)
}

func (r *Runner) syncOnce(ctx context.Context) {
	cycleID := uuid.NewString()
	copied, err := r.store.CopyPage(ctx, &r.req)
	if err != nil {
		slog.Error("analytics sync failed",
			"cycle_id", cycleID, "source", r.req.Source, "dest", r.req.Dest, "error", err.Error())
		return
	}
	if copied > 0 {
		slog.Info("analytics sync copied rows",
			"cycle_id", cycleID, "source", r.req.Source, "dest", r.req.Dest, "rows", copied)
	}
}
