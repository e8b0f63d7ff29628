package core

import (
	"context"
	"time"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// runStoreOf returns the run store of a manager, or nil when tracking is off.
func runStoreOf(mgr contract.StoreManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}

// runParams records the selection a run was made with.
func runParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"backscatter":    cfg.BackscatterPath,
		"band":           cfg.Band,
		"orbit":          string(cfg.Orbit),
		"ripening_orbit": string(cfg.RipeningOrbit),
		"missing":        string(cfg.Missing),
		"workers":        cfg.Workers,
		"bbox":           formatBBox(cfg.BBox),
	}
	if !cfg.StartTime.IsZero() {
		params["start"] = cfg.StartTime.Format(contract.DateTimeFormat)
	}
	if !cfg.EndTime.IsZero() {
		params["end"] = cfg.EndTime.Format(contract.DateTimeFormat)
	}
	return params
}

// beginRun opens a tracked run and attaches its ID to the context.
// Tracking failures are logged and never stop the run.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, start time.Time) context.Context {
	store := runStoreOf(mgr)
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(start, runParams(cfg))
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	if runID > 0 {
		return withRunID(ctx, runID)
	}
	return ctx
}

// finishRun stores the fits and retained cells of the tracked run and closes it.
func finishRun(ctx context.Context, mgr contract.StoreManager, table *schema.OnsetTable) {
	store := runStoreOf(mgr)
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if err := store.RecordFits(runID, []schema.TrendFit{table.Runoff, table.Ripening}); err != nil {
		contract.LogWarn("Failed to record trend fits", err)
	}
	if err := store.RecordCells(runID, table.Rows()); err != nil {
		contract.LogWarn("Failed to record onset cells", err)
	}
	if err := store.EndRun(runID, time.Now(), table.TotalCells, table.Len()); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
