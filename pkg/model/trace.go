package model

import "time"

// TraceEvent records one executed task, captured by the harness around the
// scheduler (the scheduler core itself records nothing).
type TraceEvent struct {
	RunID      string        `json:"run_id"`
	Seq        int64         `json:"seq"`
	Band       string        `json:"band"`
	Priority   uint8         `json:"priority"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
	ExecutedAt time.Time     `json:"executed_at"`
	Latency    time.Duration `json:"latency"`
}

// RunSummary aggregates one simulated run.
type RunSummary struct {
	RunID      string            `json:"run_id"`
	Duration   time.Duration     `json:"duration"`
	Generated  uint64            `json:"generated"`
	Executed   map[string]uint64 `json:"executed"`
	PeakInPool int               `json:"peak_in_pool"`
	PoolDepth  int               `json:"pool_depth"`
}
