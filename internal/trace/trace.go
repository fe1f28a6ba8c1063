// Package trace records executed tasks for post-run analysis. The scheduler
// core records nothing itself; the harness wraps callbacks and feeds a
// Recorder.
package trace

import (
	"context"
	"sync"
	"time"

	"github.com/me/gomote/pkg/model"
)

// Recorder accepts one event per executed task.
type Recorder interface {
	Record(ctx context.Context, ev model.TraceEvent) error
	Close() error
}

// BandStats aggregates recorded events for one band.
type BandStats struct {
	Band       string
	Count      int64
	AvgLatency time.Duration
	MaxLatency time.Duration
}

// Nop discards all events. Used when tracing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, model.TraceEvent) error { return nil }
func (Nop) Close() error                                   { return nil }

// Memory keeps events in RAM. Test use only; it grows without bound.
type Memory struct {
	mu     sync.Mutex
	events []model.TraceEvent
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, ev model.TraceEvent) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a copy of everything recorded so far.
func (m *Memory) Events() []model.TraceEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.TraceEvent, len(m.events))
	copy(out, m.events)
	return out
}
