// Package sched implements the mote's cooperative task scheduler: a
// fixed-capacity pool of deferred callbacks, drained in strict priority order
// by three band workers matching the pipeline stages (receive path, send-done
// path, application path).
//
// Producers, including interrupt-style contexts, hand work to Push and never
// block. Each worker blocks on its band's wake-up signal, then drains every
// queued task in its priority range before blocking again. The pool never
// allocates after construction; exhausting it, or pushing a priority no band
// claims, is a fatal misconfiguration handled by the fault path, never an
// error returned to the producer.
package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/gomote/internal/board"
)

// Callback is a deferred unit of work. Callbacks take no arguments, return
// nothing, and must be short and non-blocking: a callback that blocks starves
// its whole band. Callbacks may Push follow-up work.
type Callback func()

// Priority orders tasks globally; lower values run first.
type Priority uint8

// PriorityNone marks a free pool slot. It is reserved: no band may claim it.
const PriorityNone Priority = 0xFF

// Representative priorities for the three pipeline stages, usable with the
// default band boundaries.
const (
	PrioRxNotif       Priority = 0  // frame reception notification
	PrioRxProcess     Priority = 2  // frame handling up the stack
	PrioSendDoneNotif Priority = 4  // transmit-completion notification
	PrioSendDoneTimer Priority = 6  // retransmission timer
	PrioAppEvent      Priority = 8  // application packet origination
	PrioAppTimer      Priority = 12 // application housekeeping timer
)

// BandID names one of the three worker bands.
type BandID int

const (
	BandRx       BandID = iota // [0, RxBoundary)
	BandSendDone               // [RxBoundary, SendDoneBoundary)
	BandApp                    // [SendDoneBoundary, AppBoundary)
	NumBands
)

func (b BandID) String() string {
	switch b {
	case BandRx:
		return "rx"
	case BandSendDone:
		return "senddone"
	case BandApp:
		return "app"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Config fixes the scheduler's build-time constants: pool capacity and the
// band boundaries. The three bands are half-open, contiguous, and together
// cover exactly [0, AppBoundary); any priority at or above AppBoundary is
// unmapped and fatal to push.
type Config struct {
	// PoolDepth is the task pool capacity N. Size it for the worst-case
	// number of outstanding tasks; overflowing it is fatal.
	PoolDepth int

	// RxBoundary ends the receive band [0, RxBoundary).
	RxBoundary Priority
	// SendDoneBoundary ends the send-done band [RxBoundary, SendDoneBoundary).
	SendDoneBoundary Priority
	// AppBoundary ends the application band [SendDoneBoundary, AppBoundary)
	// and the valid priority domain.
	AppBoundary Priority
}

// DefaultConfig returns the reference constants: ten slots, bands
// [0,4) / [4,8) / [8,16).
func DefaultConfig() Config {
	return Config{
		PoolDepth:        10,
		RxBoundary:       4,
		SendDoneBoundary: 8,
		AppBoundary:      16,
	}
}

// Validate checks the static invariants the fault path otherwise punishes at
// runtime: a positive pool and strictly increasing boundaries below the
// PriorityNone sentinel.
func (c Config) Validate() error {
	if c.PoolDepth <= 0 {
		return fmt.Errorf("pool depth must be positive, got %d", c.PoolDepth)
	}
	if c.RxBoundary == 0 {
		return fmt.Errorf("rx boundary must be positive")
	}
	if c.RxBoundary >= c.SendDoneBoundary || c.SendDoneBoundary >= c.AppBoundary {
		return fmt.Errorf("band boundaries must be strictly increasing, got %d, %d, %d",
			c.RxBoundary, c.SendDoneBoundary, c.AppBoundary)
	}
	if c.AppBoundary >= PriorityNone {
		return fmt.Errorf("app boundary %d collides with the free-slot sentinel %d",
			c.AppBoundary, PriorityNone)
	}
	return nil
}

// BandRange returns the half-open priority range [lo, hi) served by b.
func (c Config) BandRange(b BandID) (lo, hi Priority) {
	switch b {
	case BandRx:
		return 0, c.RxBoundary
	case BandSendDone:
		return c.RxBoundary, c.SendDoneBoundary
	default:
		return c.SendDoneBoundary, c.AppBoundary
	}
}

// BandFor maps a priority to the band that serves it. The second result is
// false when no band claims the priority.
func (c Config) BandFor(prio Priority) (BandID, bool) {
	switch {
	case prio < c.RxBoundary:
		return BandRx, true
	case prio < c.SendDoneBoundary:
		return BandSendDone, true
	case prio < c.AppBoundary:
		return BandApp, true
	default:
		return NumBands, false
	}
}

// Stats mirrors the on-target debug counters, extended with per-band
// execution counts for the harness.
type Stats struct {
	NumTasksCur int              // currently occupied slots
	NumTasksMax int              // high-water mark since construction
	Executed    [NumBands]uint64 // tasks executed per band
}

// Scheduler owns the task pool, the priority queue threaded through it, the
// three wake-up signals, and the band workers. One mutex guards every pool
// and queue mutation; callbacks run outside it.
type Scheduler struct {
	cfg    Config
	brd    board.Board
	logger *slog.Logger

	signals [NumBands]*board.Signal

	mu    sync.Mutex
	slots []slot
	head  int // queue head, noSlot when empty
	stats Stats

	wg sync.WaitGroup
}

// New constructs a scheduler over a freshly-initialized pool. The returned
// scheduler is ready for Push immediately; workers run only after Start.
func New(cfg Config, brd board.Board, logger *slog.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	s := &Scheduler{
		cfg:    cfg,
		brd:    brd,
		logger: logger.With("component", "sched"),
		slots:  make([]slot, cfg.PoolDepth),
		head:   noSlot,
	}
	for i := range s.slots {
		s.slots[i] = slot{prio: PriorityNone, next: noSlot}
	}
	for b := range s.signals {
		s.signals[b] = board.NewSignal()
	}
	return s, nil
}

// Config returns the build-time constants the scheduler was constructed with.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Start launches one worker per band. Workers run until ctx is cancelled;
// Wait blocks until they have all returned.
func (s *Scheduler) Start(ctx context.Context) {
	for b := BandID(0); b < NumBands; b++ {
		s.wg.Add(1)
		go s.runWorker(ctx, b)
	}
	s.logger.Info("scheduler started",
		"pool_depth", s.cfg.PoolDepth,
		"boundaries", []Priority{s.cfg.RxBoundary, s.cfg.SendDoneBoundary, s.cfg.AppBoundary})
}

// Wait blocks until all workers started by Start have returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Push enqueues cb at prio and wakes the owning band's worker. It is the only
// producer-facing entry point: callable from any goroutine (including ones
// standing in for interrupt context), re-entrantly from callbacks, without
// any caller-held lock, and it never blocks beyond one short critical
// section. Failure is never surfaced to the caller; pool exhaustion and
// unmapped priorities go to the fault path.
func (s *Scheduler) Push(cb Callback, prio Priority) {
	s.mu.Lock()
	idx, ok := s.allocate()
	if !ok {
		s.mu.Unlock()
		s.fail(FaultPoolExhausted)
		return
	}
	s.slots[idx].cb = cb
	s.slots[idx].prio = prio
	s.insert(idx)
	s.mu.Unlock()

	band, ok := s.cfg.BandFor(prio)
	if !ok {
		s.fail(FaultUnmappedPriority)
		return
	}
	s.signals[band].Give()
}

// Stats returns a snapshot of the debug counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
