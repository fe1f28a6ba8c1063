package sched

import (
	"io"
	"log/slog"
	"sync"
	"testing"
)

// resetPanic is what the fake board's Reset throws so tests can observe the
// fault path without killing the test process.
type resetPanic struct{}

type fakeBoard struct {
	mu      sync.Mutex
	toggles [NumBands]int
	blinks  int
	resets  int
}

func (b *fakeBoard) ToggleActivity(band int) {
	b.mu.Lock()
	b.toggles[band]++
	b.mu.Unlock()
}

func (b *fakeBoard) BlinkError() {
	b.mu.Lock()
	b.blinks++
	b.mu.Unlock()
}

func (b *fakeBoard) Reset() {
	b.mu.Lock()
	b.resets++
	b.mu.Unlock()
	panic(resetPanic{})
}

func (b *fakeBoard) counts() (blinks, resets int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blinks, b.resets
}

// testSetup builds a scheduler over a fake board. Workers are not started;
// tests that need them call Start themselves.
func testSetup(t *testing.T, cfg Config) (*Scheduler, *fakeBoard) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	brd := &fakeBoard{}
	s, err := New(cfg, brd, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, brd
}

// expectReset runs fn and fails unless it went through the board reset path.
func expectReset(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected board reset, got none")
		}
		if _, ok := r.(resetPanic); !ok {
			panic(r)
		}
	}()
	fn()
}

// drainBand synchronously drains one band, as the band's worker would on a
// wake-up.
func drainBand(s *Scheduler, b BandID) {
	lo, hi := s.cfg.BandRange(b)
	s.drain(b, lo, hi)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero pool", func(c *Config) { c.PoolDepth = 0 }, true},
		{"negative pool", func(c *Config) { c.PoolDepth = -3 }, true},
		{"zero rx boundary", func(c *Config) { c.RxBoundary = 0 }, true},
		{"equal boundaries", func(c *Config) { c.SendDoneBoundary = c.RxBoundary }, true},
		{"inverted boundaries", func(c *Config) { c.AppBoundary = 2 }, true},
		{"app boundary at sentinel", func(c *Config) { c.AppBoundary = PriorityNone }, true},
		{"wide domain", func(c *Config) { c.AppBoundary = 0xFE }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("Validate: expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

// Every priority in [0, AppBoundary) belongs to exactly one band whose range
// contains it; everything at or above AppBoundary is unmapped. Checked over
// the full integer domain of Priority.
func TestBandCompleteness(t *testing.T) {
	cfg := DefaultConfig()

	for p := 0; p <= int(PriorityNone); p++ {
		prio := Priority(p)
		band, ok := cfg.BandFor(prio)

		if prio >= cfg.AppBoundary {
			if ok {
				t.Fatalf("priority %d: mapped to %v, want unmapped", p, band)
			}
			continue
		}

		if !ok {
			t.Fatalf("priority %d: unmapped, want a band", p)
		}
		claims := 0
		for b := BandID(0); b < NumBands; b++ {
			lo, hi := cfg.BandRange(b)
			if prio >= lo && prio < hi {
				claims++
				if b != band {
					t.Fatalf("priority %d: BandFor says %v but %v's range claims it", p, band, b)
				}
			}
		}
		if claims != 1 {
			t.Fatalf("priority %d: claimed by %d bands, want exactly 1", p, claims)
		}
	}
}

// Scenario A: a lower priority value pushed second still drains first.
func TestPushOrdersByPriority(t *testing.T) {
	s, _ := testSetup(t, DefaultConfig())

	var order []string
	s.Push(func() { order = append(order, "cbA") }, 2)
	s.Push(func() { order = append(order, "cbB") }, 1)

	drainBand(s, BandRx)

	if len(order) != 2 || order[0] != "cbB" || order[1] != "cbA" {
		t.Fatalf("execution order = %v, want [cbB cbA]", order)
	}
}

// Equal-priority tasks drain in arrival order.
func TestEqualPriorityFIFO(t *testing.T) {
	s, _ := testSetup(t, DefaultConfig())

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.Push(func() { order = append(order, i) }, PrioRxProcess)
	}

	drainBand(s, BandRx)

	if len(order) != 5 {
		t.Fatalf("executed %d tasks, want 5", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("execution order = %v, want arrival order", order)
		}
	}
}

// A mixed push sequence drains in non-decreasing priority, ties by arrival.
func TestOrderingAcrossPriorities(t *testing.T) {
	s, _ := testSetup(t, DefaultConfig())

	type exec struct {
		prio Priority
		seq  int
	}
	pushes := []Priority{3, 0, 2, 3, 1, 0, 2, 2}

	var order []exec
	for i, p := range pushes {
		i, p := i, p
		s.Push(func() { order = append(order, exec{p, i}) }, p)
	}

	drainBand(s, BandRx)

	if len(order) != len(pushes) {
		t.Fatalf("executed %d tasks, want %d", len(order), len(pushes))
	}
	for i := 1; i < len(order); i++ {
		prev, cur := order[i-1], order[i]
		if cur.prio < prev.prio {
			t.Fatalf("priority order violated at %d: %v", i, order)
		}
		if cur.prio == prev.prio && cur.seq < prev.seq {
			t.Fatalf("FIFO tie-break violated at %d: %v", i, order)
		}
	}
}

// Scenario B: the (N+1)-th push hits the fault path; the N queued tasks
// still execute exactly once if drained before retrying.
func TestPoolExhaustionFault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolDepth = 4
	s, brd := testSetup(t, cfg)

	ran := make([]int, 4)
	for i := 0; i < 4; i++ {
		i := i
		s.Push(func() { ran[i]++ }, PrioRxNotif)
	}

	expectReset(t, func() { s.Push(func() {}, PrioRxNotif) })

	blinks, resets := brd.counts()
	if blinks != 1 || resets != 1 {
		t.Fatalf("blinks=%d resets=%d, want 1/1", blinks, resets)
	}

	drainBand(s, BandRx)
	for i, n := range ran {
		if n != 1 {
			t.Fatalf("task %d ran %d times, want exactly once", i, n)
		}
	}

	// After draining, the pool has room again.
	s.Push(func() {}, PrioRxNotif)
	if got := s.Stats().NumTasksCur; got != 1 {
		t.Fatalf("NumTasksCur = %d after post-drain push, want 1", got)
	}
}

// Scenario C: a priority beyond every band is fatal and the callback never
// runs.
func TestUnmappedPriorityFault(t *testing.T) {
	s, brd := testSetup(t, DefaultConfig())

	ran := false
	expectReset(t, func() { s.Push(func() { ran = true }, 100) })

	if blinks, resets := brd.counts(); blinks != 1 || resets != 1 {
		t.Fatalf("blinks=%d resets=%d, want 1/1", blinks, resets)
	}

	for b := BandID(0); b < NumBands; b++ {
		drainBand(s, b)
	}
	if ran {
		t.Fatalf("unmapped-priority callback executed")
	}
}

// A slot freed by execution is reusable and carries nothing over.
func TestSlotReuse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolDepth = 1
	s, _ := testSetup(t, cfg)

	for round := 0; round < 3; round++ {
		ran := false
		s.Push(func() { ran = true }, PrioRxNotif)
		drainBand(s, BandRx)
		if !ran {
			t.Fatalf("round %d: task did not run", round)
		}
		if got := s.Stats().NumTasksCur; got != 0 {
			t.Fatalf("round %d: NumTasksCur = %d, want 0", round, got)
		}
		if sl := s.slots[0]; sl.cb != nil || sl.prio != PriorityNone || sl.next != noSlot {
			t.Fatalf("round %d: released slot not clean: %+v", round, sl)
		}
	}
}

func TestStatsWatermark(t *testing.T) {
	s, _ := testSetup(t, DefaultConfig())

	for i := 0; i < 7; i++ {
		s.Push(func() {}, PrioAppEvent)
	}
	drainBand(s, BandApp)
	s.Push(func() {}, PrioAppEvent)

	st := s.Stats()
	if st.NumTasksCur != 1 {
		t.Fatalf("NumTasksCur = %d, want 1", st.NumTasksCur)
	}
	if st.NumTasksMax != 7 {
		t.Fatalf("NumTasksMax = %d, want 7", st.NumTasksMax)
	}
	if st.Executed[BandApp] != 7 {
		t.Fatalf("Executed[app] = %d, want 7", st.Executed[BandApp])
	}
}
