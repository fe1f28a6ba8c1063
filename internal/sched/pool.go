package sched

// noSlot is the index sentinel for "no slot": an empty queue head or the end
// of a next chain.
const noSlot = -1

// slot is one fixed unit of task storage. A slot is free iff cb is nil; a
// free slot always carries PriorityNone and no next link. An occupied slot is
// linked into the queue from insertion until a worker extracts it, and is
// released exactly once, right after its callback returns.
type slot struct {
	cb   Callback
	prio Priority
	next int
}

// allocate finds the first free slot by linear scan. Caller holds s.mu.
func (s *Scheduler) allocate() (int, bool) {
	for i := range s.slots {
		if s.slots[i].cb == nil {
			return i, true
		}
	}
	return noSlot, false
}

// release clears a slot back to the free state so a later Push can reuse it.
// The slot must already be unlinked. Caller holds s.mu.
func (s *Scheduler) release(idx int) {
	s.slots[idx] = slot{prio: PriorityNone, next: noSlot}
	s.stats.NumTasksCur--
}
