package sched

// insert links slot idx into the queue, keeping the chain sorted by
// non-decreasing priority. The walk continues past nodes with priority equal
// to the new task's, so equal-priority tasks drain in arrival order. Caller
// holds s.mu.
func (s *Scheduler) insert(idx int) {
	prio := s.slots[idx].prio

	if s.head == noSlot || s.slots[s.head].prio > prio {
		s.slots[idx].next = s.head
		s.head = idx
	} else {
		cur := s.head
		for s.slots[cur].next != noSlot && s.slots[s.slots[cur].next].prio <= prio {
			cur = s.slots[cur].next
		}
		s.slots[idx].next = s.slots[cur].next
		s.slots[cur].next = idx
	}

	s.stats.NumTasksCur++
	if s.stats.NumTasksCur > s.stats.NumTasksMax {
		s.stats.NumTasksMax = s.stats.NumTasksCur
	}
}

// extract unlinks and returns the first queued slot with priority in
// [lo, hi). The chain is globally sorted, so the first band member found is
// also the most urgent task in that band. Returns false when the band is
// empty, which is the normal end-of-drain outcome. Caller holds s.mu.
func (s *Scheduler) extract(lo, hi Priority) (int, bool) {
	prev := noSlot
	for cur := s.head; cur != noSlot; cur = s.slots[cur].next {
		p := s.slots[cur].prio
		if p >= lo && p < hi {
			if prev == noSlot {
				s.head = s.slots[cur].next
			} else {
				s.slots[prev].next = s.slots[cur].next
			}
			s.slots[cur].next = noSlot
			return cur, true
		}
		prev = cur
	}
	return noSlot, false
}
