package sched

import "context"

// runWorker is the band worker loop, one goroutine per band: block on the
// band's signal, drain the band, block again.
//
// The on-target reference extracts a single task per wake-up. Its wake-up
// primitive is binary, so a give delivered mid-drain coalesces into the
// pending one and a task can strand until an unrelated future wake. Draining
// to empty before re-blocking closes that hole; the stronger contract is
// deliberate.
func (s *Scheduler) runWorker(ctx context.Context, band BandID) {
	defer s.wg.Done()

	lo, hi := s.cfg.BandRange(band)
	sig := s.signals[band]
	s.logger.Debug("worker ready", "band", band, "lo", lo, "hi", hi)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("worker stopping", "band", band)
			return
		case <-sig.C():
		}
		s.drain(band, lo, hi)
	}
}

// drain extracts and executes band tasks until none remain. Extraction and
// release each happen inside the scheduler lock; the callback runs outside
// it so it can Push follow-up work re-entrantly. The extracted slot is
// invisible to allocate until released (its cb is still set), so the walk is
// safe against concurrent producers.
func (s *Scheduler) drain(band BandID, lo, hi Priority) {
	for {
		s.mu.Lock()
		idx, ok := s.extract(lo, hi)
		if !ok {
			s.mu.Unlock()
			return
		}
		cb := s.slots[idx].cb
		s.mu.Unlock()

		cb()

		s.mu.Lock()
		s.release(idx)
		s.stats.Executed[band]++
		s.mu.Unlock()

		s.brd.ToggleActivity(int(band))
	}
}
