package sched

// Fault enumerates the terminal invariant violations. Each one indicates a
// static misconfiguration (pool sized too small, boundaries not covering the
// priority domain) that is not safe to continue past.
type Fault int

const (
	// FaultPoolExhausted: Push found no free slot among PoolDepth slots.
	FaultPoolExhausted Fault = iota
	// FaultUnmappedPriority: a pushed priority falls outside every band.
	FaultUnmappedPriority
)

func (f Fault) String() string {
	switch f {
	case FaultPoolExhausted:
		return "pool exhausted"
	case FaultUnmappedPriority:
		return "unmapped priority"
	default:
		return "unknown fault"
	}
}

// fail reports a fatal invariant violation through the indication sink and
// resets the system. There is no recovery path: on a real board Reset never
// returns. Test boards may panic instead; callers return immediately after
// fail so a surviving fake leaves the scheduler untouched beyond the log.
func (s *Scheduler) fail(f Fault) {
	s.logger.Error("fatal scheduler fault", "fault", f.String())
	s.brd.BlinkError()
	s.brd.Reset()
}
