package board

// Signal is a binary wake-up primitive, the host equivalent of a binary
// semaphore given from interrupt context. Give never blocks: a give while one
// is already pending coalesces into it, so at most one wake-up is buffered.
// Consumers that may have missed coalesced gives must re-check their work
// source after every wake.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a signal with no wake-up pending.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Give raises the signal. Safe to call from any goroutine, never blocks.
func (s *Signal) Give() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the channel to block on for the next wake-up.
func (s *Signal) C() <-chan struct{} {
	return s.ch
}
