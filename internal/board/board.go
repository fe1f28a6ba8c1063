// Package board abstracts the mote platform surface the scheduler touches:
// wake-up signals, activity and error indicators, and the reset line. On a
// real mote these map to semaphores, LEDs, and a watchdog-style reboot; the
// host implementation logs indicator activity and exits the process on reset.
package board

import (
	"log/slog"
	"os"
)

// Board is the indication sink and reset line the scheduler reports through.
// It carries no behavioral weight beyond Reset: indicator calls are
// observability only.
type Board interface {
	// ToggleActivity flips the activity indicator for the given worker band.
	ToggleActivity(band int)
	// BlinkError drives the error indicator before a reset.
	BlinkError()
	// Reset restarts the whole system. It never returns.
	Reset()
}

// HostBoard implements Board for off-target runs. Indicators become log
// lines; Reset terminates the process.
type HostBoard struct {
	logger *slog.Logger
	exit   func(code int)
}

// NewHostBoard creates a host board logging through logger.
func NewHostBoard(logger *slog.Logger) *HostBoard {
	return &HostBoard{
		logger: logger.With("component", "board"),
		exit:   os.Exit,
	}
}

func (b *HostBoard) ToggleActivity(band int) {
	b.logger.Debug("activity", "band", band)
}

func (b *HostBoard) BlinkError() {
	b.logger.Error("error indicator blink")
}

// Reset terminates the process. State is lost; a supervisor restarting the
// binary stands in for the mote rebooting into a fresh image.
func (b *HostBoard) Reset() {
	b.logger.Error("system reset")
	b.exit(2)
}
