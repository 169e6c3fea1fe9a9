package ui

import (
	"io"

	"tabledash/statusbar"
)

// Surface is an output for the dashboard: a row of status-bar slots, the main
// content block, a footer line and a system log.
// Implementations must be safe for concurrent calls from the poll loop and the
// logger.
type Surface interface {
	WaitReady()
	Stop()
	// Done is closed when the user asked the surface to quit. Surfaces that
	// cannot be quit interactively return nil.
	Done() <-chan struct{}
	WriteSlot(slot statusbar.Slot, text string)
	SetContent(text string)
	SetFooter(text string)
	SystemWriter() io.Writer
}
