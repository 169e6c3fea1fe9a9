package ui

import (
	"io"
	"os"

	"tabledash/statusbar"
)

// Headless discards everything except log output, which goes to stderr.
// It is used when no terminal is attached.
type Headless struct {
	logs io.Writer
}

func NewHeadless(logs io.Writer) *Headless {
	if logs == nil {
		logs = os.Stderr
	}
	return &Headless{logs: logs}
}

func (h *Headless) WaitReady()                                 {}
func (h *Headless) Stop()                                      {}
func (h *Headless) Done() <-chan struct{}                      { return nil }
func (h *Headless) WriteSlot(slot statusbar.Slot, text string) {}
func (h *Headless) SetContent(text string)                     {}
func (h *Headless) SetFooter(text string)                      {}

func (h *Headless) SystemWriter() io.Writer {
	if h == nil {
		return nil
	}
	return h.logs
}
