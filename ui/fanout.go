package ui

import (
	"io"

	"tabledash/statusbar"
)

// Fanout forwards every call to each wrapped surface in order. The first
// surface owns the system log and the quit signal.
type Fanout struct {
	surfaces []Surface
}

// NewFanout skips nil surfaces. With a single surface it returns that
// surface unchanged.
func NewFanout(surfaces ...Surface) Surface {
	kept := make([]Surface, 0, len(surfaces))
	for _, s := range surfaces {
		if s != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &Fanout{surfaces: kept}
}

func (f *Fanout) WaitReady() {
	for _, s := range f.surfaces {
		s.WaitReady()
	}
}

func (f *Fanout) Stop() {
	for _, s := range f.surfaces {
		s.Stop()
	}
}

func (f *Fanout) Done() <-chan struct{} {
	for _, s := range f.surfaces {
		if ch := s.Done(); ch != nil {
			return ch
		}
	}
	return nil
}

func (f *Fanout) WriteSlot(slot statusbar.Slot, text string) {
	for _, s := range f.surfaces {
		s.WriteSlot(slot, text)
	}
}

func (f *Fanout) SetContent(text string) {
	for _, s := range f.surfaces {
		s.SetContent(text)
	}
}

func (f *Fanout) SetFooter(text string) {
	for _, s := range f.surfaces {
		s.SetFooter(text)
	}
}

func (f *Fanout) SystemWriter() io.Writer {
	if len(f.surfaces) == 0 {
		return nil
	}
	return f.surfaces[0].SystemWriter()
}
