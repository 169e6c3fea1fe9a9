package ui

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"tabledash/config"
	"tabledash/markup"
	"tabledash/statusbar"
)

const (
	ansiSystemLines = 6
	minANSIRefresh  = 16 * time.Millisecond
)

// ANSIConsole is a lightweight renderer that redraws the whole screen with
// ANSI escape codes on a fixed cadence. It is selected via ui.mode=ansi.
type ANSIConsole struct {
	mu        sync.Mutex
	out       io.Writer
	slots     []string
	content   string
	footer    string
	system    ringLines
	dirty     bool
	refresh   time.Duration
	color     bool
	clear     bool
	quit      chan struct{}
	stopOnce  sync.Once
	renderBuf bytes.Buffer
}

// NewANSIConsole starts the refresh loop writing to out (stdout when nil).
func NewANSIConsole(cfg config.UIConfig, out io.Writer) *ANSIConsole {
	c := newANSIConsole(cfg, out)
	if c.refresh > 0 {
		go c.refreshLoop()
	}
	return c
}

func newANSIConsole(cfg config.UIConfig, out io.Writer) *ANSIConsole {
	if out == nil {
		out = os.Stdout
	}
	refresh := time.Duration(cfg.RefreshMS) * time.Millisecond
	if refresh < 0 {
		refresh = 0
	}
	if refresh > 0 && refresh < minANSIRefresh {
		log.Printf("UI: clamping refresh interval to %dms (requested %dms too low)", minANSIRefresh/time.Millisecond, refresh/time.Millisecond)
		refresh = minANSIRefresh
	}
	slots := make([]string, len(statusbar.Slots()))
	for i := range slots {
		slots[i] = slotPlaceholder
	}
	return &ANSIConsole{
		out:     out,
		slots:   slots,
		system:  newRingLines(ansiSystemLines),
		refresh: refresh,
		color:   cfg.Color,
		clear:   cfg.ClearScreen,
		quit:    make(chan struct{}),
		dirty:   true,
	}
}

func (c *ANSIConsole) WaitReady() {}

func (c *ANSIConsole) Done() <-chan struct{} { return nil }

func (c *ANSIConsole) Stop() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() {
		close(c.quit)
	})
}

func (c *ANSIConsole) WriteSlot(slot statusbar.Slot, text string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if int(slot) < len(c.slots) {
		c.slots[slot] = text
		c.dirty = true
	}
	c.mu.Unlock()
}

func (c *ANSIConsole) SetContent(text string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if text != c.content {
		c.content = text
		c.dirty = true
	}
	c.mu.Unlock()
}

func (c *ANSIConsole) SetFooter(text string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if text != c.footer {
		c.footer = text
		c.dirty = true
	}
	c.mu.Unlock()
}

func (c *ANSIConsole) AppendSystem(line string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.system.add(line)
	c.dirty = true
	c.mu.Unlock()
}

func (c *ANSIConsole) SystemWriter() io.Writer {
	if c == nil {
		return nil
	}
	return newLineWriter(c.AppendSystem)
}

func (c *ANSIConsole) refreshLoop() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ANSI console panic: %v\n", r)
		}
	}()
	ticker := time.NewTicker(c.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.render()
		case <-c.quit:
			return
		}
	}
}

// render draws one frame when anything changed since the last one.
func (c *ANSIConsole) render() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return
	}
	c.dirty = false
	slots := append([]string(nil), c.slots...)
	content := c.content
	footer := c.footer
	system := c.system.snapshot()
	c.mu.Unlock()

	c.renderBuf.Reset()
	if c.clear {
		c.renderBuf.WriteString("\x1b[2J\x1b[H")
	}
	parts := make([]string, 0, len(slots))
	for i, slot := range statusbar.Slots() {
		parts = append(parts, slot.Label()+": "+slots[i])
	}
	c.writeLine(strings.Join(parts, "  "))
	c.renderBuf.WriteByte('\n')
	for _, line := range strings.Split(content, "\n") {
		c.writeLine(line)
	}
	c.renderBuf.WriteString("---- System ----\n")
	for _, line := range system {
		c.writeLine(line)
	}
	if footer != "" {
		c.writeLine(footer)
	}
	_, _ = c.renderBuf.WriteTo(c.out)
}

func (c *ANSIConsole) writeLine(line string) {
	if line != "" {
		c.renderBuf.WriteString(markup.ANSI(line, c.color))
	}
	c.renderBuf.WriteByte('\n')
}
