package ui

import (
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tabledash/config"
	"tabledash/markup"
	"tabledash/statusbar"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/zeebo/xxh3"
)

const (
	accentTag   = "[#5fafd7]"
	accentReset = "[-]"

	systemPaneLines = 200
	slotPlaceholder = "[gray]---[-]"
)

var (
	uiBorderColor = tcell.ColorGray
	uiTitleColor  = tcell.ColorSteelBlue
)

// Dashboard is the full-screen tview surface: one small box per status-bar
// slot across the top, the cluster report below, then the system log and a
// footer line.
type Dashboard struct {
	app       *tview.Application
	slots     []*tview.TextView
	content   *tview.TextView
	system    *tview.TextView
	footer    *tview.TextView
	scheduler *frameScheduler

	mu          sync.Mutex
	contentHash uint64
	hasContent  bool
	systemLines ringLines
	footerText  string
	scrollPane  *tview.TextView

	skippedContent atomic.Uint64

	ready    chan struct{}
	done     chan struct{}
	doneOnce sync.Once
	stopOnce sync.Once
}

// NewDashboard builds the layout and starts the tview event loop.
func NewDashboard(cfg config.UIConfig) *Dashboard {
	app := tview.NewApplication().EnableMouse(cfg.EnableMouse)
	d := newDashboard(app, cfg.TargetFPS, func(fn func()) { app.QueueUpdateDraw(fn) })

	var once sync.Once
	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		once.Do(func() { close(d.ready) })
		return false
	})
	d.installKeybindings()
	d.installRoot()
	d.scheduler.Start()

	go func() {
		if err := app.Run(); err != nil {
			log.Printf("UI: tview error: %v", err)
		}
		d.markDone()
	}()
	return d
}

// newDashboard wires the widgets without touching the terminal.
func newDashboard(app *tview.Application, targetFPS int, queue func(func())) *Dashboard {
	d := &Dashboard{
		app:         app,
		content:     newBoxedTextView("Cluster"),
		system:      newBoxedTextView("System"),
		footer:      tview.NewTextView().SetDynamicColors(true),
		systemLines: newRingLines(systemPaneLines),
		ready:       make(chan struct{}),
		done:        make(chan struct{}),
	}
	d.content.SetScrollable(true)
	d.content.SetText(markup.Gray + "waiting for the first status..." + markup.Reset)
	d.system.SetScrollable(true)
	for _, slot := range statusbar.Slots() {
		tv := newBoxedTextView(slot.Label())
		tv.SetText(slotPlaceholder)
		d.slots = append(d.slots, tv)
	}
	d.scrollPane = d.content
	d.footer.SetText(footerText(""))
	d.scheduler = newFrameScheduler(queue, targetFPS, 100*time.Millisecond, nil)
	return d
}

func (d *Dashboard) installRoot() {
	bar := tview.NewFlex().SetDirection(tview.FlexColumn)
	for _, tv := range d.slots {
		bar.AddItem(tv, 0, 1, false)
	}
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(bar, 3, 0, false).
		AddItem(d.content, 0, 3, true).
		AddItem(d.system, 8, 0, false).
		AddItem(d.footer, 1, 0, false)
	d.app.SetRoot(root, true)
}

func (d *Dashboard) installKeybindings() {
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if d.handleKey(event) {
			return nil
		}
		return event
	})
}

// handleKey reports whether the event was consumed.
func (d *Dashboard) handleKey(event *tcell.EventKey) bool {
	if event == nil {
		return false
	}
	switch event.Key() {
	case tcell.KeyCtrlC:
		d.quit()
		return true
	case tcell.KeyTab:
		d.mu.Lock()
		if d.scrollPane == d.content {
			d.scrollPane = d.system
		} else {
			d.scrollPane = d.content
		}
		d.mu.Unlock()
		return true
	case tcell.KeyRune:
		if event.Rune() == 'q' || event.Rune() == 'Q' {
			d.quit()
			return true
		}
		return false
	}
	d.mu.Lock()
	target := d.scrollPane
	d.mu.Unlock()
	return scrollTextView(target, event)
}

func (d *Dashboard) quit() {
	d.markDone()
	if d.app != nil {
		d.app.Stop()
	}
}

func (d *Dashboard) markDone() {
	d.doneOnce.Do(func() { close(d.done) })
}

func (d *Dashboard) WaitReady() {
	if d == nil || d.ready == nil {
		return
	}
	select {
	case <-d.ready:
	case <-d.done:
	}
}

func (d *Dashboard) Done() <-chan struct{} {
	if d == nil {
		return nil
	}
	return d.done
}

func (d *Dashboard) Stop() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() {
		d.scheduler.Stop()
		if d.app != nil {
			d.app.Stop()
		}
		d.markDone()
	})
}

func (d *Dashboard) WriteSlot(slot statusbar.Slot, text string) {
	if d == nil || int(slot) >= len(d.slots) {
		return
	}
	tv := d.slots[slot]
	d.scheduler.Schedule(slot.ID(), func() {
		tv.SetText(text)
	})
}

// SetContent replaces the report. Identical text is dropped before it reaches
// the draw loop so an idle cluster costs no redraws.
func (d *Dashboard) SetContent(text string) {
	if d == nil {
		return
	}
	hash := xxh3.HashString(text)
	d.mu.Lock()
	if d.hasContent && hash == d.contentHash {
		d.mu.Unlock()
		d.skippedContent.Add(1)
		return
	}
	d.hasContent = true
	d.contentHash = hash
	d.mu.Unlock()

	d.scheduler.Schedule("content", func() {
		row, col := d.content.GetScrollOffset()
		d.content.SetText(text)
		d.content.ScrollTo(row, col)
	})
}

// SkippedContent counts SetContent calls dropped as unchanged.
func (d *Dashboard) SkippedContent() uint64 {
	if d == nil {
		return 0
	}
	return d.skippedContent.Load()
}

func (d *Dashboard) SetFooter(text string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	if text == d.footerText {
		d.mu.Unlock()
		return
	}
	d.footerText = text
	d.mu.Unlock()
	d.scheduler.Schedule("footer", func() {
		d.footer.SetText(footerText(text))
	})
}

func (d *Dashboard) AppendSystem(line string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.systemLines.add(markup.Escape(line))
	text := strings.Join(d.systemLines.snapshot(), "\n")
	d.mu.Unlock()
	d.scheduler.Schedule("system", func() {
		d.system.SetText(text)
		d.system.ScrollToEnd()
	})
}

func (d *Dashboard) SystemWriter() io.Writer {
	if d == nil {
		return nil
	}
	return newLineWriter(d.AppendSystem)
}

func newBoxedTextView(title string) *tview.TextView {
	tv := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	tv.SetBorder(true)
	if title != "" {
		tv.SetTitle(accentText(title)).SetTitleAlign(tview.AlignLeft)
	}
	tv.SetBorderColor(uiBorderColor)
	tv.SetTitleColor(uiTitleColor)
	return tv
}

func footerText(stats string) string {
	keys := accentText("Q") + "Quit  " + accentText("Tab") + "Pane  " + accentText("↑↓ PgUp PgDn") + "Scroll"
	if stats == "" {
		return keys
	}
	return keys + "  " + markup.Gray + "|" + markup.Reset + " " + stats
}

func scrollTextView(target *tview.TextView, event *tcell.EventKey) bool {
	if target == nil || event == nil {
		return false
	}
	row, col := target.GetScrollOffset()
	page := 10
	_, _, _, height := target.GetInnerRect()
	if height > 1 {
		page = height - 1
	}
	switch event.Key() {
	case tcell.KeyUp:
		if row > 0 {
			row--
		}
	case tcell.KeyDown:
		row++
	case tcell.KeyPgUp:
		row -= page
		if row < 0 {
			row = 0
		}
	case tcell.KeyPgDn:
		row += page
	case tcell.KeyHome:
		row = 0
	case tcell.KeyEnd:
		target.ScrollToEnd()
		return true
	default:
		return false
	}
	target.ScrollTo(row, col)
	return true
}

func accentText(text string) string {
	if text == "" {
		return ""
	}
	return accentTag + text + accentReset
}
