package statusbar

import (
	"strconv"

	"tabledash/humanfmt"
	"tabledash/status"
)

// SlotWriter is the visible surface the tracker writes to.
type SlotWriter interface {
	WriteSlot(slot Slot, text string)
}

type connState uint8

const (
	connUnknown connState = iota
	connOnline
	connOffline
)

type httpValue struct {
	open int64
	used int64
}

// Tracker remembers the last value written to each slot. It is not safe for
// concurrent use; the poll loop owns it.
type Tracker struct {
	w      SlotWriter
	conn   connState
	last   [slotCount]any
	set    [slotCount]bool
	writes uint64
}

// New builds a tracker for one dashboard session.
func New(w SlotWriter) *Tracker {
	return &Tracker{w: w}
}

// Update writes every field whose value differs from the last one written
// and marks the source as connected.
func (t *Tracker) Update(f status.StatusBarFields) {
	if t == nil {
		return
	}
	t.MarkOnline()
	t.apply(SlotLocation, f.LocationID, func() string { return f.LocationID })
	t.apply(SlotTables, f.TableCount, func() string { return humanfmt.Comma(f.TableCount) })
	t.apply(SlotCompression, f.CompressionEnabled, func() string { return compressionText(f.CompressionEnabled) })
	t.apply(SlotMasterNode, f.MasterNodeID, func() string { return masterNodeText(f.MasterNodeID) })
	t.apply(SlotPersistQueue, f.PersistQueueDepth, func() string { return humanfmt.Comma(f.PersistQueueDepth) })
	t.apply(SlotTCP, f.TCPConnections, func() string { return humanfmt.Comma(f.TCPConnections) })
	http := httpValue{open: f.HTTPConnections, used: f.UsedHTTPConnections}
	t.apply(SlotHTTP, http, func() string { return httpText(http) })
}

// UpdateSyncQueue renders the sync-queue gauge. It writes on every call.
func (t *Tracker) UpdateSyncQueue(pendingBytes int64) {
	if t == nil {
		return
	}
	t.write(SlotSyncQueue, humanfmt.Bytes(pendingBytes))
}

// MarkOnline flips connectivity to online; it writes only on a transition.
func (t *Tracker) MarkOnline() {
	if t == nil || t.conn == connOnline {
		return
	}
	t.conn = connOnline
	t.write(SlotConnected, "[green]yes[-]")
}

// MarkOffline flips connectivity to offline and reports whether this call
// was a transition. Repeated calls write once.
func (t *Tracker) MarkOffline() bool {
	if t == nil || t.conn == connOffline {
		return false
	}
	t.conn = connOffline
	t.write(SlotConnected, "[red]offline[-]")
	return true
}

// Online reports the current connectivity state.
func (t *Tracker) Online() bool {
	return t != nil && t.conn == connOnline
}

// Writes counts slot writes issued so far.
func (t *Tracker) Writes() uint64 {
	if t == nil {
		return 0
	}
	return t.writes
}

func (t *Tracker) apply(slot Slot, value any, render func() string) {
	if t.set[slot] && t.last[slot] == value {
		return
	}
	t.set[slot] = true
	t.last[slot] = value
	t.write(slot, render())
}

func (t *Tracker) write(slot Slot, text string) {
	t.writes++
	if t.w != nil {
		t.w.WriteSlot(slot, text)
	}
}

func compressionText(enabled bool) string {
	if enabled {
		return "[green]enabled[-]"
	}
	return "[gray]disabled[-]"
}

func masterNodeText(id string) string {
	if id == "" {
		return "[gray]---[-]"
	}
	return "[green]" + id + "[-]"
}

func httpText(v httpValue) string {
	text := humanfmt.Comma(v.open)
	if v.used > 0 {
		text += " (" + strconv.FormatInt(v.used, 10) + " used)"
	}
	return text
}
