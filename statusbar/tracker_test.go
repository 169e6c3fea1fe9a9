package statusbar

import (
	"testing"

	"tabledash/status"
)

type recorder struct {
	writes []write
}

type write struct {
	slot Slot
	text string
}

func (r *recorder) WriteSlot(slot Slot, text string) {
	r.writes = append(r.writes, write{slot: slot, text: text})
}

func (r *recorder) count(slot Slot) int {
	n := 0
	for _, w := range r.writes {
		if w.slot == slot {
			n++
		}
	}
	return n
}

func (r *recorder) lastText(slot Slot) string {
	for i := len(r.writes) - 1; i >= 0; i-- {
		if r.writes[i].slot == slot {
			return r.writes[i].text
		}
	}
	return ""
}

func baseFields() status.StatusBarFields {
	return status.StatusBarFields{
		PersistQueueDepth: 1,
		TCPConnections:    2,
		HTTPConnections:   3,
		TableCount:        10,
		LocationID:        "eu-west",
	}
}

func TestUpdateWritesOnlyOnChange(t *testing.T) {
	rec := &recorder{}
	tr := New(rec)

	tr.Update(baseFields())
	tr.Update(baseFields())
	if got := rec.count(SlotTables); got != 1 {
		t.Fatalf("identical table count should write once, got %d", got)
	}

	next := baseFields()
	next.TableCount = 11
	tr.Update(next)
	if got := rec.count(SlotTables); got != 2 {
		t.Fatalf("changed table count should write again, got %d", got)
	}
	if rec.lastText(SlotTables) != "11" {
		t.Fatalf("unexpected table text %q", rec.lastText(SlotTables))
	}
	if got := rec.count(SlotLocation); got != 1 {
		t.Fatalf("unchanged location written %d times", got)
	}
}

func TestFirstUpdateWritesEverySlot(t *testing.T) {
	rec := &recorder{}
	tr := New(rec)
	tr.Update(baseFields())
	for _, slot := range Slots() {
		if slot == SlotSyncQueue {
			continue
		}
		if rec.count(slot) != 1 {
			t.Fatalf("slot %s written %d times", slot.ID(), rec.count(slot))
		}
	}
	if rec.lastText(SlotMasterNode) != "[gray]---[-]" {
		t.Fatalf("missing master node should render placeholder, got %q", rec.lastText(SlotMasterNode))
	}
	if rec.lastText(SlotCompression) != "[gray]disabled[-]" {
		t.Fatalf("unexpected compression text %q", rec.lastText(SlotCompression))
	}
}

func TestConnectivityIsEdgeTriggered(t *testing.T) {
	rec := &recorder{}
	tr := New(rec)

	if !tr.MarkOffline() {
		t.Fatalf("first offline should be a transition")
	}
	if tr.MarkOffline() {
		t.Fatalf("second offline should not be a transition")
	}
	if got := rec.count(SlotConnected); got != 1 {
		t.Fatalf("offline twice should write once, got %d", got)
	}
	if rec.lastText(SlotConnected) != "[red]offline[-]" {
		t.Fatalf("unexpected offline text %q", rec.lastText(SlotConnected))
	}

	tr.Update(baseFields())
	tr.Update(baseFields())
	if got := rec.count(SlotConnected); got != 2 {
		t.Fatalf("reconnect should write once, got %d writes total", got)
	}
	if !tr.Online() {
		t.Fatalf("expected online after update")
	}

	tr.MarkOffline()
	tr.MarkOnline()
	if got := rec.count(SlotConnected); got != 4 {
		t.Fatalf("each transition should write once, got %d", got)
	}
}

func TestSyncQueueAlwaysWrites(t *testing.T) {
	rec := &recorder{}
	tr := New(rec)
	tr.UpdateSyncQueue(1536)
	tr.UpdateSyncQueue(1536)
	if got := rec.count(SlotSyncQueue); got != 2 {
		t.Fatalf("gauge should write every call, got %d", got)
	}
	if rec.lastText(SlotSyncQueue) != "1.5 KiB" {
		t.Fatalf("unexpected gauge text %q", rec.lastText(SlotSyncQueue))
	}
}

func TestHTTPSlotTracksUsedConnections(t *testing.T) {
	rec := &recorder{}
	tr := New(rec)
	f := baseFields()
	tr.Update(f)
	f.UsedHTTPConnections = 2
	tr.Update(f)
	if got := rec.count(SlotHTTP); got != 2 {
		t.Fatalf("expected two http writes, got %d", got)
	}
	if rec.lastText(SlotHTTP) != "3 (2 used)" {
		t.Fatalf("unexpected http text %q", rec.lastText(SlotHTTP))
	}
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker
	tr.Update(baseFields())
	tr.UpdateSyncQueue(1)
	if tr.MarkOffline() {
		t.Fatalf("nil tracker should not transition")
	}
	if tr.Writes() != 0 || tr.Online() {
		t.Fatalf("nil tracker should report zero state")
	}
}
