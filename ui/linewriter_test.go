package ui

import (
	"strings"
	"testing"
)

func TestLineWriterSplitsAndBuffers(t *testing.T) {
	var got []string
	w := newLineWriter(func(line string) { got = append(got, line) })

	if _, err := w.Write([]byte("Poller: first\r\nPoller: sec")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(got) != 1 || got[0] != "Poller: first" {
		t.Fatalf("unexpected lines after first write: %q", got)
	}
	if _, err := w.Write([]byte("ond\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(got) != 2 || got[1] != "Poller: second" {
		t.Fatalf("unexpected lines after second write: %q", got)
	}
}

func TestLineWriterFlushesOversizedPartial(t *testing.T) {
	var got []string
	w := newLineWriter(func(line string) { got = append(got, line) })
	long := strings.Repeat("x", lineWriterMaxBytes+1)
	_, _ = w.Write([]byte(long))
	if len(got) != 1 || len(got[0]) != len(long) {
		t.Fatalf("expected oversized partial line to flush, got %d lines", len(got))
	}
	_, _ = w.Write([]byte("tail\n"))
	if len(got) != 2 || got[1] != "tail" {
		t.Fatalf("expected buffer reset after overflow, got %q", got[1:])
	}
}

func TestRingLinesKeepsNewest(t *testing.T) {
	r := newRingLines(3)
	for _, line := range []string{"a", "b", "c", "d"} {
		r.add(line)
	}
	got := strings.Join(r.snapshot(), ",")
	if got != "b,c,d" {
		t.Fatalf("expected b,c,d, got %s", got)
	}
}
