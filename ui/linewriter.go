package ui

import (
	"bytes"
	"sync"
)

const lineWriterMaxBytes = 16 * 1024

// lineWriter turns log output into whole lines for a pane. A partial line
// longer than lineWriterMaxBytes is flushed as-is.
type lineWriter struct {
	append func(string)
	buf    []byte
	mu     sync.Mutex
}

func newLineWriter(append func(string)) *lineWriter {
	return &lineWriter{append: append}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	if w == nil || w.append == nil {
		return len(p), nil
	}
	var lines []string
	w.mu.Lock()
	w.buf = append(w.buf, p...)
	data := w.buf
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			break
		}
		lines = append(lines, string(bytes.TrimRight(data[:idx], "\r")))
		data = data[idx+1:]
	}
	if len(data) > lineWriterMaxBytes {
		if trimmed := string(bytes.TrimRight(data, "\r")); trimmed != "" {
			lines = append(lines, trimmed)
		}
		data = data[:0]
	}
	w.buf = append(w.buf[:0], data...)
	w.mu.Unlock()

	for _, line := range lines {
		w.append(line)
	}
	return len(p), nil
}

// ringLines keeps the most recent lines of a pane.
type ringLines struct {
	lines []string
	idx   int
	count int
}

func newRingLines(size int) ringLines {
	if size <= 0 {
		size = 1
	}
	return ringLines{lines: make([]string, size)}
}

func (r *ringLines) add(line string) {
	if len(r.lines) == 0 {
		return
	}
	r.lines[r.idx] = line
	r.idx = (r.idx + 1) % len(r.lines)
	if r.count < len(r.lines) {
		r.count++
	}
}

// snapshot returns the retained lines oldest first.
func (r *ringLines) snapshot() []string {
	if r.count == 0 {
		return nil
	}
	out := make([]string, 0, r.count)
	start := r.idx - r.count
	if start < 0 {
		start += len(r.lines)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.lines[(start+i)%len(r.lines)])
	}
	return out
}
