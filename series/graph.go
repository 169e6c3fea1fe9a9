package series

import (
	"math"
	"strings"
)

// LabelFunc renders a raw value for humans (bytes, durations...).
type LabelFunc func(float64) string

// TransformFunc maps a raw value before it is scaled onto the glyph range.
type TransformFunc func(float64) float64

// HighlightFunc flags individual raw values for distinct treatment.
type HighlightFunc func(float64) bool

const (
	emptyGraph     = "·"
	highlightOpen  = "[red]"
	highlightClose = "[-]"
)

var glyphs = []rune("▁▂▃▄▅▆▇█")

// Graph is a rendered sequence: the sparkline plus labels for the latest and
// the peak raw value.
type Graph struct {
	Bars  string
	Last  string
	Peak  string
	Empty bool
}

// Identity leaves values untouched.
func Identity(v float64) float64 { return v }

// NeverHighlight marks no point.
func NeverHighlight(float64) bool { return false }

// RenderGraph scales values between min(0, lowest) and the highest transformed
// value. Highlighted points are wrapped in a colour tag. An empty series gives
// a neutral graph.
func RenderGraph(values []float64, label LabelFunc, transform TransformFunc, highlight HighlightFunc) Graph {
	if len(values) == 0 {
		return Graph{Bars: emptyGraph, Empty: true}
	}
	if transform == nil {
		transform = Identity
	}
	if highlight == nil {
		highlight = NeverHighlight
	}
	if label == nil {
		label = func(float64) string { return "" }
	}

	scaled := make([]float64, len(values))
	lo, hi := 0.0, math.Inf(-1)
	peakIdx := 0
	for i, raw := range values {
		v := transform(raw)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		scaled[i] = v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		if raw > values[peakIdx] {
			peakIdx = i
		}
	}

	var b strings.Builder
	span := hi - lo
	top := float64(len(glyphs) - 1)
	for i, v := range scaled {
		level := 0
		if span > 0 {
			level = int(math.Round((v - lo) / span * top))
		}
		if highlight(values[i]) {
			b.WriteString(highlightOpen)
			b.WriteRune(glyphs[level])
			b.WriteString(highlightClose)
			continue
		}
		b.WriteRune(glyphs[level])
	}

	return Graph{
		Bars: b.String(),
		Last: label(values[len(values)-1]),
		Peak: label(values[peakIdx]),
	}
}

// String composes the bars with their labels.
func (g Graph) String() string {
	if g.Empty {
		return g.Bars
	}
	var b strings.Builder
	b.WriteString(g.Bars)
	if g.Last != "" {
		b.WriteString(" last=")
		b.WriteString(g.Last)
	}
	if g.Peak != "" {
		b.WriteString(" peak=")
		b.WriteString(g.Peak)
	}
	return b.String()
}
