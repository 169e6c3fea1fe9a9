// Package report turns a status snapshot into the dashboard's main content.
// Rendering is a pure function of the snapshot: the package holds no state
// between polls.
package report

import (
	"fmt"
	"strings"

	"tabledash/humanfmt"
	"tabledash/markup"
	"tabledash/status"
)

// View is the rendered main content for one snapshot.
type View struct {
	Phase status.Phase
	Text  string
}

// Render selects the layout from the snapshot phase. An unknown phase yields
// an empty view the caller should not draw.
func Render(snap status.Snapshot) View {
	switch snap.Phase {
	case status.PhaseInitializing:
		if snap.Initializing != nil {
			return View{Phase: snap.Phase, Text: RenderInitializing(snap.Initializing)}
		}
	case status.PhaseInitialized:
		if snap.Initialized != nil {
			return View{Phase: snap.Phase, Text: RenderInitialized(snap.Initialized)}
		}
	}
	return View{Phase: status.PhaseUnknown}
}

// RenderInitializing draws cluster bring-up progress.
func RenderInitializing(st *status.InitializingState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sRemains tables to load: %d%s\n", markup.Bold, st.TablesRemaining, markup.BoldReset)
	fmt.Fprintf(&b, "Total loading time is: %s\n", humanfmt.FormatSeconds(st.ElapsedSeconds))
	if st.CurrentTable != "" {
		fmt.Fprintf(&b, "Current table: %s\n", markup.Escape(st.CurrentTable))
	}
	if st.Error != "" {
		b.WriteString(markup.Color(markup.Red, "Error: "+markup.Escape(st.Error)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	rows := st.SortedProgress()
	width := len("TableName")
	for _, row := range rows {
		if len(row.TableName) > width {
			width = len(row.TableName)
		}
	}
	fmt.Fprintf(&b, "%s%-*s  %8s  %8s  %10s  %10s%s\n", markup.Bold, width, "TableName", "Loaded", "Total", "Time gone", "Estimation", markup.BoldReset)
	for _, row := range rows {
		name := markup.Escape(row.TableName)
		pad := width - len(row.TableName)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "%s%s  %8d  %8d  %10s  %10s\n",
			name, strings.Repeat(" ", pad),
			row.PartitionsLoaded, row.PartitionsTotal,
			humanfmt.FormatSeconds(row.SecondsElapsed), EstimateRemaining(row))
	}
	return b.String()
}

// EstimateRemaining extrapolates the time left for a table from its average
// time per loaded partition. It is "Unknown" until something was loaded.
func EstimateRemaining(p status.TableLoadProgress) string {
	if p.PartitionsTotal == 0 || p.PartitionsLoaded == 0 {
		return "Unknown"
	}
	perPartition := p.SecondsElapsed / float64(p.PartitionsLoaded)
	remaining := float64(p.PartitionsTotal-p.PartitionsLoaded) * perPartition
	return humanfmt.FormatSeconds(float64(humanfmt.Trunc(remaining)))
}
