package report

import (
	"fmt"
	"sort"
	"strings"

	"tabledash/humanfmt"
	"tabledash/markup"
	"tabledash/series"
	"tabledash/status"
)

// graphPoints bounds how much history a sparkline shows.
const graphPoints = 60

func throughputLabel(v float64) string {
	return humanfmt.Bytes(int64(v)) + "/s"
}

func durationLabel(v float64) string {
	return humanfmt.DurationMicros(int64(v))
}

// RenderInitialized draws topology, aggregate throughput and table health.
func RenderInitialized(st *status.InitializedState) string {
	var b strings.Builder
	nodes, others := status.PeersByRole(st.Peers)

	section(&b, fmt.Sprintf("Connected Nodes (%d)", len(nodes)))
	if len(nodes) == 0 {
		b.WriteString(markup.Color(markup.Gray, "  none"))
		b.WriteByte('\n')
	}
	for _, p := range nodes {
		writePeer(&b, p)
	}

	b.WriteByte('\n')
	section(&b, fmt.Sprintf("Readers & Writers (%d)", len(others)))
	fmt.Fprintf(&b, "  Total sent: %s\n", AggregateThroughput(st.Peers).String())
	for _, p := range others {
		writePeer(&b, p)
	}

	b.WriteByte('\n')
	section(&b, fmt.Sprintf("Tables (%d)", len(st.Tables)))
	writeTables(&b, st.SortedTables())
	return b.String()
}

// AggregateThroughput sums the per-second send history of every reader.
func AggregateThroughput(peers []status.PeerStatus) series.Graph {
	var lists [][]int64
	for _, p := range peers {
		if p.Role == status.RoleReader {
			lists = append(lists, p.ThroughputPerSecond)
		}
	}
	total := series.SumInt64(lists)
	return series.RenderGraph(series.Tail(total, graphPoints), throughputLabel, series.Identity, series.NeverHighlight)
}

func section(b *strings.Builder, title string) {
	b.WriteString(markup.Bold)
	b.WriteString(title)
	b.WriteString(markup.BoldReset)
	b.WriteByte('\n')
}

func writePeer(b *strings.Builder, p status.PeerStatus) {
	lines := p.DisplayLines()
	name := "???"
	if len(lines) > 0 {
		name = lines[0]
	}
	fmt.Fprintf(b, "  %s %s %s", markup.Color(markup.Cyan, "#"+markup.Escape(p.ID)), markup.Escape(name), markup.Color(markup.Gray, "("+p.Role.String()+")"))
	if p.IP != "" {
		fmt.Fprintf(b, " %s", p.IP)
	}
	if p.Version != "" {
		fmt.Fprintf(b, " v%s", markup.Escape(p.Version))
	}
	b.WriteByte('\n')
	for _, extra := range lines[min(1, len(lines)):] {
		fmt.Fprintf(b, "      %s\n", markup.Escape(extra))
	}
	if p.Role != status.RoleWriter {
		fmt.Fprintf(b, "      tables: %s\n", tableBadges(p.SubscribedTables))
		graph := series.RenderGraph(series.Tail(series.ToFloat(p.ThroughputPerSecond), graphPoints), throughputLabel, series.Identity, series.NeverHighlight)
		fmt.Fprintf(b, "      sent: %s  pending: %s\n", graph.String(), humanfmt.Bytes(p.PendingSendBytes))
	}
	connected := p.ConnectedRaw
	if !p.ConnectedAt.IsZero() {
		connected = p.ConnectedAt.Format("2006-01-02T15:04:05Z")
	}
	fmt.Fprintf(b, "      %s %s  %s %s\n", markup.Color(markup.Yellow, "C:"), emptyOr(connected, "-"), markup.Color(markup.Yellow, "L:"), emptyOr(markup.Escape(p.LastMessage), "-"))
}

func tableBadges(tables []string) string {
	if len(tables) == 0 {
		return markup.Color(markup.Gray, "none")
	}
	sorted := append([]string(nil), tables...)
	sort.Strings(sorted)
	parts := make([]string, 0, len(sorted))
	for _, t := range sorted {
		parts = append(parts, markup.Badge(markup.BadgeInfo, markup.Escape(t)))
	}
	return strings.Join(parts, " ")
}

func writeTables(b *strings.Builder, tables []status.TableStatus) {
	var totalSize, totalPartitions, totalRecords, totalIndexed int64
	for _, t := range tables {
		fmt.Fprintf(b, "  %s%s%s %s\n", markup.Bold, markup.Escape(t.Name), markup.BoldReset, persistenceBadges(t))
		fmt.Fprintf(b, "      persisted: %s  size: %s  avg entity: %s  partitions: %s  records: %s  indexed: %s\n",
			humanfmt.Comma(t.PersistCount),
			humanfmt.Bytes(t.DataSizeBytes),
			humanfmt.Bytes(t.AvgEntitySizeBytes),
			humanfmt.Comma(t.PartitionCount),
			humanfmt.Comma(t.RecordCount),
			humanfmt.Comma(t.IndexedRecordCount))
		b.WriteString("      ")
		b.WriteString(timingBlock(t))
		b.WriteByte('\n')
		durations := series.RenderGraph(series.Tail(series.ToFloat(t.LastPersistDurations), graphPoints), durationLabel, series.Identity, series.NeverHighlight)
		fmt.Fprintf(b, "      persist duration: %s\n", durations.String())

		totalSize += t.DataSizeBytes
		totalPartitions += t.PartitionCount
		totalRecords += t.RecordCount
		totalIndexed += t.IndexedRecordCount
	}
	fmt.Fprintf(b, "  %sTotal%s  size: %s  partitions: %s  records: %s  indexed records: %s\n",
		markup.Bold, markup.BoldReset,
		humanfmt.Bytes(totalSize),
		humanfmt.Comma(totalPartitions),
		humanfmt.Comma(totalRecords),
		humanfmt.Comma(totalIndexed))
}

func persistenceBadges(t status.TableStatus) string {
	persist := markup.Badge(markup.BadgeOff, "no persist")
	if t.PersistenceEnabled {
		persist = markup.Badge(markup.BadgeOn, "persist")
	}
	return persist + " " +
		markup.Badge(markup.BadgeInfo, "max partitions: "+limitText(t.MaxPartitions)) + " " +
		markup.Badge(markup.BadgeInfo, "max rows/partition: "+limitText(t.MaxRowsPerPartition))
}

func limitText(v *int) string {
	if v == nil {
		return "unlimited"
	}
	return humanfmt.Comma(int64(*v))
}

// HealthColor maps persistence health to its display colour tag.
func HealthColor(h status.Health) string {
	switch h {
	case status.HealthHealthy:
		return markup.Green
	case status.HealthStale:
		return markup.Red
	default:
		return markup.Gray
	}
}

func timingBlock(t status.TableStatus) string {
	text := fmt.Sprintf("%s  update: %s  persist: %s", t.Health().String(), humanfmt.Micros(t.LastUpdateMicros), humanfmt.Micros(t.LastPersistMicros))
	if t.NextPersistMicros > 0 {
		text += "  next: " + humanfmt.Micros(t.NextPersistMicros)
	}
	return markup.Color(HealthColor(t.Health()), text)
}

func emptyOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
