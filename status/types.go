// Package status models the cluster status snapshot served by the storage
// backend and fetches it over HTTP. Everything here is a read-only view;
// nothing in the dashboard mutates cluster state.
package status

import (
	"sort"
	"strings"
	"time"
)

// Phase discriminates the snapshot variant.
type Phase uint8

const (
	// PhaseUnknown means the payload carried neither variant.
	PhaseUnknown Phase = iota
	PhaseInitializing
	PhaseInitialized
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// Snapshot is one decoded status payload. Exactly one of Initializing and
// Initialized is set for the two known phases.
type Snapshot struct {
	Phase        Phase
	Initializing *InitializingState
	Initialized  *InitializedState
	StatusBar    *StatusBarFields
}

// InitializingState is reported while the cluster is still loading tables.
type InitializingState struct {
	TablesRemaining int
	ElapsedSeconds  float64
	Progress        []TableLoadProgress
	CurrentTable    string
	Error           string
}

// TableLoadProgress tracks partition loading for one table.
type TableLoadProgress struct {
	TableName        string
	PartitionsLoaded int
	PartitionsTotal  int
	SecondsElapsed   float64
}

// SortedProgress returns the rows ordered by table name (byte-wise).
func (s *InitializingState) SortedProgress() []TableLoadProgress {
	if s == nil {
		return nil
	}
	rows := make([]TableLoadProgress, len(s.Progress))
	copy(rows, s.Progress)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TableName < rows[j].TableName })
	return rows
}

// InitializedState is reported once every table is loaded.
type InitializedState struct {
	Peers  []PeerStatus
	Tables []TableStatus
}

// Role distinguishes the kinds of connected peers.
type Role uint8

const (
	RoleReader Role = iota
	RoleNode
	RoleWriter
)

func (r Role) String() string {
	switch r {
	case RoleNode:
		return "node"
	case RoleWriter:
		return "writer"
	default:
		return "reader"
	}
}

// PeerStatus is a connected node, data reader or data writer.
type PeerStatus struct {
	ID                  string
	DisplayName         string
	IP                  string
	Role                Role
	SubscribedTables    []string
	ConnectedAt         time.Time
	ConnectedRaw        string
	LastMessage         string
	PendingSendBytes    int64
	ThroughputPerSecond []int64
	Version             string
}

// DisplayLines splits the ';'-separated display name.
func (p PeerStatus) DisplayLines() []string {
	if p.DisplayName == "" {
		return nil
	}
	return strings.Split(p.DisplayName, ";")
}

// PeersByRole partitions peers into display groups. Each group is ordered by
// connection time, ties broken by id.
func PeersByRole(peers []PeerStatus) (nodes, others []PeerStatus) {
	for _, p := range peers {
		if p.Role == RoleNode {
			nodes = append(nodes, p)
		} else {
			others = append(others, p)
		}
	}
	sortPeers(nodes)
	sortPeers(others)
	return nodes, others
}

func sortPeers(peers []PeerStatus) {
	sort.SliceStable(peers, func(i, j int) bool {
		a, b := peers[i], peers[j]
		if !a.ConnectedAt.Equal(b.ConnectedAt) {
			return a.ConnectedAt.Before(b.ConnectedAt)
		}
		return a.ID < b.ID
	})
}

// SyncQueueSize sums the bytes still pending delivery to subscribed peers
// (readers and nodes; writers only push).
func SyncQueueSize(peers []PeerStatus) int64 {
	var total int64
	for _, p := range peers {
		if p.Role != RoleWriter {
			total += p.PendingSendBytes
		}
	}
	return total
}

// Health classifies a table's persistence state.
type Health uint8

const (
	HealthNeverPersisted Health = iota
	HealthHealthy
	HealthStale
)

func (h Health) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthStale:
		return "stale"
	default:
		return "never persisted"
	}
}

// TableStatus describes one table. Timestamps are unix microseconds; zero
// means unset.
type TableStatus struct {
	Name                 string
	PersistenceEnabled   bool
	MaxPartitions        *int
	MaxRowsPerPartition  *int
	PersistCount         int64
	DataSizeBytes        int64
	AvgEntitySizeBytes   int64
	PartitionCount       int64
	RecordCount          int64
	IndexedRecordCount   int64
	LastUpdateMicros     int64
	LastPersistMicros    int64
	NextPersistMicros    int64
	LastPersistDurations []int64
}

// Health reports healthy when the last persist is not older than the last
// update, never persisted when there was no persist at all, stale otherwise.
func (t TableStatus) Health() Health {
	if t.LastPersistMicros == 0 {
		return HealthNeverPersisted
	}
	if t.LastPersistMicros >= t.LastUpdateMicros {
		return HealthHealthy
	}
	return HealthStale
}

// SortedTables returns the tables ordered by name.
func (s *InitializedState) SortedTables() []TableStatus {
	if s == nil {
		return nil
	}
	rows := make([]TableStatus, len(s.Tables))
	copy(rows, s.Tables)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// StatusBarFields are the scalar cluster-health values shown in the status bar.
type StatusBarFields struct {
	PersistQueueDepth   int64
	TCPConnections      int64
	HTTPConnections     int64
	UsedHTTPConnections int64
	TableCount          int64
	LocationID          string
	CompressionEnabled  bool
	MasterNodeID        string
	SyncQueueSize       *int64
}
