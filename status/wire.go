package status

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wireStatus struct {
	NotInitialized *wireNotInitialized `json:"notInitialized"`
	Initialized    *wireInitialized    `json:"initialized"`
	StatusBar      *wireStatusBar      `json:"statusBar"`
}

type wireNotInitialized struct {
	TablesRemains       *int           `json:"tablesRemains"`
	TablesTotal         int            `json:"tablesTotal"`
	TablesLoaded        int            `json:"tablesLoaded"`
	CurrentTable        *string        `json:"currentTable"`
	Error               *string        `json:"error"`
	InitializingSeconds float64        `json:"initializingSeconds"`
	Progress            []wireProgress `json:"progress"`
}

type wireProgress struct {
	TableName   string  `json:"tableName"`
	Loaded      int     `json:"loaded"`
	ToLoad      int     `json:"toLoad"`
	SecondsGone float64 `json:"secondsGone"`
}

type wireInitialized struct {
	Readers []wireReader `json:"readers"`
	Writers []wireWriter `json:"writers"`
	Tables  []wireTable  `json:"tables"`
}

type wireReader struct {
	ID               flexID   `json:"id"`
	Name             string   `json:"name"`
	IP               string   `json:"ip"`
	Tables           []string `json:"tables"`
	ConnectedTime    string   `json:"connectedTime"`
	LastIncomingTime string   `json:"lastIncomingTime"`
	PendingToSend    int64    `json:"pendingToSend"`
	SentPerSecond    []int64  `json:"sentPerSecond"`
	IsNode           bool     `json:"isNode"`
}

type wireWriter struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	LastUpdate string `json:"last_update"`
}

type wireTable struct {
	Name                string  `json:"name"`
	Persist             bool    `json:"persist"`
	MaxPartitionsAmount *int    `json:"maxPartitionsAmount"`
	MaxRowsPerPartition *int    `json:"maxRowsPerPartition"`
	PartitionsCount     int64   `json:"partitionsCount"`
	DataSize            int64   `json:"dataSize"`
	RecordsAmount       int64   `json:"recordsAmount"`
	ExpirationIndex     int64   `json:"expirationIndex"`
	LastUpdateTime      int64   `json:"lastUpdateTime"`
	LastPersistTime     *int64  `json:"lastPersistTime"`
	NextPersistTime     *int64  `json:"nextPersistTime"`
	LastPersistDuration []int64 `json:"lastPersistDuration"`
	PersistAmount       int64   `json:"persistAmount"`
	AvgEntitySize       int64   `json:"avgEntitySize"`
}

type wireLocation struct {
	ID       string `json:"id"`
	Compress bool   `json:"compress"`
}

type wireStatusBar struct {
	Location            wireLocation `json:"location"`
	PersistAmount       int64        `json:"persistAmount"`
	TCPConnections      int64        `json:"tcpConnections"`
	TablesAmount        int64        `json:"tablesAmount"`
	HTTPConnections     int64        `json:"httpConnections"`
	MasterNode          *string      `json:"masterNode"`
	UsedHTTPConnections int64        `json:"usedHttpConnections"`
	SyncQueueSize       *int64       `json:"syncQueueSize"`
}

// flexID accepts a session id sent either as a JSON string or a number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("peer id: %w", err)
		}
		*f = flexID(s)
		return nil
	}
	*f = flexID(data)
	return nil
}

// Decode parses a status payload. When both variants are present the
// initialized one wins; when neither is, the snapshot phase is PhaseUnknown.
func Decode(body []byte) (Snapshot, error) {
	var w wireStatus
	if err := json.Unmarshal(body, &w); err != nil {
		return Snapshot{}, fmt.Errorf("decode status: %w", err)
	}
	snap := Snapshot{StatusBar: w.StatusBar.toFields()}
	switch {
	case w.Initialized != nil:
		snap.Phase = PhaseInitialized
		snap.Initialized = w.Initialized.toState()
	case w.NotInitialized != nil:
		snap.Phase = PhaseInitializing
		snap.Initializing = w.NotInitialized.toState()
	}
	return snap, nil
}

func (w *wireNotInitialized) toState() *InitializingState {
	remaining := w.TablesTotal - w.TablesLoaded
	if w.TablesRemains != nil {
		remaining = *w.TablesRemains
	}
	if remaining < 0 {
		remaining = 0
	}
	st := &InitializingState{
		TablesRemaining: remaining,
		ElapsedSeconds:  nonNegative(w.InitializingSeconds),
		Progress:        make([]TableLoadProgress, 0, len(w.Progress)),
	}
	if w.CurrentTable != nil {
		st.CurrentTable = *w.CurrentTable
	}
	if w.Error != nil {
		st.Error = *w.Error
	}
	for _, p := range w.Progress {
		loaded := p.Loaded
		if loaded < 0 {
			loaded = 0
		}
		total := p.ToLoad
		if total < 0 {
			total = 0
		}
		if loaded > total {
			loaded = total
		}
		st.Progress = append(st.Progress, TableLoadProgress{
			TableName:        p.TableName,
			PartitionsLoaded: loaded,
			PartitionsTotal:  total,
			SecondsElapsed:   nonNegative(p.SecondsGone),
		})
	}
	return st
}

func (w *wireInitialized) toState() *InitializedState {
	st := &InitializedState{
		Peers:  make([]PeerStatus, 0, len(w.Readers)+len(w.Writers)),
		Tables: make([]TableStatus, 0, len(w.Tables)),
	}
	for _, r := range w.Readers {
		role := RoleReader
		if r.IsNode {
			role = RoleNode
		}
		st.Peers = append(st.Peers, PeerStatus{
			ID:                  string(r.ID),
			DisplayName:         r.Name,
			IP:                  r.IP,
			Role:                role,
			SubscribedTables:    r.Tables,
			ConnectedAt:         parseTime(r.ConnectedTime),
			ConnectedRaw:        r.ConnectedTime,
			LastMessage:         r.LastIncomingTime,
			PendingSendBytes:    r.PendingToSend,
			ThroughputPerSecond: r.SentPerSecond,
		})
	}
	for _, wr := range w.Writers {
		st.Peers = append(st.Peers, PeerStatus{
			ID:          wr.Name,
			DisplayName: wr.Name,
			Role:        RoleWriter,
			ConnectedAt: parseTime(wr.LastUpdate),
			LastMessage: wr.LastUpdate,
			Version:     wr.Version,
		})
	}
	for _, t := range w.Tables {
		st.Tables = append(st.Tables, TableStatus{
			Name:                 t.Name,
			PersistenceEnabled:   t.Persist,
			MaxPartitions:        t.MaxPartitionsAmount,
			MaxRowsPerPartition:  t.MaxRowsPerPartition,
			PersistCount:         t.PersistAmount,
			DataSizeBytes:        t.DataSize,
			AvgEntitySizeBytes:   t.AvgEntitySize,
			PartitionCount:       t.PartitionsCount,
			RecordCount:          t.RecordsAmount,
			IndexedRecordCount:   t.ExpirationIndex,
			LastUpdateMicros:     t.LastUpdateTime,
			LastPersistMicros:    derefInt64(t.LastPersistTime),
			NextPersistMicros:    derefInt64(t.NextPersistTime),
			LastPersistDurations: t.LastPersistDuration,
		})
	}
	return st
}

func (w *wireStatusBar) toFields() *StatusBarFields {
	if w == nil {
		return nil
	}
	f := &StatusBarFields{
		PersistQueueDepth:   w.PersistAmount,
		TCPConnections:      w.TCPConnections,
		HTTPConnections:     w.HTTPConnections,
		UsedHTTPConnections: w.UsedHTTPConnections,
		TableCount:          w.TablesAmount,
		LocationID:          w.Location.ID,
		CompressionEnabled:  w.Location.Compress,
		SyncQueueSize:       w.SyncQueueSize,
	}
	if w.MasterNode != nil {
		f.MasterNodeID = strings.TrimSpace(*w.MasterNode)
	}
	return f
}

func parseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func derefInt64(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
