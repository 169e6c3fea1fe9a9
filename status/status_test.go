package status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

func TestDecodeInitialized(t *testing.T) {
	snap, err := Decode(loadFixture(t, "initialized.json"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Phase != PhaseInitialized || snap.Initialized == nil || snap.Initializing != nil {
		t.Fatalf("unexpected variant: phase=%v", snap.Phase)
	}
	st := snap.Initialized
	if len(st.Peers) != 4 {
		t.Fatalf("expected 3 readers + 1 writer, got %d peers", len(st.Peers))
	}
	var node, writer *PeerStatus
	for i := range st.Peers {
		switch st.Peers[i].Role {
		case RoleNode:
			node = &st.Peers[i]
		case RoleWriter:
			writer = &st.Peers[i]
		}
	}
	if node == nil || node.ID != "3" {
		t.Fatalf("expected numeric id 3 decoded as node, got %+v", node)
	}
	if writer == nil || writer.Version != "2.1.0" {
		t.Fatalf("expected writer peer, got %+v", writer)
	}
	if lines := st.Peers[0].DisplayLines(); len(lines) != 2 || lines[1] != "1.4.2" {
		t.Fatalf("unexpected display lines %v", lines)
	}

	orders := st.Tables[0]
	if orders.MaxPartitions == nil || *orders.MaxPartitions != 100 || orders.MaxRowsPerPartition != nil {
		t.Fatalf("unexpected limits %+v", orders)
	}
	if orders.Health() != HealthHealthy {
		t.Fatalf("orders health = %v", orders.Health())
	}
	if st.Tables[1].LastPersistMicros != 0 || st.Tables[1].Health() != HealthNeverPersisted {
		t.Fatalf("accounts should never be persisted: %+v", st.Tables[1])
	}

	bar := snap.StatusBar
	if bar == nil || bar.LocationID != "eu-west" || !bar.CompressionEnabled || bar.MasterNodeID != "" {
		t.Fatalf("unexpected status bar %+v", bar)
	}
	if bar.SyncQueueSize != nil {
		t.Fatalf("sync queue size should be absent")
	}
}

func TestDecodeInitializing(t *testing.T) {
	snap, err := Decode(loadFixture(t, "initializing.json"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Phase != PhaseInitializing || snap.Initializing == nil {
		t.Fatalf("unexpected phase %v", snap.Phase)
	}
	st := snap.Initializing
	if st.TablesRemaining != 6 {
		t.Fatalf("expected remaining derived from totals, got %d", st.TablesRemaining)
	}
	if st.CurrentTable != "orders" || st.Error != "" {
		t.Fatalf("unexpected current/error %q/%q", st.CurrentTable, st.Error)
	}
	rows := st.SortedProgress()
	if rows[0].TableName != "Alpha" || rows[1].TableName != "beta" || rows[2].TableName != "zeta" {
		t.Fatalf("unexpected order %+v", rows)
	}
	if rows[0].PartitionsLoaded != 10 {
		t.Fatalf("loaded should be clamped to total, got %d", rows[0].PartitionsLoaded)
	}
	if snap.StatusBar.SyncQueueSize == nil || *snap.StatusBar.SyncQueueSize != 77 {
		t.Fatalf("expected sync queue size 77")
	}
	if snap.StatusBar.MasterNodeID != "node-a" {
		t.Fatalf("unexpected master node %q", snap.StatusBar.MasterNodeID)
	}
}

func TestDecodePrefersInitializedAndHandlesEmpty(t *testing.T) {
	snap, err := Decode([]byte(`{"notInitialized":{"tablesRemains":1},"initialized":{"readers":[],"tables":[]}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Phase != PhaseInitialized || snap.Initializing != nil {
		t.Fatalf("initialized variant should win")
	}

	snap, err = Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Phase != PhaseUnknown || snap.StatusBar != nil {
		t.Fatalf("expected unknown phase, got %+v", snap)
	}

	if _, err := Decode([]byte(`{`)); err == nil {
		t.Fatalf("expected error for truncated payload")
	}
}

func TestHealth(t *testing.T) {
	cases := []struct {
		persist, update int64
		want            Health
	}{
		{0, 200, HealthNeverPersisted},
		{100, 200, HealthStale},
		{300, 200, HealthHealthy},
		{200, 200, HealthHealthy},
	}
	for _, tc := range cases {
		got := TableStatus{LastPersistMicros: tc.persist, LastUpdateMicros: tc.update}.Health()
		if got != tc.want {
			t.Fatalf("persist=%d update=%d: got %v want %v", tc.persist, tc.update, got, tc.want)
		}
	}
}

func TestPeersByRoleAndSyncQueue(t *testing.T) {
	snap, err := Decode(loadFixture(t, "initialized.json"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	nodes, others := PeersByRole(snap.Initialized.Peers)
	if len(nodes) != 1 || nodes[0].ID != "3" {
		t.Fatalf("unexpected nodes %+v", nodes)
	}
	if len(others) != 3 {
		t.Fatalf("expected 3 readers/writers, got %d", len(others))
	}
	if others[0].ID != "9" || others[1].ID != "17" || others[2].Role != RoleWriter {
		t.Fatalf("unexpected order: %s %s %s", others[0].ID, others[1].ID, others[2].ID)
	}
	if got := SyncQueueSize(snap.Initialized.Peers); got != 3584 {
		t.Fatalf("SyncQueueSize = %d, want 3584", got)
	}
}

func TestHTTPFetcher(t *testing.T) {
	body := loadFixture(t, "initialized.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Api/Status":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
		case "/broken":
			_, _ = w.Write([]byte("<html>"))
		default:
			http.Error(w, "nope", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	snap, err := NewHTTPFetcher(srv.URL+"/Api/Status", srv.Client()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if snap.Phase != PhaseInitialized {
		t.Fatalf("unexpected phase %v", snap.Phase)
	}

	for _, path := range []string{"/missing", "/broken"} {
		_, err := NewHTTPFetcher(srv.URL+path, srv.Client()).Fetch(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("%s: expected ErrUnavailable, got %v", path, err)
		}
	}

	srv.Close()
	if _, err := NewHTTPFetcher(srv.URL+"/Api/Status", nil).Fetch(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after shutdown, got %v", err)
	}
}
