// Package statusbar keeps the status-bar slots in sync with the latest
// cluster snapshot, writing a slot only when its value changes.
package statusbar

// Slot identifies one addressable status-bar field.
type Slot uint8

const (
	SlotConnected Slot = iota
	SlotLocation
	SlotTables
	SlotCompression
	SlotMasterNode
	SlotPersistQueue
	SlotTCP
	SlotHTTP
	SlotSyncQueue
	slotCount
)

var slotIDs = [slotCount]string{
	SlotConnected:    "connected",
	SlotLocation:     "location",
	SlotTables:       "tables-amount",
	SlotCompression:  "compression",
	SlotMasterNode:   "master-node",
	SlotPersistQueue: "persistence-queue",
	SlotTCP:          "tcp-connections",
	SlotHTTP:         "http-connections",
	SlotSyncQueue:    "sync-queue",
}

var slotLabels = [slotCount]string{
	SlotConnected:    "Connected",
	SlotLocation:     "Location",
	SlotTables:       "Tables",
	SlotCompression:  "Compression",
	SlotMasterNode:   "Master node",
	SlotPersistQueue: "Persistence queue",
	SlotTCP:          "TCP",
	SlotHTTP:         "HTTP",
	SlotSyncQueue:    "Sync queue",
}

// ID is the stable identifier used by surfaces and the web mirror.
func (s Slot) ID() string {
	if s >= slotCount {
		return ""
	}
	return slotIDs[s]
}

// Label is the caption shown next to the value.
func (s Slot) Label() string {
	if s >= slotCount {
		return ""
	}
	return slotLabels[s]
}

// Slots lists every slot in display order.
func Slots() []Slot {
	out := make([]Slot, 0, slotCount)
	for s := Slot(0); s < slotCount; s++ {
		out = append(out, s)
	}
	return out
}
