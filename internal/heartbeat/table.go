// Package heartbeat implements the UDP liveness channel world servers use to
// announce themselves to the auth server: a monotonic-clock table of
// last-seen instants keyed by realm id, and the receiver that populates it.
package heartbeat

import (
	"sync"
	"time"
)

// Table is a mutex-guarded map of realm id to the instant its last
// heartbeat was received. It has no notion of "offline" on its own; that
// classification belongs to whoever drains it (internal/realmupdater).
type Table struct {
	mu       sync.RWMutex
	lastSeen map[uint8]time.Time
}

// NewTable creates an empty heartbeat table.
func NewTable() *Table {
	return &Table{lastSeen: make(map[uint8]time.Time)}
}

// Record marks realmID as seen just now, overwriting any previous value.
func (t *Table) Record(realmID uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen[realmID] = time.Now()
}

// Drain classifies every tracked realm against maxAge in a single
// write-exclusion window: entries older than maxAge are removed and
// reported as offline; everything else is reported as live. A realm cannot
// be reported in both lists from the same call, since the split and the
// deletion happen under one lock.
func (t *Table) Drain(maxAge time.Duration) (offline, live []uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, seen := range t.lastSeen {
		if seen.Before(cutoff) {
			offline = append(offline, id)
			delete(t.lastSeen, id)
			continue
		}
		live = append(live, id)
	}
	return offline, live
}
