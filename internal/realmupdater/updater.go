// Package realmupdater periodically reclassifies realms as Offline or
// Recommended based on heartbeat liveness, without touching any other flag
// bit a realm may carry.
package realmupdater

import (
	"context"
	"time"

	"github.com/wowauth/authd/internal/heartbeat"
	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
)

// DefaultInterval is how often the updater ticks.
const DefaultInterval = 5 * time.Second

// DefaultOfflineThreshold is how stale a heartbeat must be before its realm
// is classified Offline.
const DefaultOfflineThreshold = 15 * time.Second

// Updater periodically drains a heartbeat.Table and applies the resulting
// classification to a realm store.
type Updater struct {
	table            *heartbeat.Table
	realms           realms.Store
	log              *logging.Logger
	interval         time.Duration
	offlineThreshold time.Duration
}

// New creates an Updater with the default interval and offline threshold.
func New(table *heartbeat.Table, realmStore realms.Store, log *logging.Logger) *Updater {
	return &Updater{
		table:            table,
		realms:           realmStore,
		log:              log,
		interval:         DefaultInterval,
		offlineThreshold: DefaultOfflineThreshold,
	}
}

// Run ticks until ctx is cancelled, at which point it returns nil.
func (u *Updater) Run(ctx context.Context) error {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			u.tick(ctx)
		}
	}
}

// tick drains the heartbeat table and applies the resulting (realm_id,
// flag) pairs to the realm store, preserving every other flag bit a realm
// may carry (e.g. one set by the admin API).
func (u *Updater) tick(ctx context.Context) {
	offline, live := u.table.Drain(u.offlineThreshold)
	if len(offline) == 0 && len(live) == 0 {
		return
	}

	current, err := u.realms.ListRealms(ctx)
	if err != nil {
		u.log.Warn("realmupdater: listing realms", map[string]any{"err": err.Error()})
		return
	}
	flagsByID := make(map[uint32]realms.Flag, len(current))
	for _, r := range current {
		flagsByID[r.ID] = r.Flags
	}

	apply := func(id uint8, clear, set realms.Flag) {
		realmID := uint32(id)
		newFlags := (flagsByID[realmID] &^ clear) | set
		if err := u.realms.UpdateFlags(ctx, realmID, newFlags); err != nil {
			u.log.Warn("realmupdater: updating flags", map[string]any{"realm_id": realmID, "err": err.Error()})
		}
	}

	const classified = realms.FlagOffline | realms.FlagRecommended
	for _, id := range offline {
		apply(id, classified, realms.FlagOffline)
	}
	for _, id := range live {
		apply(id, classified, realms.FlagRecommended)
	}
}
