package realmupdater

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowauth/authd/internal/heartbeat"
	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
)

func TestTickMarksOfflineAndRecommendedPreservingOtherFlags(t *testing.T) {
	table := heartbeat.NewTable()
	realmStore := realms.NewMemoryStore(
		&realms.Realm{ID: 1, Flags: realms.FlagNew},
		&realms.Realm{ID: 2},
	)
	u := New(table, realmStore, logging.New(logging.LevelError, logging.FormatHuman))
	u.offlineThreshold = 15 * time.Second

	table.Record(2) // realm 2: fresh heartbeat, stays live
	// realm 1 never heartbeats; it is absent from the table entirely and
	// must be left untouched by the updater.

	u.tick(context.Background())

	list, err := realmStore.ListRealms(context.Background())
	require.NoError(t, err)

	byID := map[uint32]*realms.Realm{}
	for _, r := range list {
		byID[r.ID] = r
	}

	assert.True(t, byID[1].Flags.Has(realms.FlagNew), "untouched realm keeps its flags")
	assert.False(t, byID[1].Flags.Has(realms.FlagRecommended))
	assert.True(t, byID[2].Flags.Has(realms.FlagRecommended))
	assert.False(t, byID[2].Flags.Has(realms.FlagOffline))
}

func TestTickClassifiesStaleHeartbeatAsOffline(t *testing.T) {
	table := heartbeat.NewTable()
	realmStore := realms.NewMemoryStore(&realms.Realm{ID: 3, Flags: realms.FlagRecommended})
	u := New(table, realmStore, logging.New(logging.LevelError, logging.FormatHuman))
	u.offlineThreshold = 0 // any recorded heartbeat is immediately "stale"

	table.Record(3)
	u.tick(context.Background())

	list, err := realmStore.ListRealms(context.Background())
	require.NoError(t, err)
	assert.True(t, list[0].Flags.Has(realms.FlagOffline))
	assert.False(t, list[0].Flags.Has(realms.FlagRecommended))
}
