package realms

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRealm() *Realm {
	return &Realm{
		ID:              1,
		Name:            "Arlyon's Refuge",
		Type:            TypeNormal,
		Build:           12340,
		ExternalAddress: "203.0.113.10:8085",
		LocalAddress:    "10.0.0.10:8085",
		LocalSubnet:     "10.0.0.0/8",
		Port:            8085,
	}
}

func TestMemoryStoreListAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seedRealm())

	list, err := store.ListRealms(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Arlyon's Refuge", list[0].Name)

	require.NoError(t, store.UpdateFlags(ctx, 1, FlagOffline))
	require.NoError(t, store.SetPopulation(ctx, 1, 0.75))

	list, err = store.ListRealms(ctx)
	require.NoError(t, err)
	assert.True(t, list[0].Flags.Has(FlagOffline))
	assert.InDelta(t, 0.75, list[0].Population, 0.0001)
	assert.False(t, list[0].LastHeartbeatAt.IsZero())
}

func TestMemoryStoreCreateRealmAssignsNextID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seedRealm())

	created, err := store.CreateRealm(ctx, &Realm{Name: "New Realm", Port: 8085})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), created.ID)

	list, err := store.ListRealms(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMemoryStoreCreateRealmOnEmptyStore(t *testing.T) {
	store := NewMemoryStore()
	created, err := store.CreateRealm(context.Background(), &Realm{Name: "First"})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), created.ID)
}

func TestMemoryStoreUnknownRealm(t *testing.T) {
	store := NewMemoryStore()
	assert.ErrorIs(t, store.UpdateFlags(context.Background(), 99, FlagOffline), ErrNotFound)
	assert.ErrorIs(t, store.SetPopulation(context.Background(), 99, 1), ErrNotFound)
}

func TestSelectAddress(t *testing.T) {
	r := seedRealm()

	assert.Equal(t, r.LocalAddress, SelectAddress(r, net.ParseIP("10.1.2.3")))
	assert.Equal(t, r.ExternalAddress, SelectAddress(r, net.ParseIP("198.51.100.1")))
	assert.Equal(t, r.ExternalAddress, SelectAddress(r, nil))
}

func TestSelectAddressFallsBackOnBadSubnet(t *testing.T) {
	r := seedRealm()
	r.LocalSubnet = "not-a-cidr"
	assert.Equal(t, r.ExternalAddress, SelectAddress(r, net.ParseIP("10.1.2.3")))
}
