package heartbeat

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
)

func TestReceiverRecordsValidDatagram(t *testing.T) {
	table := NewTable()
	realmStore := realms.NewMemoryStore(&realms.Realm{ID: 5})
	r := NewReceiver(table, realmStore, logging.New(logging.LevelError, logging.FormatHuman))

	datagram := make([]byte, datagramSize)
	datagram[0] = liveTag
	datagram[1] = 5
	binary.LittleEndian.PutUint32(datagram[2:6], 42)

	r.handleDatagram(context.Background(), datagram)

	_, live := table.Drain(time.Minute)
	assert.Equal(t, []uint8{5}, live)

	list, err := realmStore.ListRealms(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, float32(42), list[0].Population, 0.001)
}

func TestReceiverIgnoresMalformedDatagram(t *testing.T) {
	table := NewTable()
	realmStore := realms.NewMemoryStore()
	r := NewReceiver(table, realmStore, logging.New(logging.LevelError, logging.FormatHuman))

	r.handleDatagram(context.Background(), []byte{0, 1, 2})

	offline, live := table.Drain(time.Minute)
	assert.Empty(t, offline)
	assert.Empty(t, live)
}

func TestReceiverIgnoresWrongTag(t *testing.T) {
	table := NewTable()
	realmStore := realms.NewMemoryStore()
	r := NewReceiver(table, realmStore, logging.New(logging.LevelError, logging.FormatHuman))

	datagram := make([]byte, datagramSize)
	datagram[0] = 1
	r.handleDatagram(context.Background(), datagram)

	_, live := table.Drain(time.Minute)
	assert.Empty(t, live)
}
