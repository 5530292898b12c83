package heartbeat

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/realms"
)

// datagramSize is the only valid heartbeat datagram length: tag(1) + realm_id(1) + population(4).
const datagramSize = 6

// liveTag is the only valid first byte of a heartbeat datagram.
const liveTag = 0

// Receiver listens on a UDP socket for realm heartbeats, recording liveness
// in a Table and forwarding the reported population straight to the realm
// store. It never classifies realms as online or offline itself; that is
// internal/realmupdater's job.
type Receiver struct {
	table  *Table
	realms realms.Store
	log    *logging.Logger
}

// NewReceiver creates a Receiver writing into table and realmStore.
func NewReceiver(table *Table, realmStore realms.Store, log *logging.Logger) *Receiver {
	return &Receiver{table: table, realms: realmStore, log: log}
}

// ListenAndServe binds addr (UDP) and processes datagrams until ctx is
// cancelled, at which point it closes the socket and returns nil.
func (r *Receiver) ListenAndServe(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("heartbeat: listening on %s: %w", addr, err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, 512)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("heartbeat: reading datagram: %w", err)
		}
		r.handleDatagram(ctx, buf[:n])
	}
}

func (r *Receiver) handleDatagram(ctx context.Context, datagram []byte) {
	if len(datagram) != datagramSize {
		r.log.Warn("heartbeat: malformed datagram", map[string]any{"size": len(datagram)})
		return
	}
	if datagram[0] != liveTag {
		r.log.Warn("heartbeat: unexpected datagram tag", map[string]any{"tag": datagram[0]})
		return
	}

	realmID := datagram[1]
	population := binary.LittleEndian.Uint32(datagram[2:6])

	r.table.Record(realmID)

	if err := r.realms.SetPopulation(ctx, uint32(realmID), float32(population)); err != nil {
		r.log.Warn("heartbeat: recording population", map[string]any{"realm_id": realmID, "err": err.Error()})
	}
}
