package authsession

import (
	"net"
	"time"
)

// Handshake timeout constants (§4.3.1): a connection has 30s total to
// complete the handshake, reset to a 10s idle window after every
// successfully parsed frame.
const (
	totalHandshakeTimeout = 30 * time.Second
	idleHandshakeTimeout  = 10 * time.Second
)

// handshakeDeadline tracks the absolute and idle deadlines for one
// connection's handshake and applies the tighter of the two to conn ahead
// of each read. This plays the same role as the teacher's
// InactivityTracker, scoped down from the whole process to a single
// connection and expressed with net.Conn deadlines instead of a timer
// goroutine, since conn.Read already blocks on exactly the deadline we want.
type handshakeDeadline struct {
	conn     net.Conn
	deadline time.Time
}

func newHandshakeDeadline(conn net.Conn) *handshakeDeadline {
	return &handshakeDeadline{conn: conn, deadline: time.Now().Add(totalHandshakeTimeout)}
}

// arm sets the read deadline for the next frame: the idle window, clamped
// to never exceed the connection's total lifetime.
func (d *handshakeDeadline) arm() error {
	idle := time.Now().Add(idleHandshakeTimeout)
	if idle.After(d.deadline) {
		idle = d.deadline
	}
	return d.conn.SetReadDeadline(idle)
}
