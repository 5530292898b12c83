package authsession

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeDeadlineClampsToTotal(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	d := newHandshakeDeadline(server)
	d.deadline = time.Now().Add(5 * time.Millisecond)

	require.NoError(t, d.arm())

	_, err := server.Read(make([]byte, 1))
	assert.Error(t, err, "read should fail once the clamped deadline elapses")
}
