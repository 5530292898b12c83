package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConnectRequestBody() []byte {
	body := make([]byte, ConnectRequestSize)
	body[0] = 0 // error
	body[1] = 0x00
	body[2] = 0x1E // size, big-endian, arbitrary for this test
	copy(body[3:7], []byte("WoW\x00"))
	body[7] = 3  // version major
	body[8] = 3  // version minor
	body[9] = 5  // version patch
	body[10] = 0x34
	body[11] = 0x30 // build 12340 little-endian (0x3034)
	copy(body[12:16], []byte("x86\x00"))
	copy(body[16:20], []byte("Win\x00"))
	copy(body[20:24], []byte("enUS"))
	body[24], body[25], body[26], body[27] = 0x00, 0x00, 0x00, 0x00
	copy(body[28:32], []byte{127, 0, 0, 1})
	body[32] = 6
	return body
}

func TestDecodeConnectRequest(t *testing.T) {
	body := sampleConnectRequestBody()
	r, err := DecodeConnectRequest(body)
	require.NoError(t, err)

	assert.Equal(t, uint16(12340), r.Build)
	assert.Equal(t, byte(6), r.IdentifierLength)
	assert.Equal(t, "127.0.0.1", r.IP4().String())
	assert.Equal(t, [4]byte{'e', 'n', 'U', 'S'}, r.Country)
}

func TestDecodeConnectRequestRejectsWrongSize(t *testing.T) {
	_, err := DecodeConnectRequest(make([]byte, ConnectRequestSize-1))
	assert.Error(t, err)
}

func TestDecodeConnectProof(t *testing.T) {
	body := make([]byte, ConnectProofSize)
	body[0] = 0xAA
	body[72] = 1
	body[73] = 0

	p, err := DecodeConnectProof(body)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), p.A[0])
	assert.Equal(t, byte(1), p.KeyCount)
}

func TestDecodeConnectProofRejectsWrongSize(t *testing.T) {
	_, err := DecodeConnectProof(make([]byte, ConnectProofSize+1))
	assert.Error(t, err)
}

func TestDecodeReconnectProof(t *testing.T) {
	body := make([]byte, ReconnectProofSize)
	body[0] = 0x01
	body[56] = 2

	p, err := DecodeReconnectProof(body)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), p.ProofData[0])
	assert.Equal(t, byte(2), p.KeyCount)
}

func TestDecodeReconnectProofRejectsWrongSize(t *testing.T) {
	_, err := DecodeReconnectProof(make([]byte, 10))
	assert.Error(t, err)
}
