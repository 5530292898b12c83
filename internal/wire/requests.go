package wire

import (
	"encoding/binary"
	"fmt"
	"net"
)

// ConnectRequestSize is the fixed body size of a ConnectRequest/
// ReconnectRequest frame, not counting the opcode byte or the
// variable-length username tail. The field list sums to 33 bytes; see
// DESIGN.md for why this implementation uses 33 rather than the
// inconsistent "29" total that appears alongside the same field list.
const ConnectRequestSize = 33

// ConnectRequest is the fixed body shared by ConnectRequest and
// ReconnectRequest; the two differ only in opcode. The username tail
// (IdentifierLength bytes) is read separately by the caller.
type ConnectRequest struct {
	Error            byte
	Size             uint16 // big-endian on the wire, unlike every other integer
	GameName         [4]byte
	VersionMajor     byte
	VersionMinor     byte
	VersionPatch     byte
	Build            uint16
	Platform         [4]byte
	OS               [4]byte
	Country          [4]byte
	TimezoneBias     uint32
	IP               [4]byte
	IdentifierLength byte
}

// DecodeConnectRequest parses the fixed 33-byte body. It does not read the
// trailing username; the caller reads exactly IdentifierLength more bytes.
func DecodeConnectRequest(body []byte) (ConnectRequest, error) {
	if len(body) != ConnectRequestSize {
		return ConnectRequest{}, fmt.Errorf("wire: ConnectRequest body must be %d bytes, got %d", ConnectRequestSize, len(body))
	}

	var r ConnectRequest
	r.Error = body[0]
	r.Size = binary.BigEndian.Uint16(body[1:3])
	copy(r.GameName[:], body[3:7])
	r.VersionMajor = body[7]
	r.VersionMinor = body[8]
	r.VersionPatch = body[9]
	r.Build = binary.LittleEndian.Uint16(body[10:12])
	copy(r.Platform[:], body[12:16])
	copy(r.OS[:], body[16:20])
	copy(r.Country[:], body[20:24])
	r.TimezoneBias = binary.LittleEndian.Uint32(body[24:28])
	copy(r.IP[:], body[28:32])
	r.IdentifierLength = body[32]
	return r, nil
}

// IP4 returns the ConnectRequest's IPv4 address.
func (r ConnectRequest) IP4() net.IP { return net.IPv4(r.IP[0], r.IP[1], r.IP[2], r.IP[3]) }

// ConnectProofSize is the fixed body size of a ConnectProof (AuthLogonProof) frame.
const ConnectProofSize = 74

// ConnectProof is the client's SRP challenge response.
type ConnectProof struct {
	A             [32]byte
	M1            [20]byte
	CRC           [20]byte
	KeyCount      byte
	SecurityFlags byte
}

// DecodeConnectProof parses the fixed 74-byte body.
func DecodeConnectProof(body []byte) (ConnectProof, error) {
	if len(body) != ConnectProofSize {
		return ConnectProof{}, fmt.Errorf("wire: ConnectProof body must be %d bytes, got %d", ConnectProofSize, len(body))
	}

	var p ConnectProof
	copy(p.A[:], body[0:32])
	copy(p.M1[:], body[32:52])
	copy(p.CRC[:], body[52:72])
	p.KeyCount = body[72]
	p.SecurityFlags = body[73]
	return p, nil
}

// ReconnectProofSize is the fixed body size of a ReconnectProof (AuthReconnectProof) frame.
const ReconnectProofSize = 57

// ReconnectProof is the client's reconnect challenge response.
type ReconnectProof struct {
	ProofData   [16]byte
	ClientProof [20]byte
	Unknown     [20]byte
	KeyCount    byte
}

// DecodeReconnectProof parses the fixed 57-byte body.
func DecodeReconnectProof(body []byte) (ReconnectProof, error) {
	if len(body) != ReconnectProofSize {
		return ReconnectProof{}, fmt.Errorf("wire: ReconnectProof body must be %d bytes, got %d", ReconnectProofSize, len(body))
	}

	var p ReconnectProof
	copy(p.ProofData[:], body[0:16])
	copy(p.ClientProof[:], body[16:36])
	copy(p.Unknown[:], body[36:56])
	p.KeyCount = body[56]
	return p, nil
}

// RealmListRequestSize is the fixed body size of a RealmListRequest frame.
// Its 4 bytes are opaque padding and are not interpreted.
const RealmListRequestSize = 4
