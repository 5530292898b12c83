package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wowauth/authd/internal/srp"
)

// SecurityFlag is a bit in ConnectChallenge's security_flags byte, each
// gating an optional trailing block the client expects.
type SecurityFlag byte

const (
	SecurityFlagPIN    SecurityFlag = 0x01
	SecurityFlagMatrix SecurityFlag = 0x02
	SecurityFlagToken  SecurityFlag = 0x04
)

// groupNLE and groupGLE are the little-endian wire forms of the SRP group
// constants, fixed for every ConnectChallenge/ReconnectChallenge frame.
var groupNLE, groupGLE = srp.GroupParams()

// ConnectChallengeFrame builds a successful ConnectChallenge reply: the SRP
// group, the server's public key B, and the account's salt. No optional
// security blocks are appended; SecurityFlags is always 0 for this server.
func ConnectChallengeFrame(bPub srp.PublicKey, salt srp.Salt) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(CmdConnectRequest))
	buf.WriteByte(0x00)
	buf.WriteByte(byte(Success))
	buf.Write(bPub[:])
	buf.WriteByte(byte(len(groupGLE)))
	buf.Write(groupGLE)
	buf.WriteByte(byte(len(groupNLE)))
	buf.Write(groupNLE)
	buf.Write(salt[:])
	buf.Write(VersionChallenge[:])
	buf.WriteByte(0x00) // security_flags: no PIN/matrix/token
	return buf.Bytes()
}

// RejectionFrame builds a failure reply shaped for expected, the opcode the
// client's next frame was supposed to carry: a ConnectChallenge-shaped reply
// for CmdConnectRequest, an AuthLogonProof-shaped reply for
// CmdAuthLogonProof, an AuthReconnectProof-shaped reply for
// CmdAuthReconnectProof, and a two-byte (command, code) reply for
// CmdRealmList. Rejecting with the opcode of the frame the client is
// actually waiting on keeps the client's own state machine in sync; sending
// any other opcode here desyncs a real client.
func RejectionFrame(expected Command, code ReturnCode) []byte {
	switch expected {
	case CmdAuthLogonProof:
		return ConnectProofRejectionFrame(code)
	case CmdAuthReconnectProof:
		return ReconnectProofResponseFrame(code)
	case CmdRealmList:
		return []byte{byte(CmdRealmList), code.wireCode()}
	default:
		return []byte{byte(CmdConnectRequest), 0x00, code.wireCode()}
	}
}

// ConnectProofResponseFrame builds a successful AuthLogonProof reply.
func ConnectProofResponseFrame(serverProof srp.Proof) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(CmdAuthLogonProof))
	buf.WriteByte(byte(Success))
	buf.Write(serverProof[:])
	writeUint32(&buf, 0) // account_flags
	writeUint32(&buf, 0) // survey_id
	writeUint16(&buf, 0) // login_flags
	return buf.Bytes()
}

// ConnectProofRejectionFrame builds a failed AuthLogonProof reply.
func ConnectProofRejectionFrame(code ReturnCode) []byte {
	return []byte{byte(CmdAuthLogonProof), code.wireCode()}
}

// ReconnectChallengeFrame builds a successful AuthReconnectChallenge reply
// carrying the server's reconnect nonce.
func ReconnectChallengeFrame(nonce srp.ReconnectNonce) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(CmdAuthReconnectChallenge))
	buf.WriteByte(byte(Success))
	buf.Write(nonce[:])
	buf.Write(VersionChallenge[:])
	return buf.Bytes()
}

// ReconnectProofResponseFrame builds an AuthReconnectProof reply.
func ReconnectProofResponseFrame(code ReturnCode) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(CmdAuthReconnectProof))
	buf.WriteByte(code.wireCode())
	writeUint16(&buf, 0)
	return buf.Bytes()
}

// RealmEntry is the information about one realm needed to encode its
// RealmListResponse entry.
type RealmEntry struct {
	Type           uint8
	Locked         uint8
	Flags          uint8
	Name           string
	Address        string // "host:port", already resolved via realms.SelectAddress
	Population     float32
	CharacterCount uint8
	Timezone       uint8
	ID             uint8
}

// RealmListResponseFrame builds a RealmListResponse reply listing entries.
func RealmListResponseFrame(entries []RealmEntry) ([]byte, error) {
	var body bytes.Buffer
	writeUint32(&body, 0) // reserved
	writeUint16(&body, uint16(len(entries)))

	for _, e := range entries {
		if err := writeRealmEntry(&body, e); err != nil {
			return nil, err
		}
	}
	body.WriteByte(0x10)
	body.WriteByte(0x00)

	var frame bytes.Buffer
	frame.WriteByte(byte(CmdRealmList))
	writeUint16(&frame, uint16(body.Len()))
	frame.Write(body.Bytes())
	return frame.Bytes(), nil
}

func writeRealmEntry(w *bytes.Buffer, e RealmEntry) error {
	if bytes.ContainsRune([]byte(e.Name), 0) {
		return fmt.Errorf("wire: realm name %q contains a NUL byte", e.Name)
	}
	w.WriteByte(e.Type)
	w.WriteByte(e.Locked)
	w.WriteByte(e.Flags)
	w.WriteString(e.Name)
	w.WriteByte(0)
	w.WriteString(e.Address)
	w.WriteByte(0)
	writeFloat32(w, e.Population)
	w.WriteByte(e.CharacterCount)
	w.WriteByte(e.Timezone)
	w.WriteByte(e.ID)
	return nil
}

func writeUint16(w *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeFloat32(w *bytes.Buffer, v float32) {
	writeUint32(w, math.Float32bits(v))
}
