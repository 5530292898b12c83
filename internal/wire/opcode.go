// Package wire implements the single-byte-opcode, fixed-body binary
// protocol spoken between a 3.3.5 (build 12340) client and the
// authentication server.
package wire

// Command is the single-byte opcode that begins every message.
type Command byte

const (
	CmdConnectRequest         Command = 0x00
	CmdAuthLogonProof         Command = 0x01
	CmdAuthReconnectChallenge Command = 0x02
	CmdAuthReconnectProof     Command = 0x03
	CmdRealmList              Command = 0x10
)

// ExpectedBuild is the only client build this server accepts.
const ExpectedBuild = 12340

// VersionChallenge is the fixed 16-byte constant sent in every
// ConnectChallenge/ReconnectChallenge frame.
var VersionChallenge = [16]byte{
	0xBA, 0xA3, 0x1E, 0x99, 0xA0, 0x0B, 0x21, 0x57,
	0xFC, 0x37, 0x3F, 0xB3, 0x69, 0xCD, 0xD2, 0xF1,
}

// ReturnCode is the single-byte status reported in rejection and proof
// response frames.
type ReturnCode byte

const (
	Success             ReturnCode = 0x00
	Failed              ReturnCode = 0x01
	Failed2             ReturnCode = 0x02
	Banned              ReturnCode = 0x03
	UnknownAccount      ReturnCode = 0x04
	IncorrectPassword   ReturnCode = 0x05
	AlreadyOnline       ReturnCode = 0x06
	NoTime              ReturnCode = 0x07
	DBBusy              ReturnCode = 0x08
	VersionInvalid      ReturnCode = 0x09
	VersionUpdate       ReturnCode = 0x0A
	InvalidServer       ReturnCode = 0x0B
	Suspended           ReturnCode = 0x0C
	NoAccess            ReturnCode = 0x0D
	Parentcontrol       ReturnCode = 0x0F
	LockedEnforced      ReturnCode = 0x10
	// SessionExpired is a local addition (not on the wire as a distinct
	// byte value from the original set) used for reconnect attempts
	// against an account with no session key on file; it is mapped to
	// Failed when serialized, since the protocol has no dedicated code.
	SessionExpired ReturnCode = 0xF0
)

// wireCode returns the byte actually placed on the wire for a ReturnCode,
// collapsing local-only codes onto a protocol-defined value.
func (r ReturnCode) wireCode() byte {
	if r == SessionExpired {
		return byte(Failed)
	}
	return byte(r)
}
