// Package worldauth implements the short challenge-response a world server
// runs against a client that already completed authentication, reusing the
// SRP session key handed off by the auth server instead of contacting it
// again. It exposes only the proof verification and the wire layout of the
// two messages involved; running an actual world server (character
// enumeration, map simulation) is out of scope.
package worldauth

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // hard-specified by the protocol
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/wowauth/authd/internal/srp"
)

// ChallengeSize is the fixed body of the world server's AuthChallenge
// message: a single 32-bit realm seed.
const ChallengeSize = 4

// NewRealmSeed draws a fresh random 32-bit seed for a world server
// handshake.
func NewRealmSeed() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("worldauth: generating realm seed: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// EncodeChallenge returns the wire bytes of an AuthChallenge carrying seed.
func EncodeChallenge(seed uint32) []byte {
	buf := make([]byte, ChallengeSize)
	binary.LittleEndian.PutUint32(buf, seed)
	return buf
}

// DecodeChallenge parses an AuthChallenge body.
func DecodeChallenge(body []byte) (uint32, error) {
	if len(body) != ChallengeSize {
		return 0, fmt.Errorf("worldauth: AuthChallenge body must be %d bytes, got %d", ChallengeSize, len(body))
	}
	return binary.LittleEndian.Uint32(body), nil
}

// ClientProof computes the expected AuthSession proof:
// SHA1(username ‖ [0,0,0,0] ‖ client_seed ‖ realm_seed ‖ session_key).
func ClientProof(username string, clientSeed, realmSeed uint32, sessionKey srp.SessionKey) [20]byte {
	h := sha1.New() //nolint:gosec
	h.Write([]byte(strings.ToUpper(username)))
	h.Write([]byte{0, 0, 0, 0})

	var cs, rs [4]byte
	binary.LittleEndian.PutUint32(cs[:], clientSeed)
	binary.LittleEndian.PutUint32(rs[:], realmSeed)
	h.Write(cs[:])
	h.Write(rs[:])
	h.Write(sessionKey[:])

	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyClientProof checks a client-supplied AuthSession proof in constant
// time against the session key the world server received out-of-band from
// the account store.
func VerifyClientProof(username string, clientSeed, realmSeed uint32, sessionKey srp.SessionKey, clientProof [20]byte) bool {
	expected := ClientProof(username, clientSeed, realmSeed, sessionKey)
	return subtle.ConstantTimeCompare(expected[:], clientProof[:]) == 1
}
