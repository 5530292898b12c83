package srp

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SRP6 wire format is hard-specified to SHA-1
	"crypto/subtle"
	"fmt"
)

// ReconnectNonce is the 16-byte random value the server hands the client in
// the ReconnectChallenge frame, and which the client must echo back (mixed
// into its proof) in the ReconnectProof frame.
type ReconnectNonce [16]byte

// ReconnectProofData is the client's 16-byte nonce carried in the
// ReconnectProof frame alongside its 20-byte proof.
type ReconnectProofData [16]byte

// NewReconnectNonce draws a fresh random server nonce for a reconnect
// challenge.
func NewReconnectNonce() (ReconnectNonce, error) {
	var n ReconnectNonce
	if _, err := rand.Read(n[:]); err != nil {
		return n, fmt.Errorf("srp: generating reconnect nonce: %w", err)
	}
	return n, nil
}

// ReconnectProof computes the expected reconnect proof:
// H(username ‖ proofData ‖ serverNonce ‖ sessionKey).
func ReconnectProof(username string, proofData ReconnectProofData, serverNonce ReconnectNonce, sessionKey SessionKey) Proof {
	h := sha1.New() //nolint:gosec
	h.Write([]byte(username))
	h.Write(proofData[:])
	h.Write(serverNonce[:])
	h.Write(sessionKey[:])

	var out Proof
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyReconnectProof checks a client-supplied proof in constant time.
func VerifyReconnectProof(username string, proofData ReconnectProofData, serverNonce ReconnectNonce, sessionKey SessionKey, clientProof Proof) bool {
	expected := ReconnectProof(username, proofData, serverNonce, sessionKey)
	return subtle.ConstantTimeCompare(expected[:], clientProof[:]) == 1
}
