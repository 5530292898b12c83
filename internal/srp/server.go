package srp

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SRP6 wire format is hard-specified to SHA-1
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
)

// Server holds one account's server-side SRP state for the lifetime of a
// single authentication handshake. It is not safe for concurrent use and is
// meant to live on the connection handler's stack, not in a shared map.
type Server struct {
	username     string
	salt         Salt
	verifier     Verifier
	identityHash [proofSize]byte
	b            *big.Int
	bPub         PublicKey
}

// NewServer begins a server-side SRP session for username, using the salt
// and verifier on file for that account. The ephemeral private value b is
// drawn from crypto/rand.
func NewServer(username string, salt Salt, verifier Verifier) (*Server, error) {
	bBytes := make([]byte, publicKeySize)
	if _, err := rand.Read(bBytes); err != nil {
		return nil, fmt.Errorf("srp: generating ephemeral private value: %w", err)
	}
	return newServerWithB(username, salt, verifier, new(big.Int).SetBytes(bBytes)), nil
}

// newServerWithB builds a Server from an explicit b, letting tests exercise
// the fixed vectors in this package's test file without ever drawing
// randomness in production code.
func newServerWithB(username string, salt Salt, verifier Verifier, b *big.Int) *Server {
	username = strings.ToUpper(username)
	s := &Server{
		username: username,
		salt:     salt,
		verifier: verifier,
		b:        b,
	}
	s.identityHash = sha1.Sum([]byte(username)) //nolint:gosec
	s.bPub = calculateBPub(b, verifier)
	return s
}

// calculateBPub computes B = (g^b + k*v) mod N, the server's ephemeral
// public value, little-endian encoded.
func calculateBPub(b *big.Int, verifier Verifier) PublicKey {
	v := leToBig(verifier[:])

	gb := new(big.Int).Exp(groupG, b, groupN)
	kv := new(big.Int).Mul(v, groupK)

	sum := new(big.Int).Add(gb, kv)
	sum.Mod(sum, groupN)

	var out PublicKey
	copy(out[:], leBytes(sum, publicKeySize))
	return out
}

// PublicKey returns the server's ephemeral public value B, as sent in the
// ConnectChallenge/ReconnectChallenge frame.
func (s *Server) PublicKey() PublicKey { return s.bPub }

// Salt returns the account's salt, as sent in the ConnectChallenge frame.
func (s *Server) Salt() Salt { return s.salt }

// VerifyChallengeResponse checks the client's ephemeral public value and
// proof (A, M1) against the stored verifier, returning the derived session
// key on success. A zero session key and false are returned on any failure,
// including a degenerate A (A mod N == 0).
func (s *Server) VerifyChallengeResponse(clientPublic PublicKey, clientProof Proof) (SessionKey, bool) {
	a := leToBig(clientPublic[:])
	if new(big.Int).Mod(a, groupN).Sign() == 0 {
		return SessionKey{}, false
	}

	u := leToBig(hashAB(clientPublic, s.bPub))
	v := leToBig(s.verifier[:])

	premaster := new(big.Int).Exp(v, u, groupN)
	premaster.Mul(premaster, a)
	premaster.Mod(premaster, groupN)
	premaster.Exp(premaster, s.b, groupN)

	var premasterLE [saltSize]byte
	copy(premasterLE[:], leBytes(premaster, saltSize))

	sessionKey := deriveSessionKey(premasterLE)

	expected := s.expectedClientProof(clientPublic, sessionKey)
	if subtle.ConstantTimeCompare(expected[:], clientProof[:]) != 1 {
		return SessionKey{}, false
	}
	return sessionKey, true
}

// expectedClientProof computes M1 = H(H(N) xor H(g) ‖ H(username) ‖ salt ‖ A ‖ B ‖ K).
func (s *Server) expectedClientProof(clientPublic PublicKey, sessionKey SessionKey) Proof {
	nLE, gLE := GroupParams()
	hn := sha1.Sum(nLE) //nolint:gosec
	hg := sha1.Sum(gLE) //nolint:gosec

	var hnXorHg [proofSize]byte
	for i := range hnXorHg {
		hnXorHg[i] = hn[i] ^ hg[i]
	}

	h := sha1.New() //nolint:gosec
	h.Write(hnXorHg[:])
	h.Write(s.identityHash[:])
	h.Write(s.salt[:])
	h.Write(clientPublic[:])
	h.Write(s.bPub[:])
	h.Write(sessionKey[:])

	var out Proof
	copy(out[:], h.Sum(nil))
	return out
}

// ServerProof computes M2 = H(A ‖ M1 ‖ K), sent back to the client to prove
// the server also derived the session key.
func ServerProof(clientPublic PublicKey, clientProof Proof, sessionKey SessionKey) Proof {
	h := sha1.New() //nolint:gosec
	h.Write(clientPublic[:])
	h.Write(clientProof[:])
	h.Write(sessionKey[:])

	var out Proof
	copy(out[:], h.Sum(nil))
	return out
}

// hashAB computes the scrambling hash over the raw wire bytes of A and B,
// used directly (not re-derived through big.Int) as the reference
// implementation hashes the transmitted byte strings, not their numeric value.
func hashAB(a, b PublicKey) []byte {
	h := sha1.New() //nolint:gosec
	h.Write(a[:])
	h.Write(b[:])
	return h.Sum(nil)
}

// deriveSessionKey runs the premaster secret through the WoW interleave:
// split the 32-byte little-endian premaster secret into its even and odd
// bytes, SHA-1 each half (after trimming a possible leading zero byte pair),
// then interleave the two 20-byte digests into the 40-byte session key.
func deriveSessionKey(premaster [saltSize]byte) SessionKey {
	var left, right [saltSize / 2]byte
	for i := 0; i < saltSize/2; i++ {
		left[i] = premaster[2*i]
		right[i] = premaster[2*i+1]
	}

	start := saltSize / 2
	for i, v := range premaster {
		if v != 0 {
			start = (i + 1) / 2
			break
		}
	}

	leftHash := sha1.Sum(left[start:])  //nolint:gosec
	rightHash := sha1.Sum(right[start:]) //nolint:gosec

	var k SessionKey
	for i := 0; i < proofSize; i++ {
		k[2*i] = leftHash[i]
		k[2*i+1] = rightHash[i]
	}
	return k
}
