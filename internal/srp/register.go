package srp

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SRP6 wire format is hard-specified to SHA-1
	"fmt"
	"math/big"
	"strings"
)

// maxCredentialLength rejects usernames and passwords before they ever reach
// the hash: the original MySQL schema caps both columns at 16 characters.
const maxCredentialLength = 16

// ErrCredentialTooLong is returned by Register and ComputeVerifier when the
// username or password exceeds the 16-byte column width the account store
// was built around.
var ErrCredentialTooLong = fmt.Errorf("srp: username or password exceeds %d bytes", maxCredentialLength)

// ComputeVerifier derives the SRP verifier for a username/password pair
// under an existing salt: v = g^x mod N, where x is the little-endian
// interpretation of SHA1(salt ‖ SHA1(username ‖ ":" ‖ password)).
func ComputeVerifier(username, password string, salt Salt) (Verifier, error) {
	if len(username) > maxCredentialLength || len(password) > maxCredentialLength {
		return Verifier{}, ErrCredentialTooLong
	}
	username = strings.ToUpper(username)
	password = strings.ToUpper(password)

	identity := sha1.New()
	identity.Write([]byte(username))
	identity.Write([]byte(":"))
	identity.Write([]byte(password))

	h := sha1.New()
	h.Write(salt[:])
	h.Write(identity.Sum(nil))

	x := leToBig(h.Sum(nil))
	var v Verifier
	copy(v[:], leBytes(new(big.Int).Exp(groupG, x, groupN), verifierSize))
	return v, nil
}

// Register generates a fresh random salt and the matching verifier for a
// new account, mirroring WowSRPServer::register.
func Register(username, password string) (Verifier, Salt, error) {
	var salt Salt
	if _, err := rand.Read(salt[:]); err != nil {
		return Verifier{}, Salt{}, fmt.Errorf("srp: generating salt: %w", err)
	}

	verifier, err := ComputeVerifier(username, password, salt)
	if err != nil {
		return Verifier{}, Salt{}, err
	}
	return verifier, salt, nil
}
