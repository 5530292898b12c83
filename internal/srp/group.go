// Package srp implements the World of Warcraft variant of SRP6: a fixed
// 256-bit safe prime group, SHA-1 throughout, and a fixed multiplier k=3
// instead of the RFC5054 k=H(N|g) derivation.
package srp

import "math/big"

// nBytesBE is the 256-bit safe prime shared by every realm, big-endian.
var nBytesBE = []byte{
	0x89, 0x4B, 0x64, 0x5E, 0x89, 0xE1, 0x53, 0x5B, 0xBD, 0xAD, 0x5B, 0x8B,
	0x29, 0x06, 0x50, 0x53, 0x08, 0x01, 0xB1, 0x8E, 0xBF, 0xBF, 0x5E, 0x8F,
	0xAB, 0x3C, 0x82, 0x87, 0x2A, 0x3E, 0x9B, 0xB7,
}

var (
	groupN = new(big.Int).SetBytes(nBytesBE)
	groupG = big.NewInt(7)
	groupK = big.NewInt(3)
)

// saltSize, verifierSize and publicKeySize are all 32 bytes: the group
// modulus is 256 bits and every value reduced mod N fits in that width.
const (
	saltSize       = 32
	verifierSize   = 32
	publicKeySize  = 32
	proofSize      = 20
	sessionKeySize = 40
)

// Salt is the per-account random value mixed into the verifier derivation.
type Salt [saltSize]byte

// Verifier is g^x mod N, stored and transmitted little-endian.
type Verifier [verifierSize]byte

// PublicKey is an SRP ephemeral public value (A or B), little-endian on the wire.
type PublicKey [publicKeySize]byte

// Proof is a 20-byte SHA-1 digest used for M1/M2 and reconnect proofs.
type Proof [proofSize]byte

// SessionKey is the 40-byte interleaved session key K.
type SessionKey [sessionKeySize]byte

// GroupParams returns the wire encoding of N and g, little-endian, as sent
// in the ConnectChallenge frame.
func GroupParams() (nLE, gLE []byte) {
	return leBytes(groupN, saltSize), leBytes(groupG, 0)
}
