package srp

import "math/big"

// reversed returns a copy of b with byte order reversed.
func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// leToBig interprets b as a little-endian integer, matching num_bigint's
// from_bytes_le as used throughout the reference SRP implementation.
func leToBig(b []byte) *big.Int {
	return new(big.Int).SetBytes(reversed(b))
}

// leBytes encodes n little-endian. When size is 0 the minimal encoding is
// returned (used for small values like the generator); otherwise the result
// is zero-padded/truncated at the most-significant end to exactly size bytes.
func leBytes(n *big.Int, size int) []byte {
	be := n.Bytes()
	if size == 0 {
		return reversed(be)
	}
	if len(be) > size {
		be = be[len(be)-size:]
	}
	padded := make([]byte, size)
	copy(padded[size-len(be):], be)
	return reversed(padded)
}
