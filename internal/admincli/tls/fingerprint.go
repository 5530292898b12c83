// Package tls provides trust-on-first-use certificate verification for
// cmd/authadmin, talking to a self-signed admin API endpoint.
package tls

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
)

// ComputeFingerprint computes the SHA-256 fingerprint of a TLS certificate.
// The fingerprint is returned in the format "SHA256:<base64-encoded-hash>".
func ComputeFingerprint(cert *x509.Certificate) string {
	hash := sha256.Sum256(cert.Raw)
	encoded := base64.StdEncoding.EncodeToString(hash[:])
	return fmt.Sprintf("SHA256:%s", encoded)
}

// FingerprintMatches checks if a certificate's fingerprint matches the expected value.
func FingerprintMatches(cert *x509.Certificate, expected string) bool {
	return ComputeFingerprint(cert) == expected
}
