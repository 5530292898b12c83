package tls

import (
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const knownCertsFileName = "known_certs.yaml"

// CertificateEntry represents a known certificate fingerprint.
type CertificateEntry struct {
	Host        string    `yaml:"host"`
	Fingerprint string    `yaml:"fingerprint"`
	AcceptedAt  time.Time `yaml:"accepted_at"`
}

// CertificateStore manages known certificate fingerprints for trust-on-first-use.
type CertificateStore struct {
	filePath string
	certs    map[string]CertificateEntry // key: host
}

type knownCertsFile struct {
	Certificates []CertificateEntry `yaml:"certificates"`
}

// NewCertificateStore opens (or initializes) the certificate store under the
// user's config directory (~/.config/authadmin on Linux).
func NewCertificateStore() (*CertificateStore, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewCertificateStoreAt(configDir)
}

// NewCertificateStoreAt opens (or initializes) the certificate store under
// configDir, bypassing the OS-specific user config directory lookup. Tests
// use this to point the store at a temporary directory.
func NewCertificateStoreAt(configDir string) (*CertificateStore, error) {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory %s: %w", configDir, err)
	}

	store := &CertificateStore{
		filePath: filepath.Join(configDir, knownCertsFileName),
		certs:    make(map[string]CertificateEntry),
	}

	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// UserConfigDir returns the OS-specific user config directory for authadmin.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "authadmin"), nil
}

func (s *CertificateStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read known certificates file: %w", err)
	}

	var file knownCertsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse known certificates file: %w", err)
	}
	for _, entry := range file.Certificates {
		s.certs[entry.Host] = entry
	}
	return nil
}

func (s *CertificateStore) save() error {
	certs := make([]CertificateEntry, 0, len(s.certs))
	for _, entry := range s.certs {
		certs = append(certs, entry)
	}

	data, err := yaml.Marshal(&knownCertsFile{Certificates: certs})
	if err != nil {
		return fmt.Errorf("failed to marshal known certificates: %w", err)
	}

	//nolint:gosec // G306: fingerprints are not secret
	if err := os.WriteFile(s.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write known certificates file: %w", err)
	}
	return nil
}

// IsKnown reports whether cert's fingerprint matches the one on file for host.
func (s *CertificateStore) IsKnown(host string, cert *x509.Certificate) bool {
	entry, exists := s.certs[host]
	if !exists {
		return false
	}
	return entry.Fingerprint == ComputeFingerprint(cert)
}

// Add records cert's fingerprint as trusted for host.
func (s *CertificateStore) Add(host string, cert *x509.Certificate) error {
	s.certs[host] = CertificateEntry{
		Host:        host,
		Fingerprint: ComputeFingerprint(cert),
		AcceptedAt:  time.Now(),
	}
	return s.save()
}

// VerifyFingerprint returns nil if cert matches the known fingerprint for
// host, or if no fingerprint is on file yet. It returns an error only on a
// mismatch against a previously trusted fingerprint, since that indicates
// either a rotated certificate or a man-in-the-middle.
func (s *CertificateStore) VerifyFingerprint(host string, cert *x509.Certificate) error {
	entry, exists := s.certs[host]
	if !exists {
		return nil
	}

	actual := ComputeFingerprint(cert)
	if entry.Fingerprint != actual {
		return fmt.Errorf("certificate fingerprint mismatch for %s\nexpected: %s\ngot:      %s\nremove the stale entry from %s if this rotation is expected",
			host, entry.Fingerprint, actual, s.filePath)
	}
	return nil
}
