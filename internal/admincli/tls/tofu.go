package tls

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptInput is read for the operator's yes/no response when ClientConfig
// encounters an unknown certificate with assumeYes false. Defaults to
// os.Stdin; tests substitute a fixed reader so acceptance prompts never
// block on the test process's stdin.
var PromptInput io.Reader = os.Stdin

// ClientConfig builds a *tls.Config that performs trust-on-first-use
// verification against store instead of relying on a certificate
// authority: unknown certificates are shown to the operator for
// acceptance, known ones are checked against their recorded fingerprint,
// and a changed fingerprint on a previously trusted host is rejected
// outright rather than silently re-prompted.
func ClientConfig(host string, store *CertificateStore, assumeYes bool) *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // verification happens in VerifyPeerCertificate below
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 {
				return fmt.Errorf("server presented no certificate")
			}
			cert, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("parsing server certificate: %w", err)
			}

			if err := store.VerifyFingerprint(host, cert); err != nil {
				return err
			}
			if store.IsKnown(host, cert) {
				return nil
			}

			if !promptAcceptCertificate(host, cert, assumeYes) {
				return fmt.Errorf("certificate for %s rejected by operator", host)
			}
			return store.Add(host, cert)
		},
	}
}

func promptAcceptCertificate(host string, cert *x509.Certificate, assumeYes bool) bool {
	fmt.Fprintf(os.Stderr, "\nWARNING: unknown TLS certificate\n")
	fmt.Fprintf(os.Stderr, "  Host:        %s\n", host)
	fmt.Fprintf(os.Stderr, "  Subject:     %s\n", cert.Subject)
	fmt.Fprintf(os.Stderr, "  Valid From:  %s\n", cert.NotBefore)
	fmt.Fprintf(os.Stderr, "  Valid Until: %s\n", cert.NotAfter)
	fmt.Fprintf(os.Stderr, "  Fingerprint: %s\n\n", ComputeFingerprint(cert))

	if assumeYes {
		fmt.Fprintln(os.Stderr, "accepting automatically (--yes)")
		return true
	}
	return promptYesNo("accept this certificate?")
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(PromptInput)
	for {
		fmt.Fprintf(os.Stderr, "%s (yes/no): ", question)
		response, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(response)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		default:
			fmt.Fprintln(os.Stderr, "please answer 'yes' or 'no'")
		}
	}
}
