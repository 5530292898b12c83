package logging

import (
	"strings"
)

const redactedValue = "[REDACTED]"

// Redactor handles secret redaction in log fields.
type Redactor struct {
	sensitiveKeys map[string]bool
}

// NewRedactor creates a new Redactor with default sensitive keys.
func NewRedactor() *Redactor {
	return &Redactor{
		sensitiveKeys: map[string]bool{
			// Admin API session & bearer tokens
			"password":      true,
			"token":         true,
			"secret":        true,
			"key":           true,
			"session":       true,
			"session_token": true,
			"authorization": true,
			"jwt":           true,
			"bearer_token":  true,

			// SRP protocol values
			"proof":    true,
			"verifier": true,
			"salt":     true, // salt is logged in some auditing contexts, but redact by default
			"a":        true, // SRP ephemeral client private
			"b":        true, // SRP ephemeral server private
			"m1":       true, // SRP client proof (lowercase to match case-insensitive check)
			"m2":       true, // SRP server proof (lowercase to match case-insensitive check)

			// TLS material
			"cert":        true,
			"certificate": true,
			"tls_cert":    true,
			"tls_key":     true,
			"private_key": true,
		},
	}
}

// AddSensitiveKey adds a custom key to the redaction list.
func (r *Redactor) AddSensitiveKey(key string) {
	r.sensitiveKeys[strings.ToLower(key)] = true
}

// RedactFields redacts sensitive values from a map of fields.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	redacted := make(map[string]any, len(fields))

	for k, v := range fields {
		if r.isSensitiveKey(k) {
			redacted[k] = redactedValue
		} else if nested, ok := v.(map[string]any); ok {
			// Recursively redact nested maps
			redacted[k] = r.RedactFields(nested)
		} else {
			redacted[k] = v
		}
	}

	return redacted
}

// isSensitiveKey checks if a field key is marked as sensitive.
func (r *Redactor) isSensitiveKey(key string) bool {
	// Only check exact match (case-insensitive)
	// Substring matching was too aggressive and caught legitimate fields
	return r.sensitiveKeys[strings.ToLower(key)]
}
