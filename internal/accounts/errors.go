package accounts

import "errors"

var (
	// ErrNotFound is returned when an account lookup finds nothing.
	ErrNotFound = errors.New("accounts: account not found")
	// ErrAlreadyExists is returned by CreateAccount for a duplicate username.
	ErrAlreadyExists = errors.New("accounts: account already exists")
	// ErrUsernameTooLong mirrors the 16-byte column width the SRP identity
	// hash and verifier derivation are built around.
	ErrUsernameTooLong = errors.New("accounts: username exceeds 16 bytes")
	// ErrPasswordTooLong mirrors ErrUsernameTooLong for passwords.
	ErrPasswordTooLong = errors.New("accounts: password exceeds 16 bytes")
	// ErrBanned is returned by Lookup-adjacent callers that reject banned accounts.
	ErrBanned = errors.New("accounts: account is banned")
	// ErrNoSessionKey is returned when a reconnect is attempted against an
	// account that has never completed a full login.
	ErrNoSessionKey = errors.New("accounts: no session key on file")
)
