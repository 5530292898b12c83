// Package accounts defines the Account data model and the storage
// capability boundary the authentication core depends on.
package accounts

import (
	"time"

	"github.com/wowauth/authd/internal/srp"
)

// BanStatus classifies an account's ban state.
type BanStatus int

const (
	// BanNone means the account is not banned.
	BanNone BanStatus = iota
	// BanTemporary means the account is banned until BannedUntil.
	BanTemporary
	// BanPermanent means the account is banned indefinitely.
	BanPermanent
)

// String renders a BanStatus for logging.
func (b BanStatus) String() string {
	switch b {
	case BanNone:
		return "none"
	case BanTemporary:
		return "temporary"
	case BanPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Account is a single game account's authentication record.
type Account struct {
	ID       uint32
	Username string // ASCII, <=16 bytes, uppercased at rest
	Email    string

	Salt     srp.Salt
	Verifier srp.Verifier

	// SessionKey is nil until the account has completed a login once.
	// Reconnect without a session key present is rejected as SessionExpired.
	SessionKey *srp.SessionKey

	BanStatus    BanStatus
	BannedUntil  time.Time
	JoinedAt     time.Time
	LastLoginAt  time.Time
	LastLoginIP  string
	OnlineCount  int
}
