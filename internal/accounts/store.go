package accounts

import (
	"context"
	"time"

	"github.com/wowauth/authd/internal/srp"
)

// Store is the capability boundary to persistent account data. The
// authentication core depends only on this interface; a SQL-backed
// implementation is out of scope and not provided here (see MemoryStore
// for the reference implementation used by tests and example binaries).
type Store interface {
	// CreateAccount registers a new account, computing its salt and
	// verifier from username/password. Username and password longer than
	// 16 bytes are rejected before any hashing occurs.
	CreateAccount(ctx context.Context, username, password, email string) (*Account, error)

	// Lookup fetches an account by username (case-insensitive).
	Lookup(ctx context.Context, username string) (*Account, error)

	// LookupByID fetches an account by numeric id.
	LookupByID(ctx context.Context, id uint32) (*Account, error)

	// ListAccounts returns every account known to the store, in no
	// particular order. Intended for administrative use; callers needing
	// scale should page at the store layer rather than relying on this
	// returning a bounded set.
	ListAccounts(ctx context.Context) ([]*Account, error)

	// SetSessionKey records the session key negotiated by a successful
	// login or reconnect, along with the client's IP and the login time.
	SetSessionKey(ctx context.Context, username string, key srp.SessionKey, clientIP string) error

	// SetBanStatus updates an account's ban state. until is ignored unless
	// status is BanTemporary.
	SetBanStatus(ctx context.Context, username string, status BanStatus, until time.Time) error

	// DeleteAccount removes exactly the account record; it does not cascade
	// to any other entity, since none is keyed by account id in this store.
	DeleteAccount(ctx context.Context, username string) error
}
