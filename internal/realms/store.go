package realms

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a realm id has no matching entry.
var ErrNotFound = errors.New("realms: realm not found")

// Store is the capability boundary to persistent realm data. The
// authentication core depends only on this interface; a SQL-backed
// implementation is out of scope and not provided here.
type Store interface {
	// ListRealms returns every realm known to the store, in no particular
	// order.
	ListRealms(ctx context.Context) ([]*Realm, error)

	// UpdateFlags replaces the flag bitfield for a single realm.
	UpdateFlags(ctx context.Context, id uint32, flags Flag) error

	// SetPopulation records a realm's current population and refreshes
	// its last-heartbeat timestamp.
	SetPopulation(ctx context.Context, id uint32, population float32) error

	// CreateRealm administratively provisions a new realm. The id on r is
	// ignored; the store assigns one.
	CreateRealm(ctx context.Context, r *Realm) (*Realm, error)
}
