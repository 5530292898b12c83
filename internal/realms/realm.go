// Package realms defines the Realm data model, the storage capability
// boundary, and address selection for realm-list responses.
package realms

import "time"

// Type is the realm's gameplay ruleset, as advertised in the realm list.
type Type uint8

const (
	TypeNormal Type = 0
	TypePVP    Type = 1
	TypeRP     Type = 6
	TypeRPPvP  Type = 8
)

// Flag is a bitfield over a realm's advertised state.
type Flag uint8

const (
	FlagNone         Flag = 0
	FlagInvalid      Flag = 0x01
	FlagOffline      Flag = 0x02
	FlagSpecifyBuild Flag = 0x04
	FlagUnknown1     Flag = 0x08
	FlagUnknown2     Flag = 0x10
	FlagRecommended  Flag = 0x20
	FlagNew          Flag = 0x40
	FlagFull         Flag = 0x80
)

// Has reports whether f includes flag.
func (f Flag) Has(flag Flag) bool { return f&flag != 0 }

// Realm is one entry in the realm list.
type Realm struct {
	ID    uint32
	Name  string
	Type  Type
	Build uint32

	// ExternalAddress is host:port reachable from outside the realm's
	// configured local subnet; LocalAddress is host:port reachable from
	// within it. See SelectAddress.
	ExternalAddress string
	LocalAddress    string
	LocalSubnet     string // CIDR, e.g. "10.0.0.0/8"
	Port            uint16

	Flags      Flag
	Timezone   uint8
	Population float32

	LastHeartbeatAt time.Time
}
