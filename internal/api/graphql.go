package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/graph-gophers/graphql-go"

	"github.com/wowauth/authd/internal/accounts"
	"github.com/wowauth/authd/internal/realms"
)

// schemaSDL is the admin API's GraphQL schema: read access to the account
// and realm stores, and the handful of mutations an operator needs
// (banning, unbanning, provisioning a realm, toggling realm flags).
const schemaSDL = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		accounts: [Account!]!
		account(username: String!): Account
		realms: [Realm!]!
	}

	type Mutation {
		banAccount(username: String!, permanent: Boolean!, untilRFC3339: String): Account!
		unbanAccount(username: String!): Account!
		createRealm(name: String!, type: Int!, build: Int!, externalAddress: String!, localAddress: String!, localSubnet: String!, port: Int!): Realm!
		setRealmFlags(id: ID!, flags: Int!): Realm!
	}

	type Account {
		id: ID!
		username: String!
		email: String!
		banStatus: String!
		bannedUntil: String
		joinedAt: String!
		lastLoginAt: String
		lastLoginIP: String
		onlineCount: Int!
	}

	type Realm {
		id: ID!
		name: String!
		type: Int!
		build: Int!
		externalAddress: String!
		localAddress: String!
		localSubnet: String!
		port: Int!
		flags: Int!
		population: Float!
		lastHeartbeatAt: String
	}
`

// resolver is the GraphQL root resolver, bound to the same Store
// interfaces the authentication core depends on.
type resolver struct {
	accountStore accounts.Store
	realmStore   realms.Store
}

func newSchema(accountStore accounts.Store, realmStore realms.Store) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, &resolver{accountStore: accountStore, realmStore: realmStore})
}

func (r *resolver) Accounts(ctx context.Context) ([]*accountResolver, error) {
	list, err := r.accountStore.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*accountResolver, len(list))
	for i, a := range list {
		out[i] = &accountResolver{a}
	}
	return out, nil
}

func (r *resolver) Account(ctx context.Context, args struct{ Username string }) (*accountResolver, error) {
	a, err := r.accountStore.Lookup(ctx, args.Username)
	if err != nil {
		if err == accounts.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &accountResolver{a}, nil
}

func (r *resolver) Realms(ctx context.Context) ([]*realmResolver, error) {
	list, err := r.realmStore.ListRealms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*realmResolver, len(list))
	for i, realm := range list {
		out[i] = &realmResolver{realm}
	}
	return out, nil
}

type banAccountArgs struct {
	Username     string
	Permanent    bool
	UntilRFC3339 *string
}

func (r *resolver) BanAccount(ctx context.Context, args banAccountArgs) (*accountResolver, error) {
	status := accounts.BanTemporary
	var until time.Time
	if args.Permanent {
		status = accounts.BanPermanent
	} else if args.UntilRFC3339 != nil {
		t, err := time.Parse(time.RFC3339, *args.UntilRFC3339)
		if err != nil {
			return nil, fmt.Errorf("untilRFC3339: %w", err)
		}
		until = t
	}

	if err := r.accountStore.SetBanStatus(ctx, args.Username, status, until); err != nil {
		return nil, err
	}
	a, err := r.accountStore.Lookup(ctx, args.Username)
	if err != nil {
		return nil, err
	}
	return &accountResolver{a}, nil
}

func (r *resolver) UnbanAccount(ctx context.Context, args struct{ Username string }) (*accountResolver, error) {
	if err := r.accountStore.SetBanStatus(ctx, args.Username, accounts.BanNone, time.Time{}); err != nil {
		return nil, err
	}
	a, err := r.accountStore.Lookup(ctx, args.Username)
	if err != nil {
		return nil, err
	}
	return &accountResolver{a}, nil
}

type createRealmArgs struct {
	Name            string
	Type            int32
	Build           int32
	ExternalAddress string
	LocalAddress    string
	LocalSubnet     string
	Port            int32
}

func (r *resolver) CreateRealm(ctx context.Context, args createRealmArgs) (*realmResolver, error) {
	created, err := r.realmStore.CreateRealm(ctx, &realms.Realm{
		Name:            args.Name,
		Type:            realms.Type(args.Type),
		Build:           uint32(args.Build),
		ExternalAddress: args.ExternalAddress,
		LocalAddress:    args.LocalAddress,
		LocalSubnet:     args.LocalSubnet,
		Port:            uint16(args.Port),
	})
	if err != nil {
		return nil, err
	}
	return &realmResolver{created}, nil
}

func (r *resolver) SetRealmFlags(ctx context.Context, args struct {
	ID    graphql.ID
	Flags int32
}) (*realmResolver, error) {
	id, err := parseRealmID(args.ID)
	if err != nil {
		return nil, err
	}
	if err := r.realmStore.UpdateFlags(ctx, id, realms.Flag(args.Flags)); err != nil {
		return nil, err
	}

	list, err := r.realmStore.ListRealms(ctx)
	if err != nil {
		return nil, err
	}
	for _, realm := range list {
		if realm.ID == id {
			return &realmResolver{realm}, nil
		}
	}
	return nil, realms.ErrNotFound
}

func parseRealmID(id graphql.ID) (uint32, error) {
	n, err := strconv.ParseUint(string(id), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid realm id %q: %w", id, err)
	}
	return uint32(n), nil
}

type accountResolver struct {
	account *accounts.Account
}

func (a *accountResolver) ID() graphql.ID   { return graphql.ID(strconv.FormatUint(uint64(a.account.ID), 10)) }
func (a *accountResolver) Username() string { return a.account.Username }
func (a *accountResolver) Email() string    { return a.account.Email }
func (a *accountResolver) BanStatus() string {
	return a.account.BanStatus.String()
}
func (a *accountResolver) BannedUntil() *string { return formatTimePtr(a.account.BannedUntil) }
func (a *accountResolver) JoinedAt() string     { return a.account.JoinedAt.Format(time.RFC3339) }
func (a *accountResolver) LastLoginAt() *string { return formatTimePtr(a.account.LastLoginAt) }
func (a *accountResolver) LastLoginIP() *string {
	if a.account.LastLoginIP == "" {
		return nil
	}
	ip := a.account.LastLoginIP
	return &ip
}
func (a *accountResolver) OnlineCount() int32   { return int32(a.account.OnlineCount) }

type realmResolver struct {
	realm *realms.Realm
}

func (r *realmResolver) ID() graphql.ID { return graphql.ID(strconv.FormatUint(uint64(r.realm.ID), 10)) }
func (r *realmResolver) Name() string   { return r.realm.Name }
func (r *realmResolver) Type() int32    { return int32(r.realm.Type) }
func (r *realmResolver) Build() int32   { return int32(r.realm.Build) }
func (r *realmResolver) ExternalAddress() string { return r.realm.ExternalAddress }
func (r *realmResolver) LocalAddress() string    { return r.realm.LocalAddress }
func (r *realmResolver) LocalSubnet() string     { return r.realm.LocalSubnet }
func (r *realmResolver) Port() int32             { return int32(r.realm.Port) }
func (r *realmResolver) Flags() int32            { return int32(r.realm.Flags) }
func (r *realmResolver) Population() float64     { return float64(r.realm.Population) }
func (r *realmResolver) LastHeartbeatAt() *string {
	return formatTimePtr(r.realm.LastHeartbeatAt)
}

func formatTimePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
