package accounts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wowauth/authd/internal/srp"
)

// MemoryStore is a mutex-guarded, in-memory Store implementation keyed by
// uppercased username. It is the reference implementation for tests and
// example binaries, not a production persistence layer.
type MemoryStore struct {
	mu       sync.RWMutex
	byName   map[string]*Account
	nextID   uint32
}

// NewMemoryStore creates an empty account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]*Account),
		nextID: 1,
	}
}

func (s *MemoryStore) CreateAccount(_ context.Context, username, password, email string) (*Account, error) {
	if len(username) > 16 {
		return nil, ErrUsernameTooLong
	}
	if len(password) > 16 {
		return nil, ErrPasswordTooLong
	}
	name := strings.ToUpper(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[name]; exists {
		return nil, ErrAlreadyExists
	}

	verifier, salt, err := srp.Register(name, password)
	if err != nil {
		return nil, fmt.Errorf("accounts: computing verifier: %w", err)
	}

	acct := &Account{
		ID:       s.nextID,
		Username: name,
		Email:    email,
		Salt:     salt,
		Verifier: verifier,
		JoinedAt: time.Now(),
	}
	s.nextID++
	s.byName[name] = acct

	return cloneAccount(acct), nil
}

func (s *MemoryStore) Lookup(_ context.Context, username string) (*Account, error) {
	name := strings.ToUpper(username)

	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(acct), nil
}

func (s *MemoryStore) LookupByID(_ context.Context, id uint32) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acct := range s.byName {
		if acct.ID == id {
			return cloneAccount(acct), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListAccounts(_ context.Context) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Account, 0, len(s.byName))
	for _, acct := range s.byName {
		out = append(out, cloneAccount(acct))
	}
	return out, nil
}

func (s *MemoryStore) SetSessionKey(_ context.Context, username string, key srp.SessionKey, clientIP string) error {
	name := strings.ToUpper(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.byName[name]
	if !ok {
		return ErrNotFound
	}
	k := key
	acct.SessionKey = &k
	acct.LastLoginAt = time.Now()
	acct.LastLoginIP = clientIP
	acct.OnlineCount++
	return nil
}

func (s *MemoryStore) SetBanStatus(_ context.Context, username string, status BanStatus, until time.Time) error {
	name := strings.ToUpper(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.byName[name]
	if !ok {
		return ErrNotFound
	}
	acct.BanStatus = status
	if status == BanTemporary {
		acct.BannedUntil = until
	} else {
		acct.BannedUntil = time.Time{}
	}
	return nil
}

func (s *MemoryStore) DeleteAccount(_ context.Context, username string) error {
	name := strings.ToUpper(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[name]; !ok {
		return ErrNotFound
	}
	delete(s.byName, name)
	return nil
}

// cloneAccount returns a shallow copy so callers can't mutate store state
// through a returned pointer.
func cloneAccount(a *Account) *Account {
	cp := *a
	if a.SessionKey != nil {
		k := *a.SessionKey
		cp.SessionKey = &k
	}
	return &cp
}
