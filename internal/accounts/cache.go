package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wowauth/authd/internal/srp"
)

// cacheEntry holds a cached lookup result with its expiry time.
type cacheEntry struct {
	account   *Account
	expiresAt time.Time
}

// CachingStore wraps a slower backing Store with a TTL-bounded read-through
// cache for Lookup, adapted from the teacher's srpstore.go session map: a
// mutex-guarded map plus a background cleanup goroutine, repurposed here
// from one-time-use SRP session storage to a repeatedly-read account
// lookup cache. Writes (CreateAccount, SetSessionKey, SetBanStatus,
// DeleteAccount) invalidate the affected entry and pass through unchanged.
type CachingStore struct {
	backing Store
	ttl     time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	stop chan struct{}
	once sync.Once
}

// NewCachingStore wraps backing with a read-through cache of the given TTL.
func NewCachingStore(backing Store, ttl time.Duration) *CachingStore {
	c := &CachingStore{
		backing: backing,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Close stops the background cleanup goroutine. Safe to call more than once.
func (c *CachingStore) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *CachingStore) cleanupLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *CachingStore) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for name, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, name)
		}
	}
}

func (c *CachingStore) invalidate(username string) {
	name := strings.ToUpper(username)
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// Lookup serves from cache when the entry is present and unexpired;
// otherwise it reads through to the backing store and caches the result.
func (c *CachingStore) Lookup(ctx context.Context, username string) (*Account, error) {
	name := strings.ToUpper(username)

	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return cloneAccount(entry.account), nil
	}

	acct, err := c.backing.Lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = cacheEntry{account: cloneAccount(acct), expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return acct, nil
}

func (c *CachingStore) LookupByID(ctx context.Context, id uint32) (*Account, error) {
	return c.backing.LookupByID(ctx, id)
}

// ListAccounts reads through to the backing store uncached; it's an
// administrative bulk operation, not the repeated single-account lookup
// this cache is tuned for.
func (c *CachingStore) ListAccounts(ctx context.Context) ([]*Account, error) {
	return c.backing.ListAccounts(ctx)
}

func (c *CachingStore) CreateAccount(ctx context.Context, username, password, email string) (*Account, error) {
	acct, err := c.backing.CreateAccount(ctx, username, password, email)
	if err != nil {
		return nil, err
	}
	c.invalidate(username)
	return acct, nil
}

func (c *CachingStore) SetSessionKey(ctx context.Context, username string, key srp.SessionKey, clientIP string) error {
	if err := c.backing.SetSessionKey(ctx, username, key, clientIP); err != nil {
		return err
	}
	c.invalidate(username)
	return nil
}

func (c *CachingStore) SetBanStatus(ctx context.Context, username string, status BanStatus, until time.Time) error {
	if err := c.backing.SetBanStatus(ctx, username, status, until); err != nil {
		return err
	}
	c.invalidate(username)
	return nil
}

func (c *CachingStore) DeleteAccount(ctx context.Context, username string) error {
	if err := c.backing.DeleteAccount(ctx, username); err != nil {
		return err
	}
	c.invalidate(username)
	return nil
}

var _ Store = (*CachingStore)(nil)
