// Package directory resolves user IDs to display details with a TTL cache in front of the store.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mmynk/billmate/internal/models"
)

// UserLookup is the part of the user store the directory reads from.
type UserLookup interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Entry is the public view of a user.
type Entry struct {
	ID             string
	DisplayName    string
	Username       string
	PaymentDetails models.PaymentAccount
}

// Directory caches user entries for ttl.
type Directory struct {
	users UserLookup
	cache *cache.Cache
}

// New creates a Directory. Entries expire after ttl and are purged every 2*ttl.
func New(users UserLookup, ttl time.Duration) *Directory {
	return &Directory{
		users: users,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Lookup returns entries for ids. Unknown users are omitted.
func (d *Directory) Lookup(ctx context.Context, ids []string) (map[string]Entry, error) {
	entries := make(map[string]Entry, len(ids))
	var missing []string
	for _, id := range ids {
		if _, done := entries[id]; done {
			continue
		}
		if v, ok := d.cache.Get(id); ok {
			entries[id] = v.(Entry)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return entries, nil
	}

	users, err := d.users.GetUsersByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	for id, user := range users {
		entry := Entry{
			ID:             user.ID,
			DisplayName:    user.DisplayName,
			Username:       user.Username,
			PaymentDetails: user.PaymentDetails,
		}
		d.cache.SetDefault(id, entry)
		entries[id] = entry
	}
	return entries, nil
}

// Names returns display names for ids. Unknown users are omitted.
func (d *Directory) Names(ctx context.Context, ids []string) (map[string]string, error) {
	entries, err := d.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(entries))
	for id, e := range entries {
		names[id] = e.DisplayName
	}
	return names, nil
}

// Invalidate drops a cached user, e.g. after their profile changes.
func (d *Directory) Invalidate(userID string) {
	d.cache.Delete(userID)
}
