package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/contactbook/contactbook/internal/model"
	"github.com/contactbook/contactbook/pkg/redis"
)

// snapshotVersion tags the cache encoding. Entries with a different
// version are treated as misses and rewritten on the next lookup.
const snapshotVersion = 1

// UserSnapshot is the minimal user state cached between access-token
// verifications. The password hash is deliberately excluded.
type UserSnapshot struct {
	Version   int     `json:"v"`
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Confirmed bool    `json:"confirmed"`
	Avatar    *string `json:"avatar,omitempty"`
}

// SessionCache is a read-through accelerator in front of the user store.
// It is never authoritative: entries expire after the configured TTL and
// are not invalidated on user mutation, so a snapshot may be stale for at
// most one TTL.
type SessionCache interface {
	// Get returns the cached snapshot, or (nil, nil) on a miss.
	Get(ctx context.Context, email string) (*UserSnapshot, error)
	// Put stores a snapshot, overwriting any existing entry and
	// resetting the TTL.
	Put(ctx context.Context, email string, user *model.User) error
}

// RedisSessionCache stores snapshots under "user:<email>" as versioned
// JSON.
type RedisSessionCache struct {
	client redis.Client
	ttl    time.Duration
}

func NewSessionCache(client redis.Client, ttl time.Duration) *RedisSessionCache {
	if ttl <= 0 {
		ttl = 900 * time.Second
	}
	return &RedisSessionCache{client: client, ttl: ttl}
}

func sessionKey(email string) string {
	return "user:" + email
}

func (c *RedisSessionCache) Get(ctx context.Context, email string) (*UserSnapshot, error) {
	val, found, err := c.client.Get(ctx, sessionKey(email))
	if err != nil {
		return nil, fmt.Errorf("session cache get: %w", err)
	}
	if !found {
		return nil, nil
	}

	var snapshot UserSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("session cache decode: %w", err)
	}

	if snapshot.Version != snapshotVersion {
		return nil, nil
	}

	return &snapshot, nil
}

func (c *RedisSessionCache) Put(ctx context.Context, email string, user *model.User) error {
	snapshot := UserSnapshot{
		Version:   snapshotVersion,
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Confirmed: user.Confirmed,
		Avatar:    user.Avatar,
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("session cache encode: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(email), string(data), c.ttl); err != nil {
		return fmt.Errorf("session cache put: %w", err)
	}

	return nil
}
