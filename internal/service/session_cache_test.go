package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactbook/contactbook/internal/model"
)

// fakeRedis is an in-memory stand-in for the redis client interface.
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := f.values[key]
	return val, ok, nil
}

func (f *fakeRedis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	delete(f.ttls, key)
	return nil
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }
func (f *fakeRedis) Close() error                   { return nil }

func TestSessionCache_MissReturnsNil(t *testing.T) {
	cache := NewSessionCache(newFakeRedis(), time.Minute)

	snapshot, err := cache.Get(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSessionCache_PutGetRoundtrip(t *testing.T) {
	rdb := newFakeRedis()
	cache := NewSessionCache(rdb, time.Minute)

	avatar := "https://example.com/a.png"
	user := &model.User{
		ID:        3,
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "bcrypt-hash",
		Confirmed: true,
		Avatar:    &avatar,
	}

	require.NoError(t, cache.Put(context.Background(), user.Email, user))

	snapshot, err := cache.Get(context.Background(), user.Email)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, uint(3), snapshot.ID)
	assert.Equal(t, "alice", snapshot.Username)
	assert.True(t, snapshot.Confirmed)
	require.NotNil(t, snapshot.Avatar)
	assert.Equal(t, avatar, *snapshot.Avatar)

	// The password hash never enters the cache.
	assert.NotContains(t, rdb.values["user:alice@example.com"], "bcrypt-hash")
	assert.Equal(t, time.Minute, rdb.ttls["user:alice@example.com"])
}

func TestSessionCache_VersionMismatchIsMiss(t *testing.T) {
	rdb := newFakeRedis()
	cache := NewSessionCache(rdb, time.Minute)

	rdb.values["user:alice@example.com"] = `{"v":0,"id":3,"email":"alice@example.com"}`

	snapshot, err := cache.Get(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSessionCache_CorruptEntryIsError(t *testing.T) {
	rdb := newFakeRedis()
	cache := NewSessionCache(rdb, time.Minute)

	rdb.values["user:alice@example.com"] = "not-json"

	_, err := cache.Get(context.Background(), "alice@example.com")
	assert.Error(t, err)
}

func TestNewSessionCache_DefaultTTL(t *testing.T) {
	rdb := newFakeRedis()
	cache := NewSessionCache(rdb, 0)

	require.NoError(t, cache.Put(context.Background(), "alice@example.com", &model.User{ID: 1, Email: "alice@example.com"}))
	assert.Equal(t, 900*time.Second, rdb.ttls["user:alice@example.com"])
}
