// Package cache provides the key/value store that backs sessions.
//
// Redis is used when REDIS_ADDR answers a ping; otherwise an in-process
// memory store takes over so the admin login keeps working on a laptop
// without Redis. Values are JSON-encoded either way.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kiko4ko1/magnetsbg-store/config"
)

var (
	rdb *redis.Client
	ctx = context.Background()

	mem = newMemoryStore()
)

// Connect initialises the Redis client and verifies it with a ping.
// On failure the memory fallback stays active; the returned error lets the
// caller log a warning.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	rdb = client
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a hit, false on miss or error.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return mem.get(key, dest)
	}

	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if rdb == nil {
		mem.set(key, data, ttl)
		return nil
	}

	return rdb.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if rdb == nil {
		mem.del(keys...)
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// ─── In-process fallback ─────────────────────────────────────────────────────

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]memoryEntry{}}
}

func (m *memoryStore) get(key string, dest interface{}) bool {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.del(key)
		return false
	}

	return json.Unmarshal(entry.data, dest) == nil
}

func (m *memoryStore) set(key string, data []byte, ttl time.Duration) {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
}

func (m *memoryStore) del(keys ...string) {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}
