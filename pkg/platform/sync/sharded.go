// Package sync holds the per-entity locking used by the in-memory store.
package sync

import (
	"hash/fnv"
	"sync"
)

// DefaultShards is the shard count used when NewShardedMutex gets n <= 0.
const DefaultShards = 32

// ShardedMutex serializes work per entity key (credential id, session id)
// without a store-wide lock. Distinct keys may share a shard, so a holder
// must never take a second key while holding one.
type ShardedMutex struct {
	shards []sync.Mutex
}

// NewShardedMutex creates a ShardedMutex with n shards.
func NewShardedMutex(n int) *ShardedMutex {
	if n <= 0 {
		n = DefaultShards
	}
	return &ShardedMutex{shards: make([]sync.Mutex, n)}
}

func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// WithLock runs fn while holding key's shard.
func (m *ShardedMutex) WithLock(key string, fn func() error) error {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}

// shardFor maps key to a shard. The empty key uses shard 0.
func (m *ShardedMutex) shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
