// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/poiesic/cinerag/core"
)

const (
	defaultL1Size = 1024
	defaultL1TTL  = 30 * time.Minute
	defaultL2TTL  = 24 * time.Hour
)

// Stats aggregates cache effectiveness counters.
type Stats struct {
	L1Hits     uint64
	L2Hits     uint64
	Misses     uint64
	Puts       uint64
	L2Failures uint64
	L1Entries  int
}

// HitRate returns the fraction of gets served from either tier.
func (s Stats) HitRate() float64 {
	total := s.L1Hits + s.L2Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.L1Hits+s.L2Hits) / float64(total)
}

// entryMeta tracks per-entry access bookkeeping.
type entryMeta struct {
	Hits       uint64
	LastAccess time.Time
}

// Manager is the two-tier result cache. L1 is a bounded in-process
// LRU with a per-entry max age; L2 is an optional shared store with
// its own TTL, consulted only on L1 miss.
//
// L2 failures never fail a request: the manager logs and degrades to
// L1-only behavior until the store recovers.
type Manager struct {
	l1    *expirable.LRU[string, *core.RankedResult]
	l2    SharedStore
	l1TTL time.Duration
	l2TTL time.Duration

	mu    sync.Mutex
	meta  map[string]*entryMeta
	stats Stats

	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithL1 sets the in-process tier's entry bound and max age.
func WithL1(size int, ttl time.Duration) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = defaultL1Size
		}
		if ttl <= 0 {
			ttl = defaultL1TTL
		}
		m.l1 = expirable.NewLRU[string, *core.RankedResult](size, m.onEvict, ttl)
		m.l1TTL = ttl
		return nil
	}
}

// WithShared attaches an L2 shared store with the given entry TTL.
// Without this option the manager runs single-tier.
func WithShared(store SharedStore, ttl time.Duration) Option {
	return func(m *Manager) error {
		if ttl <= 0 {
			ttl = defaultL2TTL
		}
		m.l2 = store
		m.l2TTL = ttl
		return nil
	}
}

// NewManager creates a cache manager with a default-sized L1 tier.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		l1TTL:  defaultL1TTL,
		l2TTL:  defaultL2TTL,
		meta:   make(map[string]*entryMeta),
		logger: slog.Default().With("component", "cache"),
	}
	m.l1 = expirable.NewLRU[string, *core.RankedResult](defaultL1Size, m.onEvict, defaultL1TTL)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Get looks a key up through both tiers.
//
// Read path: L1, then L2 on miss. An L2 hit is promoted into L1. The
// returned status tells the caller which tier answered; on
// CacheMiss the result is nil and the caller is expected to run
// retrieval and Put.
func (m *Manager) Get(key string) (*core.RankedResult, core.CacheStatus) {
	if result, ok := m.l1.Get(key); ok {
		m.recordHit(key, true)
		return result, core.CacheHitL1
	}

	if m.l2 != nil {
		data, err := m.l2.Get(key)
		switch {
		case err == nil:
			result, _, err := core.RankedResultMUS.Unmarshal(data)
			if err != nil {
				m.logger.Warn("dropping undecodable shared cache entry", "key", key, "err", err)
				if delErr := m.l2.Delete(key); delErr != nil {
					m.logger.Warn("failed to drop shared cache entry", "key", key, "err", delErr)
				}
				break
			}
			// Promote to L1
			m.l1.Add(key, &result)
			m.recordHit(key, false)
			return &result, core.CacheHitL2
		case errors.Is(err, ErrMiss):
			// fall through to miss
		default:
			// A failing shared store reads as a miss
			m.l2Failure("get", key, err)
		}
	}

	m.mu.Lock()
	m.stats.Misses++
	m.mu.Unlock()
	return nil, core.CacheMiss
}

// Put writes a result through both tiers. The L2 write is best-effort.
func (m *Manager) Put(key string, result *core.RankedResult) {
	m.l1.Add(key, result)

	m.mu.Lock()
	m.stats.Puts++
	m.meta[key] = &entryMeta{LastAccess: time.Now()}
	m.mu.Unlock()

	if m.l2 == nil {
		return
	}

	buf := make([]byte, core.RankedResultMUS.Size(*result))
	core.RankedResultMUS.Marshal(*result, buf)
	if err := m.l2.Put(key, buf, m.l2TTL); err != nil {
		m.l2Failure("put", key, err)
	}
}

// Invalidate removes every entry whose cached result matches the
// predicate, in both tiers. After it returns, no matching entry is
// reachable through Get.
func (m *Manager) Invalidate(predicate func(key string, result *core.RankedResult) bool) {
	for _, key := range m.l1.Keys() {
		if result, ok := m.l1.Peek(key); ok && predicate(key, result) {
			m.l1.Remove(key)
			m.dropMeta(key)
		}
	}

	if m.l2 == nil {
		return
	}

	keys, err := m.l2.Keys()
	if err != nil {
		m.l2Failure("scan", "", err)
		return
	}
	for _, key := range keys {
		data, err := m.l2.Get(key)
		if err != nil {
			continue
		}
		result, _, err := core.RankedResultMUS.Unmarshal(data)
		if err != nil || predicate(key, &result) {
			if delErr := m.l2.Delete(key); delErr != nil {
				m.l2Failure("delete", key, delErr)
			}
			m.dropMeta(key)
		}
	}
}

// InvalidateItem removes every cached result that references the
// given catalog item. Used when catalog data changes.
func (m *Manager) InvalidateItem(id core.ID) {
	m.Invalidate(func(_ string, result *core.RankedResult) bool {
		for _, item := range result.Items {
			if item.Id == id {
				return true
			}
		}
		return false
	})
}

// Purge clears both tiers.
func (m *Manager) Purge() {
	m.l1.Purge()

	m.mu.Lock()
	m.meta = make(map[string]*entryMeta)
	m.mu.Unlock()

	if m.l2 == nil {
		return
	}
	keys, err := m.l2.Keys()
	if err != nil {
		m.l2Failure("scan", "", err)
		return
	}
	for _, key := range keys {
		if err := m.l2.Delete(key); err != nil {
			m.l2Failure("delete", key, err)
		}
	}
}

// Stats returns a snapshot of the cache counters.
func (m *Manager) Stats() Stats {
	// Read the L1 length before taking m.mu: the LRU runs the evict
	// callback under its own lock, and that callback takes m.mu.
	entries := m.l1.Len()

	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.stats
	snapshot.L1Entries = entries
	return snapshot
}

// EntryMeta returns per-entry hit count and last access time.
func (m *Manager) EntryMeta(key string) (hits uint64, lastAccess time.Time, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.meta[key]
	if !ok {
		return 0, time.Time{}, false
	}
	return meta.Hits, meta.LastAccess, true
}

// Close releases the shared tier, if any.
func (m *Manager) Close() error {
	if m.l2 != nil {
		return m.l2.Close()
	}
	return nil
}

func (m *Manager) recordHit(key string, l1 bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l1 {
		m.stats.L1Hits++
	} else {
		m.stats.L2Hits++
	}
	meta, ok := m.meta[key]
	if !ok {
		meta = &entryMeta{}
		m.meta[key] = meta
	}
	meta.Hits++
	meta.LastAccess = time.Now()
}

// onEvict keeps the meta map in step with L1 capacity and TTL
// evictions. A later L2 hit recreates the entry's bookkeeping.
func (m *Manager) onEvict(key string, _ *core.RankedResult) {
	m.dropMeta(key)
}

func (m *Manager) dropMeta(key string) {
	m.mu.Lock()
	delete(m.meta, key)
	m.mu.Unlock()
}

func (m *Manager) l2Failure(op, key string, err error) {
	m.mu.Lock()
	m.stats.L2Failures++
	m.mu.Unlock()
	m.logger.Warn("shared cache tier unavailable", "op", op, "key", key, "err", err)
}
