package permcache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/goAuthState/permission"
)

type entry struct {
	key        string
	mask       permission.Mask64
	insertedAt time.Time
	element    *list.Element
}

// Memory is an in-process LRU cache with a per-entry TTL.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	lru     *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	hits    uint64
	misses  uint64
}

// NewMemory returns a cache holding at most maxSize entries for ttl each.
// Non-positive values fall back to 1024 entries and five minutes.
func NewMemory(maxSize int, ttl time.Duration) *Memory {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Memory{
		entries: make(map[string]*entry),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key Key) (permission.Mask64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	e, ok := m.entries[k]
	if !ok || m.expired(e) {
		m.misses++
		if ok {
			m.remove(k)
		}
		return 0, false
	}

	m.lru.MoveToFront(e.element)
	m.hits++
	return e.mask, true
}

func (m *Memory) Set(_ context.Context, key Key, mask permission.Mask64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	if e, ok := m.entries[k]; ok {
		e.mask = mask
		e.insertedAt = m.now()
		m.lru.MoveToFront(e.element)
		return nil
	}

	if m.lru.Len() >= m.maxSize {
		if oldest := m.lru.Back(); oldest != nil {
			m.remove(oldest.Value.(string))
		}
	}

	e := &entry{key: k, mask: mask, insertedAt: m.now()}
	e.element = m.lru.PushFront(k)
	m.entries[k] = e
	return nil
}

// Invalidate drops a single entry.
func (m *Memory) Invalidate(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(key.String())
}

func (m *Memory) ClearAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*entry)
	m.lru.Init()
	return nil
}

// CleanupExpired removes expired entries and returns how many were dropped.
func (m *Memory) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if m.expired(e) {
			m.remove(k)
			removed++
		}
	}
	return removed
}

// StartCleanupWorker runs CleanupExpired every interval until ctx is done.
func (m *Memory) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CleanupExpired()
			}
		}
	}()
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Size:    m.lru.Len(),
		MaxSize: m.maxSize,
		Hits:    m.hits,
		Misses:  m.misses,
	}
	if total := m.hits + m.misses; total > 0 {
		s.HitRate = float64(m.hits) / float64(total)
	}
	return s
}

func (m *Memory) expired(e *entry) bool {
	return m.now().Sub(e.insertedAt) > m.ttl
}

func (m *Memory) remove(k string) {
	e, ok := m.entries[k]
	if !ok {
		return
	}
	m.lru.Remove(e.element)
	delete(m.entries, k)
}
