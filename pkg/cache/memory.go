package cache

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time // zero means never
	key       string
	hits      []Hit
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process LRU cache with per-entry expiry.
// The most recently used entries sit at the front of the list.
type Memory struct {
	items  map[string]*list.Element
	lru    *list.List
	opts   *memoryOptions
	done   chan struct{}
	stats  Stats
	mu     sync.Mutex
	closed bool
}

// Stats counts cache lookups.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
}

// NewMemory creates an in-memory cache.
//
//	c := cache.NewMemory(
//		cache.WithTTL(10*time.Minute),
//		cache.WithMaxEntries(1000),
//	)
//	defer c.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := &memoryOptions{
		ttl:             DefaultTTL,
		cleanupInterval: time.Minute,
		maxEntries:      DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]*list.Element),
		lru:   list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

// Get returns a copy of the hits stored for key and marks the entry as recently used.
func (m *Memory) Get(_ context.Context, key Key) ([]Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	elem, ok := m.items[key.String()]
	if !ok {
		m.stats.Misses++
		return nil, ErrNotFound
	}
	e := elem.Value.(*entry)
	if e.expired(time.Now()) {
		m.remove(elem)
		m.stats.Misses++
		return nil, ErrNotFound
	}

	m.lru.MoveToFront(elem)
	m.stats.Hits++
	return slices.Clone(e.hits), nil
}

// Set stores hits under key, evicting the least recently used entry when full.
func (m *Memory) Set(_ context.Context, key Key, hits []Hit, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.ttl
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	k := key.String()
	if elem, ok := m.items[k]; ok {
		e := elem.Value.(*entry)
		e.hits = slices.Clone(hits)
		e.expiresAt = expiresAt
		m.lru.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if back := m.lru.Back(); back != nil {
			m.remove(back)
			m.stats.Evictions++
		}
	}

	m.items[k] = m.lru.PushFront(&entry{key: k, hits: slices.Clone(hits), expiresAt: expiresAt})
	return nil
}

// Clear drops every entry.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items = make(map[string]*list.Element)
	m.lru.Init()
	return nil
}

// Stats returns lookup counters and the current entry count.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Entries = len(m.items)
	return s
}

// Close stops the janitor. It is safe to call more than once.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.deleteExpired(now)
		}
	}
}

func (m *Memory) deleteExpired(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove expects m.mu to be held.
func (m *Memory) remove(elem *list.Element) {
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*entry).key)
}

var _ Cache = (*Memory)(nil)
