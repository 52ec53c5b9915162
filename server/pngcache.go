// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package server

import (
	"container/list"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// pngCacheShards must be a power of 2.
	pngCacheShards = 8
	pngShardMask   = pngCacheShards - 1

	defaultPNGCacheCapacity = 32
)

// pngCache keeps the most recently encoded PNG of each canvas, tagged with
// the render count it was encoded at. A lookup with a different count
// misses, so a repaint invalidates the entry without any explicit call.
type pngCache struct {
	shards   [pngCacheShards]*pngCacheShard
	capacity int // per shard

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type pngCacheShard struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front is most recent
}

type pngCacheEntry struct {
	id     string
	render int
	data   []byte
}

// CacheStats reports image cache counters.
type CacheStats struct {
	Len       int    `json:"len"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

func newPNGCache(capacity int) *pngCache {
	if capacity <= 0 {
		capacity = defaultPNGCacheCapacity
	}
	c := &pngCache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &pngCacheShard{
			entries: make(map[string]*list.Element),
			lru:     list.New(),
		}
	}
	return c
}

func (c *pngCache) shard(id string) *pngCacheShard {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return c.shards[h.Sum64()&pngShardMask]
}

// get returns the PNG cached for id at render.
func (c *pngCache) get(id string, render int) ([]byte, bool) {
	s := c.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[id]
	if !ok || el.Value.(*pngCacheEntry).render != render {
		c.misses.Add(1)
		return nil, false
	}
	s.lru.MoveToFront(el)
	c.hits.Add(1)
	return el.Value.(*pngCacheEntry).data, true
}

// put stores data for id, replacing any older render. The slice is kept
// as-is and must not be modified afterwards.
func (c *pngCache) put(id string, render int, data []byte) {
	s := c.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[id]; ok {
		e := el.Value.(*pngCacheEntry)
		e.render, e.data = render, data
		s.lru.MoveToFront(el)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		delete(s.entries, oldest.Value.(*pngCacheEntry).id)
		c.evictions.Add(1)
	}
	s.entries[id] = s.lru.PushFront(&pngCacheEntry{id: id, render: render, data: data})
}

// remove drops id's entry.
func (c *pngCache) remove(id string) {
	s := c.shard(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[id]; ok {
		s.lru.Remove(el)
		delete(s.entries, id)
	}
}

func (c *pngCache) len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

func (c *pngCache) stats() CacheStats {
	return CacheStats{
		Len:       c.len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
