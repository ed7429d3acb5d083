package ics

import (
	"sync"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/calendar"
	"github.com/Srimaan215/Roku-AI/internal/clock"
)

// feedCache holds parsed feeds keyed by URL. Entries expire purely by age.
type feedCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	clock    clock.Clock
	capacity int
	items    map[string]cacheItem
}

type cacheItem struct {
	events    []calendar.Event
	fetchedAt time.Time
}

func newFeedCache(ttl time.Duration, c clock.Clock, capacity int) *feedCache {
	return &feedCache{
		ttl:      ttl,
		clock:    c,
		capacity: capacity,
		items:    make(map[string]cacheItem),
	}
}

// get returns the cached events for url if they are younger than the TTL.
func (c *feedCache) get(url string) ([]calendar.Event, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[url]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(item.fetchedAt) >= c.ttl {
		delete(c.items, url)
		return nil, false
	}
	return item.events, true
}

func (c *feedCache) set(url string, events []calendar.Event) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[url] = cacheItem{events: events, fetchedAt: c.clock.Now()}
	if c.capacity > 0 && len(c.items) > c.capacity {
		c.evictOldest()
	}
}

func (c *feedCache) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		first     = true
	)
	for k, item := range c.items {
		if first || item.fetchedAt.Before(oldest) {
			oldestKey, oldest, first = k, item.fetchedAt, false
		}
	}
	delete(c.items, oldestKey)
}

func (c *feedCache) invalidate(url string) {
	c.mu.Lock()
	delete(c.items, url)
	c.mu.Unlock()
}
