package cache

import (
	"hash/fnv"
	"sync"
	"time"

	"comanda/internal/models"
)

type shard struct {
	mu   sync.RWMutex
	data map[string]entry
}

// ShardedCache splits the phone keyspace across independently locked shards.
// Useful when several terminals hammer the customer lookup at once.
type ShardedCache struct {
	shards []shard
	ttl    time.Duration
	now    func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
}

type ShardedOption func(*ShardedCache)

func WithShards(n int) ShardedOption {
	return func(c *ShardedCache) {
		if n <= 0 {
			n = 16
		}
		c.shards = make([]shard, n)
		for i := range c.shards {
			c.shards[i] = shard{data: make(map[string]entry)}
		}
	}
}

func WithShardTTL(ttl time.Duration) ShardedOption { return func(c *ShardedCache) { c.ttl = ttl } }

func NewShardedCache(opts ...ShardedOption) *ShardedCache {
	c := &ShardedCache{now: time.Now, stop: make(chan struct{})}
	WithShards(16)(c) // default 16
	for _, o := range opts {
		o(c)
	}
	if c.ttl > 0 {
		c.ticker = time.NewTicker(c.ttl / 2)
		go func() {
			for {
				select {
				case <-c.ticker.C:
					c.purge()
				case <-c.stop:
					return
				}
			}
		}()
	}
	return c
}

func (c *ShardedCache) Close() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.stop)
}

func (c *ShardedCache) shardFor(phone string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	idx := int(h.Sum32() % uint32(len(c.shards)))
	return &c.shards[idx]
}

func (c *ShardedCache) Put(phone string, customer models.Customer) {
	s := c.shardFor(phone)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{customer: customer}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	s.data[phone] = e
}

func (c *ShardedCache) Get(phone string) (models.Customer, bool) {
	s := c.shardFor(phone)
	s.mu.RLock()
	e, ok := s.data[phone]
	s.mu.RUnlock()
	if !ok {
		return models.Customer{}, false
	}
	if e.expired(c.now()) {
		// Lazy delete; re-check under the write lock in case a fresh Put
		// landed between the two lock acquisitions.
		s.mu.Lock()
		if cur, ok := s.data[phone]; ok && cur.expires == e.expires {
			delete(s.data, phone)
		}
		s.mu.Unlock()
		return models.Customer{}, false
	}
	return e.customer, true
}

func (c *ShardedCache) Delete(phone string) {
	s := c.shardFor(phone)
	s.mu.Lock()
	delete(s.data, phone)
	s.mu.Unlock()
}

func (c *ShardedCache) Snapshot() map[string]models.Customer {
	out := make(map[string]models.Customer)
	now := c.now()
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		for phone, e := range s.data {
			if !e.expired(now) {
				out[phone] = e.customer
			}
		}
		s.mu.RUnlock()
	}
	return out
}

func (c *ShardedCache) purge() {
	now := c.now()
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for phone, e := range s.data {
			if e.expired(now) {
				delete(s.data, phone)
			}
		}
		s.mu.Unlock()
	}
}
