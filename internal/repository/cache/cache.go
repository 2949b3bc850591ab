package cache

import (
	"sync"
	"time"

	"comanda/internal/models"
)

// Store keeps recent customer snapshots keyed by phone number so order entry
// can prefill name and address.
type Store interface {
	Put(phone string, c models.Customer)
	Get(phone string) (models.Customer, bool)
	Delete(phone string)
	Snapshot() map[string]models.Customer
}

type entry struct {
	customer models.Customer
	expires  time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Cache is the single-map store. Fine for one register's worth of traffic;
// ShardedCache spreads hot phone ranges across locks.
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry

	ttl       time.Duration
	noJanitor bool
	ticker    *time.Ticker
	stop      chan struct{}
	now       func() time.Time
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option { return func(c *Cache) { c.ttl = ttl } }

// WithNoJanitor disables the background sweep; expired entries are still
// dropped lazily on Get and filtered from Snapshot.
func WithNoJanitor() Option { return func(c *Cache) { c.noJanitor = true } }

func NewCache(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]entry),
		ttl:  0,
		stop: make(chan struct{}),
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}

	if c.ttl > 0 && !c.noJanitor {
		c.ticker = time.NewTicker(c.ttl / 2)
		go func() {
			for {
				select {
				case <-c.ticker.C:
					c.purgeExpired()
				case <-c.stop:
					return
				}
			}
		}()
	}
	return c
}

func (c *Cache) Close() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.stop)
}

func (c *Cache) Put(phone string, customer models.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{customer: customer}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.data[phone] = e
}

func (c *Cache) Get(phone string) (models.Customer, bool) {
	c.mu.RLock()
	e, ok := c.data[phone]
	c.mu.RUnlock()
	if !ok {
		return models.Customer{}, false
	}
	if e.expired(c.now()) {
		c.Delete(phone)
		return models.Customer{}, false
	}
	return e.customer, true
}

func (c *Cache) Delete(phone string) {
	c.mu.Lock()
	delete(c.data, phone)
	c.mu.Unlock()
}

func (c *Cache) purgeExpired() {
	now := c.now()
	c.mu.Lock()
	for phone, e := range c.data {
		if e.expired(now) {
			delete(c.data, phone)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) Snapshot() map[string]models.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.Customer, len(c.data))
	now := c.now()

	for phone, e := range c.data {
		if e.expired(now) {
			continue
		}
		out[phone] = e.customer
	}
	return out
}
