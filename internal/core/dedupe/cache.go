package dedupe

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is an in-process TTL cache of gateway message ids whose rows are
// already durable. It is the fast path for webhook redelivery; the unique
// index on mensagens.gateway_id remains the durable guard.
//
// Ids must only be marked after the message write succeeds. Marking on
// first sight would make a failed ingestion swallow the gateway's retry.
type Cache struct {
	seen *gocache.Cache
}

// New creates a cache that remembers ids for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		seen: gocache.New(ttl, 2*ttl),
	}
}

// Contains reports whether the id was marked. Read-only.
func (c *Cache) Contains(messageID string) bool {
	if messageID == "" {
		return false
	}
	_, found := c.seen.Get(messageID)
	return found
}

// Mark records the id as durably processed.
func (c *Cache) Mark(messageID string) {
	if messageID == "" {
		return
	}
	c.seen.SetDefault(messageID, struct{}{})
}
