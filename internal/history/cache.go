// Package history keeps the bounded list of recently touched documents.
package history

import (
	"context"
	"fmt"
	"sync"

	"idreview/internal/domain"
	"idreview/internal/port"
)

// DefaultLimit is the number of documents kept when no limit is configured.
const DefaultLimit = 5

// Loader receives a document chosen from history.
type Loader interface {
	LoadFromHistory(doc *domain.Document)
}

// Cache holds the most recent documents in server order. It is only replaced wholesale.
type Cache struct {
	gateway port.RemoteGateway
	limit   int

	mu      sync.RWMutex
	entries []domain.Document
}

// NewCache creates an empty cache backed by gateway.
func NewCache(gateway port.RemoteGateway, limit int) *Cache {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Cache{gateway: gateway, limit: limit, entries: []domain.Document{}}
}

// Limit returns the configured list size.
func (c *Cache) Limit() int {
	return c.limit
}

// Refresh fetches the list from the gateway and replaces the cache.
// On error the previous list is kept.
func (c *Cache) Refresh(ctx context.Context) ([]domain.Document, error) {
	docs, err := c.gateway.List(ctx, c.limit)
	if err != nil {
		return nil, fmt.Errorf("refreshing history: %w", err)
	}
	if len(docs) > c.limit {
		docs = docs[:c.limit]
	}
	fresh := make([]domain.Document, len(docs))
	for i := range docs {
		fresh[i] = *docs[i].Clone()
	}

	c.mu.Lock()
	c.entries = fresh
	c.mu.Unlock()

	return c.Entries(), nil
}

// Entries returns a copy of the cached list.
func (c *Cache) Entries() []domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Document, len(c.entries))
	for i := range c.entries {
		out[i] = *c.entries[i].Clone()
	}
	return out
}

// Find returns a copy of the cached document with id.
func (c *Cache) Find(id int64) (*domain.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.entries {
		if c.entries[i].ID == id {
			return c.entries[i].Clone(), true
		}
	}
	return nil, false
}

// Select hands the cached document with id to loader.
func (c *Cache) Select(id int64, loader Loader) (*domain.Document, error) {
	doc, ok := c.Find(id)
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	loader.LoadFromHistory(doc)
	return doc, nil
}
