// Package store keeps the emulator's resources in memory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no document has the given key.
	ErrNotFound = errors.New("document not found")
	// ErrExists is returned when creating a document whose key is taken.
	ErrExists = errors.New("document already exists")
	// ErrPreconditionFailed is returned when if-match does not match the
	// current etag.
	ErrPreconditionFailed = errors.New("etag does not match")
)

// Entry is a stored document with its key and etag.
type Entry struct {
	Key  string
	Doc  json.RawMessage
	ETag string
}

// Client allows for document crud operations. Collections are named by their
// expanded REST path.
type Client interface {
	Create(ctx context.Context, collection, key string, doc json.RawMessage) (Entry, error)
	Get(ctx context.Context, collection, key string) (Entry, error)
	List(ctx context.Context, collection string) ([]Entry, error)
	Update(ctx context.Context, collection, key, ifMatch string, mutate func(json.RawMessage) (json.RawMessage, error)) (Entry, error)
	Delete(ctx context.Context, collection, key, ifMatch string) error
	Health(ctx context.Context) error
}

// Verify interface implementations at compile time
var _ Client = (*MemoryClient)(nil)

type collection struct {
	order []string
	items map[string]Entry
}

// MemoryClient is a Client safe for concurrent use.
type MemoryClient struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{collections: map[string]*collection{}}
}

func newETag() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (m *MemoryClient) Health(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryClient) Create(_ context.Context, name, key string, doc json.RawMessage) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		c = &collection{items: map[string]Entry{}}
		m.collections[name] = c
	}
	if _, ok := c.items[key]; ok {
		return Entry{}, ErrExists
	}

	e := Entry{Key: key, Doc: doc, ETag: newETag()}
	c.items[key] = e
	c.order = append(c.order, key)
	return e, nil
}

func (m *MemoryClient) Get(_ context.Context, name, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e, ok := c.items[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// List returns the documents of a collection in creation order. An unknown
// collection is empty.
func (m *MemoryClient) List(_ context.Context, name string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := []Entry{}
	c, ok := m.collections[name]
	if !ok {
		return res, nil
	}
	for _, key := range c.order {
		res = append(res, c.items[key])
	}
	return res, nil
}

// Update replaces a document with the result of mutate. An empty ifMatch
// skips the etag check.
func (m *MemoryClient) Update(_ context.Context, name, key, ifMatch string, mutate func(json.RawMessage) (json.RawMessage, error)) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e, ok := c.items[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	if ifMatch != "" && ifMatch != e.ETag {
		return Entry{}, ErrPreconditionFailed
	}

	doc, err := mutate(e.Doc)
	if err != nil {
		return Entry{}, err
	}
	e = Entry{Key: key, Doc: doc, ETag: newETag()}
	c.items[key] = e
	return e, nil
}

// Delete removes a document. An empty ifMatch skips the etag check.
func (m *MemoryClient) Delete(_ context.Context, name, key, ifMatch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		return ErrNotFound
	}
	e, ok := c.items[key]
	if !ok {
		return ErrNotFound
	}
	if ifMatch != "" && ifMatch != e.ETag {
		return ErrPreconditionFailed
	}

	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
