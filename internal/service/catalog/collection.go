package catalog

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// Gateway is the subset of the record gateway a collection needs.
type Gateway[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Record is anything with a server identifier.
type Record interface {
	Key() string
}

// Collection caches the server's records of one type. The cache only
// changes after the gateway confirms a mutation.
type Collection[T Record] struct {
	name     string
	gateway  Gateway[T]
	build    func(models.Fields) (T, error)
	withID   func(T, models.ID) T
	notFound *models.Error
	logger   *zap.Logger

	mu     sync.RWMutex
	items  []T
	loaded bool
}

func newCollection[T Record](name, label string, gateway Gateway[T], build func(models.Fields) (T, error), withID func(T, models.ID) T, logger *zap.Logger) *Collection[T] {
	return &Collection[T]{
		name:     name,
		gateway:  gateway,
		build:    build,
		withID:   withID,
		notFound: models.NewError(models.KindNotFound, http.StatusNotFound, label+" not found", nil),
		logger:   logger,
	}
}

// Refresh reloads the collection from the server. On failure the previous
// cache is kept.
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	items, err := c.gateway.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = slices.Clone(items)
	c.loaded = true
	c.mu.Unlock()

	c.logger.Debug("collection refreshed", zap.String("collection", c.name), zap.Int("count", len(items)))
	return items, nil
}

// Items returns the cached records, loading them on first use.
func (c *Collection[T]) Items(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	loaded := c.loaded
	items := slices.Clone(c.items)
	c.mu.RUnlock()

	if !loaded {
		return c.Refresh(ctx)
	}
	return items, nil
}

// Find looks a record up in the cache.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Create validates the form fields locally, then creates the record. A
// backend reply without a record id is rejected and nothing is cached.
func (c *Collection[T]) Create(ctx context.Context, fields models.Fields) (T, error) {
	var zero T
	record, err := c.build(fields)
	if err != nil {
		return zero, err
	}

	created, err := c.gateway.Create(ctx, record)
	if err != nil {
		return zero, err
	}
	if created.Key() == "" {
		c.logger.Warn("create response carried no record id", zap.String("collection", c.name))
		return zero, models.NewError(models.KindServer, http.StatusBadGateway, "Unexpected response from server", nil)
	}

	c.mu.Lock()
	c.items = append(c.items, created)
	c.mu.Unlock()

	c.logger.Info("record created", zap.String("collection", c.name), zap.String("id", created.Key()))
	return created, nil
}

// Update validates and replaces the record stored under id. A record that
// vanished from the cache meanwhile is left out rather than re-added.
func (c *Collection[T]) Update(ctx context.Context, id string, fields models.Fields) (T, error) {
	var zero T
	record, err := c.build(fields)
	if err != nil {
		return zero, err
	}
	record = c.withID(record, models.ID(id))

	updated, err := c.gateway.Update(ctx, id, record)
	if err != nil {
		return zero, err
	}
	if updated.Key() == "" {
		updated = record
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = updated
	}
	c.mu.Unlock()

	c.logger.Info("record updated", zap.String("collection", c.name), zap.String("id", id))
	return updated, nil
}

// Delete removes the record on the server, then from the cache.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.gateway.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
	c.mu.Unlock()

	c.logger.Info("record deleted", zap.String("collection", c.name), zap.String("id", id))
	return nil
}

// indexOf must be called with mu held.
func (c *Collection[T]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.Key() == id })
}
