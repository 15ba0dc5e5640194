package backend

import (
	"context"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// Resource exposes CRUD over one REST collection.
type Resource[T any] struct {
	client *Client
	path   string
	entity entity
}

func newResource[T any](c *Client, path string, e entity) *Resource[T] {
	return &Resource[T]{client: c, path: path, entity: e}
}

func (r *Resource[T]) itemPath() string { return r.path + "/{id}" }

// List fetches the whole collection. An empty body yields an empty slice.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.list(ctx, "fetch", r.path, nil)
}

// Search asks the backend for records matching the query.
func (r *Resource[T]) Search(ctx context.Context, query string) ([]T, error) {
	return r.list(ctx, "search", r.path+"/search", map[string]string{"q": query})
}

func (r *Resource[T]) list(ctx context.Context, op, path string, query map[string]string) ([]T, error) {
	var out []T
	apiErr := new(errorBody)

	resp, err := r.client.request(ctx, apiErr).
		SetQueryParams(query).
		SetResult(&out).
		Get(path)
	if err := r.client.classify(r.entity, op, resp, err, apiErr); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get fetches a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	apiErr := new(errorBody)

	resp, err := r.client.request(ctx, apiErr).
		SetPathParam("id", id).
		SetResult(&out).
		Get(r.itemPath())
	if err := r.client.classify(r.entity, "fetch", resp, err, apiErr); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Create posts a new record and returns it with its server id.
func (r *Resource[T]) Create(ctx context.Context, record T) (T, error) {
	var out T
	apiErr := new(errorBody)

	resp, err := r.client.request(ctx, apiErr).
		SetBody(record).
		SetResult(&out).
		Post(r.path)
	if err := r.client.classify(r.entity, "create", resp, err, apiErr); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update replaces the record stored under id.
func (r *Resource[T]) Update(ctx context.Context, id string, record T) (T, error) {
	var out T
	apiErr := new(errorBody)

	resp, err := r.client.request(ctx, apiErr).
		SetPathParam("id", id).
		SetBody(record).
		SetResult(&out).
		Put(r.itemPath())
	if err := r.client.classify(r.entity, "update", resp, err, apiErr); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Delete removes the record stored under id.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	apiErr := new(errorBody)

	resp, err := r.client.request(ctx, apiErr).
		SetPathParam("id", id).
		Delete(r.itemPath())
	return r.client.classify(r.entity, "delete", resp, err, apiErr)
}

// ArticleResource adds the article-only endpoints.
type ArticleResource struct {
	*Resource[models.Article]
}

// LowStock fetches the articles the backend flags as under their threshold.
func (r *ArticleResource) LowStock(ctx context.Context) ([]models.Article, error) {
	return r.list(ctx, "fetch low stock", r.path+"/low-stock", nil)
}
