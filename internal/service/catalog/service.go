// Package catalog serves the article and client collections to the admin UI.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/records"
)

// Query narrows and orders a listing.
type Query struct {
	Search  string
	SortBy  string
	Order   records.Direction
	Refresh bool
}

// Service exposes both collections.
type Service struct {
	Articles *Collection[models.Article]
	Clients  *Collection[models.Client]
	logger   *zap.Logger
}

// NewService wires the collections onto their gateways.
func NewService(articles Gateway[models.Article], clients Gateway[models.Client], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Articles: newCollection("articles", "Article", articles, records.BuildArticle,
			func(a models.Article, id models.ID) models.Article { a.ID = id; return a }, logger),
		Clients: newCollection("clients", "Client", clients, records.BuildClient,
			func(c models.Client, id models.ID) models.Client { c.ID = id; return c }, logger),
		logger: logger,
	}
}

// ListArticles filters, then sorts the cached articles.
func (s *Service) ListArticles(ctx context.Context, q Query) ([]models.Article, error) {
	articles, err := load(ctx, s.Articles, q.Refresh)
	if err != nil {
		return nil, err
	}
	articles = records.FilterArticles(articles, q.Search)
	if q.SortBy != "" {
		articles = records.SortArticles(articles, q.SortBy, q.Order)
	}
	return articles, nil
}

// ListClients filters, then sorts the cached clients.
func (s *Service) ListClients(ctx context.Context, q Query) ([]models.Client, error) {
	clients, err := load(ctx, s.Clients, q.Refresh)
	if err != nil {
		return nil, err
	}
	clients = records.FilterClients(clients, q.Search)
	if q.SortBy != "" {
		clients = records.SortClients(clients, q.SortBy, q.Order)
	}
	return clients, nil
}

// ArticleStats aggregates the cached articles.
func (s *Service) ArticleStats(ctx context.Context) (models.ArticleStatistics, error) {
	articles, err := s.Articles.Items(ctx)
	if err != nil {
		return models.ArticleStatistics{}, err
	}
	return records.Statistics(articles), nil
}

// ClientStats aggregates the cached clients.
func (s *Service) ClientStats(ctx context.Context) (models.ClientStatistics, error) {
	clients, err := s.Clients.Items(ctx)
	if err != nil {
		return models.ClientStatistics{}, err
	}
	return records.ClientStats(clients), nil
}

// ExportArticlesCSV renders the listing selected by q as CSV.
func (s *Service) ExportArticlesCSV(ctx context.Context, q Query) (string, error) {
	articles, err := s.ListArticles(ctx, q)
	if err != nil {
		return "", err
	}
	return records.ArticlesCSV(articles), nil
}

func load[T Record](ctx context.Context, c *Collection[T], refresh bool) ([]T, error) {
	if refresh {
		return c.Refresh(ctx)
	}
	return c.Items(ctx)
}
