package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/records"
)

// Optional gateway capabilities.
type getter[T any] interface {
	Get(ctx context.Context, id string) (T, error)
}

type searcher[T any] interface {
	Search(ctx context.Context, query string) ([]T, error)
}

type lowStocker interface {
	LowStock(ctx context.Context) ([]models.Article, error)
}

var errLowStockUnsupported = models.NewError(models.KindBadRequest, http.StatusBadRequest, "Low-stock listing is not supported by the backend", nil)

// Lookup returns the cached record, asking the gateway when it is not cached.
func (c *Collection[T]) Lookup(ctx context.Context, id string) (T, error) {
	if item, ok := c.Find(id); ok {
		return item, nil
	}
	if g, ok := c.gateway.(getter[T]); ok {
		return g.Get(ctx, id)
	}
	var zero T
	return zero, c.notFound
}

// SearchArticles runs the search on the backend when it supports one and
// on the cache otherwise.
func (s *Service) SearchArticles(ctx context.Context, query string) ([]models.Article, error) {
	if g, ok := s.Articles.gateway.(searcher[models.Article]); ok && query != "" {
		return g.Search(ctx, query)
	}
	return s.ListArticles(ctx, Query{Search: query})
}

// SearchClients is SearchArticles for clients.
func (s *Service) SearchClients(ctx context.Context, query string) ([]models.Client, error) {
	if g, ok := s.Clients.gateway.(searcher[models.Client]); ok && query != "" {
		return g.Search(ctx, query)
	}
	return s.ListClients(ctx, Query{Search: query})
}

// LowStockArticles asks the backend which articles are under their threshold.
func (s *Service) LowStockArticles(ctx context.Context) ([]models.Article, error) {
	g, ok := s.Articles.gateway.(lowStocker)
	if !ok {
		return nil, errLowStockUnsupported
	}
	return g.LowStock(ctx)
}

// StockReport compares counted quantities with each article's threshold.
type StockReport struct {
	Statistics models.ArticleStatistics      `json:"statistics"`
	Levels     map[string]records.StockLevel `json:"levels"`
}

// StockCheck evaluates on-hand quantities, keyed by article id, against the
// cached articles. Articles without a count are reported as unknown.
func (s *Service) StockCheck(ctx context.Context, onHand map[string]int) (StockReport, error) {
	articles, err := s.Articles.Items(ctx)
	if err != nil {
		return StockReport{}, err
	}

	levels := make(map[string]records.StockLevel, len(articles))
	for _, a := range articles {
		current := ""
		if qty, ok := onHand[a.Key()]; ok {
			current = strconv.Itoa(qty)
		}
		levels[a.Key()] = records.StockStatus(current, strconv.Itoa(a.StockSecurite.Int()))
	}

	return StockReport{
		Statistics: records.StatisticsWithStock(articles, onHand),
		Levels:     levels,
	}, nil
}
