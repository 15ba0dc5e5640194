package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/records"
)

type backendGateway struct {
	*fakeGateway[models.Article]
	searched string
}

func (g *backendGateway) Get(_ context.Context, id string) (models.Article, error) {
	if id == "77" {
		return models.Article{ID: "77", Reference: "REMOTE"}, nil
	}
	return models.Article{}, models.ErrNotFound
}

func (g *backendGateway) Search(_ context.Context, q string) ([]models.Article, error) {
	g.searched = q
	return []models.Article{{ID: "9", Reference: "HIT"}}, nil
}

func (g *backendGateway) LowStock(context.Context) ([]models.Article, error) {
	return []models.Article{{ID: "2", Reference: "CD34"}}, nil
}

func TestLookup(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.ListArticles(ctx, Query{})
	require.NoError(t, err)

	a, err := svc.Articles.Lookup(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "AB12", a.Reference)

	_, err = svc.Articles.Lookup(ctx, "404")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.EqualError(t, err, "Article not found")

	remote := NewService(&backendGateway{fakeGateway: newArticleGateway()}, newClientGateway(), zaptest.NewLogger(t))
	a, err = remote.Articles.Lookup(ctx, "77")
	require.NoError(t, err)
	assert.Equal(t, "REMOTE", a.Reference)
}

func TestSearchAndLowStock(t *testing.T) {
	ctx := context.Background()

	local, _, _ := newTestService(t)
	found, err := local.SearchArticles(ctx, "gadget")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CD34", found[0].Reference)

	_, err = local.LowStockArticles(ctx)
	assert.ErrorIs(t, err, models.ErrBadRequest)

	gw := &backendGateway{fakeGateway: newArticleGateway()}
	remote := NewService(gw, newClientGateway(), zaptest.NewLogger(t))

	found, err = remote.SearchArticles(ctx, "hit")
	require.NoError(t, err)
	assert.Equal(t, "hit", gw.searched)
	assert.Equal(t, "HIT", found[0].Reference)

	low, err := remote.LowStockArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CD34", low[0].Reference)

	clients, err := remote.SearchClients(ctx, "john")
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestStockCheck(t *testing.T) {
	svc, _, _ := newTestService(t)

	report, err := svc.StockCheck(context.Background(), map[string]int{"1": 12, "2": 0})
	require.NoError(t, err)

	assert.Equal(t, records.StockGood, report.Levels["1"].Status)
	assert.Equal(t, records.StockOut, report.Levels["2"].Status)
	assert.Equal(t, 1, report.Statistics.LowStockCount)
	assert.Equal(t, 2, report.Statistics.TotalArticles)

	report, err = svc.StockCheck(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, records.StockUnknown, report.Levels["1"].Status)
	assert.Equal(t, 2, report.Statistics.LowStockCount)
}
