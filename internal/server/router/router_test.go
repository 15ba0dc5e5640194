package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mamadbah2/backoffice/internal/config"
	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/server/handlers"
	"github.com/mamadbah2/backoffice/internal/service/auth"
	"github.com/mamadbah2/backoffice/internal/service/catalog"
	"github.com/mamadbah2/backoffice/internal/service/reporting"
	"github.com/mamadbah2/backoffice/pkg/clients/backend"
)

type articleGateway struct {
	mu      sync.Mutex
	items   []models.Article
	nextID  int
	err     error
	entered chan struct{}
	release chan struct{}
}

func (g *articleGateway) List(context.Context) ([]models.Article, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return append([]models.Article(nil), g.items...), nil
}

func (g *articleGateway) Create(_ context.Context, a models.Article) (models.Article, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return models.Article{}, g.err
	}
	g.nextID++
	a.ID = models.ID(strconv.Itoa(g.nextID + 10))
	g.items = append(g.items, a)
	return a, nil
}

func (g *articleGateway) Update(_ context.Context, _ string, a models.Article) (models.Article, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
		<-g.release
	}
	return a, nil
}

func (g *articleGateway) Delete(context.Context, string) error {
	return models.NewError(models.KindNotFound, http.StatusNotFound, "Article not found", nil)
}

type clientGateway struct{}

func (clientGateway) List(context.Context) ([]models.Client, error) {
	return []models.Client{{ID: "1", LastName: "Alaoui", Email: "a@b.ma", Etat: "40"}}, nil
}
func (clientGateway) Create(_ context.Context, c models.Client) (models.Client, error) { return c, nil }
func (clientGateway) Update(_ context.Context, _ string, c models.Client) (models.Client, error) {
	return c, nil
}
func (clientGateway) Delete(context.Context, string) error { return nil }

type memoryStore struct {
	mu    sync.Mutex
	saved []models.InventorySnapshot
}

func (m *memoryStore) SaveSnapshot(_ context.Context, s models.InventorySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, s)
	return nil
}

func (m *memoryStore) ListSnapshots(context.Context, int) ([]models.InventorySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.InventorySnapshot(nil), m.saved...), nil
}

type testServer struct {
	engine   *gin.Engine
	articles *articleGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	articles := &articleGateway{items: []models.Article{
		{ID: "1", Reference: "ABC", Designation: "Stylo", StockSecurite: 5, PrixDAchatHT: 10, PrixDeVenteHT: 15, TVA: 20},
		{ID: "2", Reference: "DEF", Designation: "Cahier", StockSecurite: 2, PrixDAchatHT: 20, PrixDeVenteHT: 30, TVA: 20},
	}}
	cat := catalog.NewService(articles, clientGateway{}, logger)
	reports := reporting.NewService(cat, logger, reporting.WithStore(&memoryStore{}))

	engine := New(Handlers{
		Sessions: handlers.NewSessionHandler(auth.NewSessionManager(config.AuthConfig{}), false, logger),
		Records:  handlers.NewRecordHandler(cat, logger),
		Reports:  handlers.NewReportHandler(reports, logger),
	}, logger)

	return &testServer{engine: engine, articles: articles}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/login", "", gin.H{"email": "admin@shop.ma", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Kind    string            `json:"kind"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/articles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec).Kind)

	rec = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "admin@shop.ma"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := s.login(t)
	rec = s.do(http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/articles", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListArticles_FilterAndSort(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodGet, "/api/articles?sort=prixDeVenteHT&order=desc", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var articles []models.Article
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &articles))
	require.Len(t, articles, 2)
	assert.Equal(t, "DEF", articles[0].Reference)

	rec = s.do(http.MethodGet, "/api/articles?q=stylo", token, nil)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "ABC", articles[0].Reference)
}

func TestCreateArticle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodPost, "/api/articles", token, gin.H{
		"reference": "X", "designation": "Gomme", "stockSecurite": "3",
		"prixDAchatHT": "5", "prixDeVenteHT": "4", "tva": "20",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "validation", env.Kind)
	assert.Contains(t, env.Errors, "reference")
	assert.Contains(t, env.Errors, "prixDeVenteHT")

	rec = s.do(http.MethodGet, "/api/state", token, nil)
	assert.Contains(t, rec.Body.String(), "article:create")

	rec = s.do(http.MethodPost, "/api/articles", token, gin.H{
		"reference": "GOM01", "designation": "Gomme", "stockSecurite": 3,
		"prixDAchatHT": 5, "prixDeVenteHT": 8.5, "tva": 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Article
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	assert.Equal(t, models.ID("11"), created.ID)
	assert.Equal(t, models.Number(8.5), created.PrixDeVenteHT)

	rec = s.do(http.MethodGet, "/api/articles", token, nil)
	var articles []models.Article
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &articles))
	assert.Len(t, articles, 3)

	rec = s.do(http.MethodGet, "/api/state", token, nil)
	assert.NotContains(t, rec.Body.String(), "article:create")
}

func TestCreateArticle_DuplicateReference(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	s.articles.err = models.NewError(models.KindDuplicate, http.StatusConflict, "Article reference already exists", nil)

	rec := s.do(http.MethodPost, "/api/articles", token, gin.H{
		"reference": "ABC", "designation": "Stylo", "stockSecurite": "1",
		"prixDAchatHT": "1", "prixDeVenteHT": "2", "tva": "0",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Article reference already exists", env.Message)
}

func TestDeleteArticle_NotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodDelete, "/api/articles/99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", decode(t, rec).Message)
}

func TestUpdateArticle_SecondSubmitIsBusy(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	s.articles.entered = make(chan struct{})
	s.articles.release = make(chan struct{})

	body := gin.H{
		"reference": "ABC", "designation": "Stylo bleu", "stockSecurite": "5",
		"prixDAchatHT": "10", "prixDeVenteHT": "16", "tva": "20",
	}

	done := make(chan int)
	go func() {
		done <- s.do(http.MethodPut, "/api/articles/1", token, body).Code
	}()
	<-s.articles.entered

	rec := s.do(http.MethodPut, "/api/articles/1", token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "busy", decode(t, rec).Kind)

	close(s.articles.release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestValidateEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodPost, "/api/clients/validate", token, gin.H{"lastName": "A", "email": "bad"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		IsValid bool              `json:"isValid"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "email")
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodGet, "/api/articles/export.csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "articles.csv")
	assert.Contains(t, rec.Body.String(), `"ABC"`)

	rec = s.do(http.MethodGet, "/api/articles/export.csv?q=nothing-matches", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportSheets_NotConfigured(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodPost, "/api/articles/export/sheets", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateIntents(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodPost, "/api/state/menu", token, gin.H{"name": "user"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openMenu":"user"`)

	rec = s.do(http.MethodPost, "/api/state/select", token, gin.H{"item": "clients"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activeItem":"clients"`)
	assert.Contains(t, rec.Body.String(), `"openMenu":""`)

	rec = s.do(http.MethodPost, "/api/state/select", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsAndSuggestion(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodGet, "/api/articles/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.ArticleStatistics
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
	assert.Equal(t, 2, stats.TotalArticles)
	assert.Equal(t, 22.5, stats.AverageSellingPrice)

	rec = s.do(http.MethodGet, "/api/clients/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalEtat":40`)

	rec = s.do(http.MethodGet, "/api/articles/reference-suggestion?designation=Classeur", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `"reference":"CLA\d{4}"`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/articles/reference-suggestion", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshots(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodPost, "/api/reports/snapshots", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/reports/snapshots?limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshots []models.InventorySnapshot
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &snapshots))
	require.Len(t, snapshots, 1)
	assert.Equal(t, 2, snapshots[0].Articles.TotalArticles)

	rec = s.do(http.MethodGet, "/api/reports/snapshots?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBearerModeForwardsSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	seen := make(chan string, 1)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer api.Close()

	gw := backend.NewClient(config.BackendConfig{
		BaseURL: api.URL, ArticlesPath: "articles", ClientsPath: "clients",
		Timeout: 5 * time.Second, AuthMode: config.AuthModeBearer,
	}, logger)
	cat := catalog.NewService(gw.Articles(), gw.Clients(), logger)

	s := &testServer{engine: New(Handlers{
		Sessions: handlers.NewSessionHandler(auth.NewSessionManager(config.AuthConfig{}), true, logger),
		Records:  handlers.NewRecordHandler(cat, logger),
		Reports:  handlers.NewReportHandler(reporting.NewService(cat, logger), logger),
	}, logger)}
	token := s.login(t)

	rec := s.do(http.MethodGet, "/api/articles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer "+token, <-seen)
}

func TestBearerModeKeepsCatalogPerSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	var mu sync.Mutex
	owners := map[string]string{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ref := owners[r.Header.Get("Authorization")]
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if ref == "" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"reference":"` + ref + `","designation":"Stylo","stockSecurite":"1","prixDAchatHT":1,"prixDeVenteHT":2,"tva":20}]`))
	}))
	defer api.Close()

	gw := backend.NewClient(config.BackendConfig{
		BaseURL: api.URL, ArticlesPath: "articles", ClientsPath: "clients",
		Timeout: 5 * time.Second, AuthMode: config.AuthModeBearer,
	}, logger)
	sessions := auth.NewSessionManager(config.AuthConfig{})
	scopes := catalog.NewScopes(gw.Articles(), gw.Clients(), logger)
	sessions.OnClear(scopes.Release)

	s := &testServer{engine: New(Handlers{
		Sessions: handlers.NewSessionHandler(sessions, true, logger),
		Records:  handlers.NewRecordHandler(scopes, logger),
		Reports:  handlers.NewReportHandler(reporting.NewService(catalog.NewService(gw.Articles(), gw.Clients(), logger), logger), logger),
	}, logger)}

	alice, bob := s.login(t), s.login(t)
	mu.Lock()
	owners["Bearer "+alice] = "ALICE1"
	owners["Bearer "+bob] = "BOB1"
	mu.Unlock()

	rec := s.do(http.MethodGet, "/api/articles", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALICE1")

	rec = s.do(http.MethodGet, "/api/articles", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BOB1")
	assert.NotContains(t, rec.Body.String(), "ALICE1")

	rec = s.do(http.MethodGet, "/api/articles/1", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BOB1")

	assert.Equal(t, 2, scopes.Len())
	rec = s.do(http.MethodPost, "/api/logout", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, scopes.Len())
}

func TestArticleDetailAndStockCheck(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(http.MethodGet, "/api/articles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/articles/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stockSecurite":"5"`)

	rec = s.do(http.MethodGet, "/api/articles/404", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/articles/stock-check", token, map[string]int{"1": 0, "2": 9})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lowStockCount":1`)
	assert.Contains(t, rec.Body.String(), `"status":"out"`)

	rec = s.do(http.MethodGet, "/api/articles/low-stock", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/clients/search?q=alaoui", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alaoui")
}
