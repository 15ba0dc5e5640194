package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/catalog"
	"github.com/mamadbah2/backoffice/internal/service/records"
)

// RecordHandler serves the article and client collections.
type RecordHandler struct {
	catalogs catalog.Source
	logger   *zap.Logger
}

// NewRecordHandler constructs the collection handler. Pass a *catalog.Service
// to share one cache, or a *catalog.Scopes to keep one per session.
func NewRecordHandler(catalogs catalog.Source, logger *zap.Logger) *RecordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordHandler{catalogs: catalogs, logger: logger}
}

func (h *RecordHandler) catalog(c *gin.Context) *catalog.Service {
	return h.catalogs.For(currentSession(c).Token)
}

func parseQuery(c *gin.Context) catalog.Query {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	return catalog.Query{
		Search:  c.Query("q"),
		SortBy:  c.Query("sort"),
		Order:   records.ParseDirection(c.Query("order")),
		Refresh: refresh,
	}
}

// submit runs a mutation under the form's in-flight guard.
func submit(c *gin.Context, form string, fn func() error) error {
	return currentSession(c).State.Submit(form, fn)
}

// ListArticles returns the filtered and sorted articles.
func (h *RecordHandler) ListArticles(c *gin.Context) {
	articles, err := h.catalog(c).ListArticles(c.Request.Context(), parseQuery(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, articles, "")
}

// CreateArticle validates and creates an article.
func (h *RecordHandler) CreateArticle(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	var created models.Article
	err := submit(c, "article:create", func() error {
		var err error
		created, err = h.catalog(c).Articles.Create(c.Request.Context(), fields)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, created, "Article created")
}

// UpdateArticle validates and replaces an article.
func (h *RecordHandler) UpdateArticle(c *gin.Context) {
	id := c.Param("id")
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	var updated models.Article
	err := submit(c, "article:edit:"+id, func() error {
		var err error
		updated, err = h.catalog(c).Articles.Update(c.Request.Context(), id, fields)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, updated, "Article updated")
}

// DeleteArticle removes an article.
func (h *RecordHandler) DeleteArticle(c *gin.Context) {
	id := c.Param("id")
	err := submit(c, "article:delete:"+id, func() error {
		return h.catalog(c).Articles.Delete(c.Request.Context(), id)
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, nil, "Article deleted")
}

// ValidateArticle reports every field error without touching the backend.
func (h *RecordHandler) ValidateArticle(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	res := records.ValidateArticle(fields)
	respondOK(c, http.StatusOK, gin.H{"isValid": res.Valid, "errors": res.Errors.Messages()}, "")
}

// ArticleStats aggregates the cached articles.
func (h *RecordHandler) ArticleStats(c *gin.Context) {
	stats, err := h.catalog(c).ArticleStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, stats, "")
}

// ExportArticlesCSV downloads the current listing as articles.csv.
func (h *RecordHandler) ExportArticlesCSV(c *gin.Context) {
	csv, err := h.catalog(c).ExportArticlesCSV(c.Request.Context(), parseQuery(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if csv == "" {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="articles.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// SuggestReference proposes a reference for a designation.
func (h *RecordHandler) SuggestReference(c *gin.Context) {
	designation := c.Query("designation")
	if designation == "" {
		respondError(c, h.logger, models.NewError(models.KindBadRequest, http.StatusBadRequest, "designation is required", nil))
		return
	}
	respondOK(c, http.StatusOK, gin.H{"reference": records.SuggestReference(designation)}, "")
}

// ListClients returns the filtered and sorted clients.
func (h *RecordHandler) ListClients(c *gin.Context) {
	clients, err := h.catalog(c).ListClients(c.Request.Context(), parseQuery(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, clients, "")
}

// CreateClient validates and creates a client.
func (h *RecordHandler) CreateClient(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	var created models.Client
	err := submit(c, "client:create", func() error {
		var err error
		created, err = h.catalog(c).Clients.Create(c.Request.Context(), fields)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, created, "Client created")
}

// UpdateClient validates and replaces a client.
func (h *RecordHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	var updated models.Client
	err := submit(c, "client:edit:"+id, func() error {
		var err error
		updated, err = h.catalog(c).Clients.Update(c.Request.Context(), id, fields)
		return err
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, updated, "Client updated")
}

// DeleteClient removes a client.
func (h *RecordHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")
	err := submit(c, "client:delete:"+id, func() error {
		return h.catalog(c).Clients.Delete(c.Request.Context(), id)
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, nil, "Client deleted")
}

// ValidateClient reports every field error without touching the backend.
func (h *RecordHandler) ValidateClient(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	res := records.ValidateClient(fields)
	respondOK(c, http.StatusOK, gin.H{"isValid": res.Valid, "errors": res.Errors.Messages()}, "")
}

// ClientStats aggregates the cached clients.
func (h *RecordHandler) ClientStats(c *gin.Context) {
	stats, err := h.catalog(c).ClientStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, stats, "")
}

type recordView struct {
	Record any           `json:"record"`
	Fields models.Fields `json:"fields"`
}

// GetArticle returns one article along with its edit-form fields.
func (h *RecordHandler) GetArticle(c *gin.Context) {
	article, err := h.catalog(c).Articles.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, recordView{Record: article, Fields: models.ArticleFields(article)}, "")
}

// SearchArticles runs a search on the backend.
func (h *RecordHandler) SearchArticles(c *gin.Context) {
	articles, err := h.catalog(c).SearchArticles(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, articles, "")
}

// LowStockArticles lists the articles the backend reports under threshold.
func (h *RecordHandler) LowStockArticles(c *gin.Context) {
	articles, err := h.catalog(c).LowStockArticles(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, articles, "")
}

// StockCheck compares counted quantities, keyed by article id, with thresholds.
func (h *RecordHandler) StockCheck(c *gin.Context) {
	var onHand map[string]int
	if err := c.ShouldBindJSON(&onHand); err != nil {
		respondError(c, h.logger, errInvalidBody)
		return
	}

	report, err := h.catalog(c).StockCheck(c.Request.Context(), onHand)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, report, "")
}

// GetClient returns one client along with its edit-form fields.
func (h *RecordHandler) GetClient(c *gin.Context) {
	client, err := h.catalog(c).Clients.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, recordView{Record: client, Fields: models.ClientFields(client)}, "")
}

// SearchClients runs a search on the backend.
func (h *RecordHandler) SearchClients(c *gin.Context) {
	clients, err := h.catalog(c).SearchClients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, clients, "")
}
