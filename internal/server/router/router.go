package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/server/handlers"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Sessions *handlers.SessionHandler
	Records  *handlers.RecordHandler
	Reports  *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/login", h.Sessions.Login)
	api.POST("/logout", h.Sessions.Logout)

	secured := api.Group("")
	secured.Use(h.Sessions.RequireSession())

	secured.GET("/state", h.Sessions.State)
	secured.POST("/state/menu", h.Sessions.Menu)
	secured.POST("/state/select", h.Sessions.Select)

	articles := secured.Group("/articles")
	articles.GET("", h.Records.ListArticles)
	articles.POST("", h.Records.CreateArticle)
	articles.POST("/validate", h.Records.ValidateArticle)
	articles.GET("/stats", h.Records.ArticleStats)
	articles.GET("/export.csv", h.Records.ExportArticlesCSV)
	articles.POST("/export/sheets", h.Reports.ExportSheets)
	articles.GET("/reference-suggestion", h.Records.SuggestReference)
	articles.GET("/search", h.Records.SearchArticles)
	articles.GET("/low-stock", h.Records.LowStockArticles)
	articles.POST("/stock-check", h.Records.StockCheck)
	articles.GET("/:id", h.Records.GetArticle)
	articles.PUT("/:id", h.Records.UpdateArticle)
	articles.DELETE("/:id", h.Records.DeleteArticle)

	clients := secured.Group("/clients")
	clients.GET("", h.Records.ListClients)
	clients.POST("", h.Records.CreateClient)
	clients.POST("/validate", h.Records.ValidateClient)
	clients.GET("/stats", h.Records.ClientStats)
	clients.GET("/search", h.Records.SearchClients)
	clients.GET("/:id", h.Records.GetClient)
	clients.PUT("/:id", h.Records.UpdateClient)
	clients.DELETE("/:id", h.Records.DeleteClient)

	reports := secured.Group("/reports")
	reports.GET("/snapshots", h.Reports.ListSnapshots)
	reports.POST("/snapshots", h.Reports.TakeSnapshot)

	logger.Info("router initialized")

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
