package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/config"
	"github.com/mamadbah2/backoffice/internal/repository/mongodb"
	"github.com/mamadbah2/backoffice/internal/repository/sheets"
	"github.com/mamadbah2/backoffice/internal/scheduler"
	"github.com/mamadbah2/backoffice/internal/server/handlers"
	"github.com/mamadbah2/backoffice/internal/server/router"
	"github.com/mamadbah2/backoffice/internal/service/auth"
	"github.com/mamadbah2/backoffice/internal/service/catalog"
	reportingsvc "github.com/mamadbah2/backoffice/internal/service/reporting"
	"github.com/mamadbah2/backoffice/pkg/clients/backend"
	whatsappclient "github.com/mamadbah2/backoffice/pkg/clients/whatsapp"
	"github.com/mamadbah2/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	gateway := backend.NewClient(cfg.Backend, logger.Named(baseLogger, "client.backend"))
	catalogSvc := catalog.NewService(gateway.Articles(), gateway.Clients(), logger.Named(baseLogger, "svc.catalog"))
	sessions := auth.NewSessionManager(cfg.Auth)

	bearer := cfg.Backend.AuthMode == config.AuthModeBearer
	var records catalog.Source = catalogSvc
	if bearer {
		scopes := catalog.NewScopes(gateway.Articles(), gateway.Clients(), logger.Named(baseLogger, "svc.catalog"))
		sessions.OnClear(scopes.Release)
		records = scopes
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Warn("unknown timezone, falling back to local time", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
		loc = time.Local
	}
	reportOpts := []reportingsvc.Option{reportingsvc.WithLocation(loc)}

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewSnapshotRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reportOpts = append(reportOpts, reportingsvc.WithStore(mongoRepo))
	} else {
		baseLogger.Warn("mongodb uri missing, snapshot history disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportOpts = append(reportOpts, reportingsvc.WithSheets(sheetsRepo, cfg.Sheets.ExportRange))
	}

	if cfg.WhatsApp.Enabled() {
		reportOpts = append(reportOpts, reportingsvc.WithNotifier(whatsappclient.NewClient(cfg.WhatsApp)))
		baseLogger.Info("whatsapp summary notifications enabled")
	}

	reportingSvc := reportingsvc.NewService(catalogSvc, logger.Named(baseLogger, "svc.reporting"), reportOpts...)

	engine := router.New(router.Handlers{
		Sessions: handlers.NewSessionHandler(sessions, bearer, logger.Named(baseLogger, "handlers.session")),
		Records:  handlers.NewRecordHandler(records, logger.Named(baseLogger, "handlers.records")),
		Reports:  handlers.NewReportHandler(reportingSvc, logger.Named(baseLogger, "handlers.reports")),
	}, logger.Named(baseLogger, "router"))

	if cfg.Reporting.Enabled {
		sched, err := scheduler.NewScheduler(*cfg, reportingSvc, logger.Named(baseLogger, "scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
