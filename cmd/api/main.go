package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/cruce/internal/config"
	"github.com/MrJamesThe3rd/cruce/internal/database"
	"github.com/MrJamesThe3rd/cruce/internal/export"
	cruceHttp "github.com/MrJamesThe3rd/cruce/internal/http"
	exportHandler "github.com/MrJamesThe3rd/cruce/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/cruce/internal/http/importcsv"
	reportHandler "github.com/MrJamesThe3rd/cruce/internal/http/report"
	runHandler "github.com/MrJamesThe3rd/cruce/internal/http/run"
	"github.com/MrJamesThe3rd/cruce/internal/importer"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/metrics"
	"github.com/MrJamesThe3rd/cruce/internal/queue"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	reportStore "github.com/MrJamesThe3rd/cruce/internal/report/store"
	"github.com/MrJamesThe3rd/cruce/internal/run"
	runStore "github.com/MrJamesThe3rd/cruce/internal/run/store"
)

func main() {
	log := logger.New(logger.Options{ServiceName: "cruce-api"})

	if err := godotenv.Load(); err != nil {
		log.Warn(context.Background(), ".env file not found, relying on environment", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	log = logger.New(logger.Options{
		ServiceName: "cruce-api",
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		log.Error(ctx, "failed to load timezone", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		log.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := queue.Connect(ctx, queue.Options{
		URL:      cfg.Redis.URL,
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Error(ctx, "failed to connect to redis", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	recMetrics := metrics.NewReconciliation(registry)

	var (
		reportService = report.NewService(reportStore.New(db), recMetrics)
		runService    = run.NewService(runStore.New(db), reportService, reconcile.NewEngine(reconcile.WithObserver(recMetrics)), log, recMetrics)
		importService = importer.NewService(loc, log)
		exportService = export.NewService(runService, reportService, loc)
		runQueue      = queue.New(redisClient, cfg.Redis.Queue)
	)

	var (
		reportH = reportHandler.NewHandler(reportService, log)
		importH = importHandler.NewHandler(importService, reportService, log, cfg.Server.MaxUploadMB)
		runH    = runHandler.NewHandler(runService, runQueue, log)
		exportH = exportHandler.NewHandler(exportService, log)
	)

	router := cruceHttp.New(log, cruceHttp.Options{
		Timeout:        cfg.Server.Timeout,
		AllowedOrigins: cfg.Server.CORSOrigins,
		Gatherer:       registry,
	}, reportH, importH, runH, exportH)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}()

	log.Info(log.WithField(ctx, "addr", server.Addr), "starting api server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	log.Info(context.Background(), "api server shut down")
}
