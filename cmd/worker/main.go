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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/cruce/internal/config"
	"github.com/MrJamesThe3rd/cruce/internal/database"
	"github.com/MrJamesThe3rd/cruce/internal/logger"
	"github.com/MrJamesThe3rd/cruce/internal/metrics"
	"github.com/MrJamesThe3rd/cruce/internal/queue"
	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
	"github.com/MrJamesThe3rd/cruce/internal/report"
	reportStore "github.com/MrJamesThe3rd/cruce/internal/report/store"
	"github.com/MrJamesThe3rd/cruce/internal/run"
	runStore "github.com/MrJamesThe3rd/cruce/internal/run/store"
	"github.com/MrJamesThe3rd/cruce/internal/worker"
)

func main() {
	log := logger.New(logger.Options{ServiceName: "cruce-worker"})

	if err := godotenv.Load(); err != nil {
		log.Warn(context.Background(), ".env file not found, relying on environment", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	log = logger.New(logger.Options{
		ServiceName: "cruce-worker",
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	)

	pool := worker.NewPool(
		queue.New(redisClient, cfg.Redis.Queue),
		worker.NewRedisLocker(redisClient),
		runService,
		log,
		recMetrics,
		worker.Options{
			Concurrency: cfg.Worker.Concurrency,
			LockTTL:     cfg.Worker.LockTTL,
			PollTimeout: cfg.Worker.PollTimeout,
		},
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	ctx = log.WithFields(ctx, map[string]any{
		"concurrency": cfg.Worker.Concurrency,
		"queue":       cfg.Redis.Queue,
	})
	log.Info(ctx, "starting worker pool")

	if err := pool.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "worker pool stopped unexpectedly", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "metrics server shutdown", err)
	}

	log.Info(context.Background(), "worker pool shut down")
}
