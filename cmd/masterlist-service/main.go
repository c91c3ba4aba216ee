package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/openrelief/masterlist/pkg/common/config"
	"github.com/openrelief/masterlist/pkg/common/database"
	"github.com/openrelief/masterlist/pkg/common/kafka"
	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/common/middleware"
	"github.com/openrelief/masterlist/pkg/dedup"
	"github.com/openrelief/masterlist/pkg/export"
	"github.com/openrelief/masterlist/pkg/masterlist"
	"github.com/openrelief/masterlist/pkg/observability/metrics"
	"github.com/openrelief/masterlist/pkg/review"
	"github.com/openrelief/masterlist/pkg/stats"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	mlRepo := masterlist.NewRepository(db)
	if err := mlRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate masterlist tables")
	}
	dedupRepo := dedup.NewRepository(db)
	if err := dedupRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate duplicate pair tables")
	}

	producer := kafka.NewProducer(cfg.DedupRequestTopic)
	defer producer.Close()

	mlService := masterlist.NewService(mlRepo, cfg.IngestChunkSize)
	reviewService := review.NewService(review.NewRepository(db))
	exporter := export.NewExporter(export.NewRepository(db), 500)
	statsService := stats.NewService(
		stats.NewRepository(db),
		stats.NewRedisCache(database.GetRedis()),
		cfg.StatsCacheTTL,
	)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	masterlist.NewHTTPHandler(mlService, producer, cfg.MaxRequestBody).Register(api)
	review.NewHTTPHandler(reviewService).Register(api)
	export.NewHTTPHandler(exporter, mlService).Register(api)
	stats.NewHTTPHandler(statsService).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Masterlist Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Masterlist Service...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	database.CloseRedis()
	database.ClosePostgres()

	logger.Log.Info("Masterlist Service stopped")
}
