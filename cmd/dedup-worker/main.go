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

	"github.com/gorilla/mux"
	"github.com/openrelief/masterlist/pkg/common/config"
	"github.com/openrelief/masterlist/pkg/common/database"
	"github.com/openrelief/masterlist/pkg/common/kafka"
	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/common/models"
	"github.com/openrelief/masterlist/pkg/dedup"
	"github.com/openrelief/masterlist/pkg/masterlist"
	"github.com/openrelief/masterlist/pkg/observability/metrics"
)

type WorkerApp struct {
	service  *dedup.Service
	producer *kafka.Producer
	dlq      *kafka.Producer
}

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	mlRepo := masterlist.NewRepository(db)
	dedupRepo := dedup.NewRepository(db)
	if err := dedupRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate duplicate pair tables")
	}

	rules, err := dedup.LoadRules(cfg.DedupRulesPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.DedupRulesPath).
			Warn("failed to load matcher rules, using defaults")
	}

	scanner := dedup.NewPairwiseScanner(dedup.NewMatcher(rules))
	reconciler := dedup.NewReconciler(dedupRepo, cfg.DedupChunkSize)
	service := dedup.NewService(mlRepo, dedupRepo, scanner, reconciler)

	app := &WorkerApp{
		service:  service,
		producer: kafka.NewProducer(cfg.DedupResultTopic),
	}
	defer app.producer.Close()

	if cfg.DedupDLQTopic != "" {
		app.dlq = kafka.NewProducer(cfg.DedupDLQTopic)
		defer app.dlq.Close()
	}

	consumer := kafka.NewConsumer(cfg.DedupRequestTopic, "dedup-worker")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Consume(ctx, app.handleEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Fatal("consumer error")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, "8090"),
		Handler: router,
	}

	go func() {
		logger.Log.WithField("port", "8090").Info("Dedup Worker started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Dedup Worker...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	database.ClosePostgres()
	logger.Log.Info("Dedup Worker stopped")
}

func (a *WorkerApp) handleEvent(ctx context.Context, event models.Event) error {
	req, err := parseDedupRequest(event.Data)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("invalid dedup request, skipping")
		return nil
	}

	result, err := a.service.Run(ctx, req.MasterlistID)
	if err != nil {
		if errors.Is(err, dedup.ErrNotEligible) {
			metrics.ObserveRunRejected()
			logger.Log.WithError(err).WithField("masterlist_id", req.MasterlistID).
				Warn("deduplication run rejected")
			return nil
		}

		metrics.ObserveRunFailed()
		if a.dlq != nil {
			_ = a.dlq.PublishEvent(ctx, "dedup-failed", "dedup-worker", event.Data)
		}
		return err
	}

	metrics.ObserveRunCompleted(result.PairCount)

	payload := map[string]interface{}{
		"result": models.DedupResult{
			MasterlistID: result.MasterlistID,
			PairCount:    result.PairCount,
			RecordCount:  result.RecordCount,
			Elapsed:      result.Elapsed,
			CompletedAt:  time.Now().UTC(),
		},
	}
	if err := a.producer.PublishEvent(ctx, "dedup-completed", "dedup-worker", payload); err != nil {
		logger.Log.WithError(err).Error("failed to publish dedup result")
		if a.dlq != nil {
			_ = a.dlq.PublishEvent(ctx, "dedup-completed", "dedup-worker", payload)
		}
	}

	return nil
}

func parseDedupRequest(data map[string]interface{}) (*models.DedupRequest, error) {
	raw, ok := data["masterlist_id"]
	if !ok {
		return nil, errors.New("masterlist_id missing")
	}
	id, ok := raw.(float64)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("masterlist_id invalid: %v", raw)
	}

	req := &models.DedupRequest{MasterlistID: uint64(id)}
	if by, ok := data["requested_by"].(string); ok {
		req.RequestedBy = by
	}
	return req, nil
}
