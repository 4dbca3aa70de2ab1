package main

import (
	"context"
	"errors"
	"time"

	"campusalloc/internal/allocations/core"
	"campusalloc/internal/allocations/handler"
	"campusalloc/internal/allocations/repository"
	"campusalloc/internal/allocations/service"
	"campusalloc/internal/allocations/validator"
	"campusalloc/pkg/app"
	"campusalloc/pkg/client"
	"campusalloc/pkg/config"
	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/kafka"
	kafkaconfig "campusalloc/pkg/kafka/config"
	kafkamiddleware "campusalloc/pkg/kafka/middleware"
)

const ServiceName = "allocations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Allocations service")

	producer := initProducer(cfg)
	allocationService := initServices(cfg, producer)
	restoreLatestSnapshot(cfg, allocationService)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewAllocationHandler(allocationService, cfg.Log))
	serverApp.Run(func() {
		flushState(cfg, allocationService, producer)
	})
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled")
		return nil
	}

	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Event producer initialized", "topic", cfg.EventsTopic)
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.AllocationService {
	submitValidator := validator.NewSubmitValidator(cfg.Log, cfg)
	snapshotRepo := repository.NewMongoSnapshotRepository(cfg)
	directory := client.NewDirectoryClient(cfg.DirectoryBaseURL)

	var events service.EventPublisher
	if producer != nil {
		events = producer
	}

	allocationService := service.NewAllocationService(
		core.NewEngine(nil),
		directory,
		snapshotRepo,
		submitValidator,
		events,
		cfg,
	)

	cfg.Log.Info("Allocation service initialized", "database", cfg.MongoDatabaseName)
	return allocationService
}

// restoreLatestSnapshot rebuilds engine state from the most recent
// persisted snapshot. A cold start with no snapshot is normal.
func restoreLatestSnapshot(cfg *config.Config, svc service.AllocationService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := svc.LoadSnapshot(ctx)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			cfg.Log.Info("No saved snapshot found, starting with empty state")
			return
		}
		cfg.Log.Fatal("Failed to restore snapshot", "error", err)
	}
	cfg.Log.Info("Engine state restored from snapshot", "seq", snap.Seq, "resources", len(snap.Resources))
}

func flushState(cfg *config.Config, svc service.AllocationService, producer *kafka.Producer) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := svc.SaveSnapshot(ctx); err != nil {
		cfg.Log.Error("Failed to save snapshot on shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}
}
