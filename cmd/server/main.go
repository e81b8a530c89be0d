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

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/adapter/repository/cache"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const serviceName = "pg-service"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	tp := tracer.InitTracer(serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	metricsManager := metrics.NewMetricsManager(serviceName)
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	// MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancelPing()
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	cancelPing()
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db, appLogger)
	favoriteRepo := mongodb.NewFavoriteRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)

	// Redis
	redisCtx, cancelRedis := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := cache.Connect(redisCtx, cfg.RedisAddress, cfg.RedisPassword)
	cancelRedis()
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	listingCache := cache.NewListingCache(redisClient, cfg.CacheTTL, appLogger)

	// NATS
	publisher, err := nats.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Object store and media pipeline
	storeCtx, cancelStore := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := s3.NewStorage(storeCtx, s3.Config{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}, appLogger)
	cancelStore()
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	staging, err := media.NewStagingArea(cfg.StagingDir, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to prepare staging area", zap.String("dir", cfg.StagingDir), zap.Error(err))
	}
	pipeline := media.NewPipeline(store, staging, media.Config{
		Concurrency: cfg.UploadConcurrency,
		TaskTimeout: cfg.UploadTimeout,
		Upload: media.UploadOptions{
			Folder: cfg.ImageFolder,
			Width:  cfg.ImageWidth,
			Crop:   cfg.ImageCrop,
		},
	}, appLogger, media.WithRecorder(metricsManager))

	opts := []usecase.Option{
		usecase.WithCache(listingCache),
		usecase.WithEvents(publisher),
		usecase.WithMetrics(metricsManager),
	}
	smtp, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, appLogger)
	switch {
	case err == nil:
		opts = append(opts, usecase.WithNotifier(smtp, userRepo))
	case errors.Is(err, mailer.ErrNotConfigured):
		appLogger.Info("SMTP not configured, owner notifications disabled")
	default:
		appLogger.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	listingUC := usecase.NewListingUsecase(listingRepo, pipeline, staging, appLogger, opts...)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, listingRepo, appLogger)
	userUC := usecase.NewUserUsecase(userRepo, appLogger)

	router := rest.NewRouter(rest.RouterDeps{
		Listings:       listingUC,
		Favorites:      favoriteUC,
		Users:          userUC,
		Staging:        staging,
		JWTSecret:      cfg.JWTSecret,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Metrics:        metricsManager,
		Logger:         appLogger,
	})
	server := rest.NewServer(cfg.HTTPPort, router, appLogger)

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Application shutting down...")
}
