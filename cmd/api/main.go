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

	"github.com/abduss/uploader/internal/auth"
	"github.com/abduss/uploader/internal/config"
	"github.com/abduss/uploader/internal/file"
	"github.com/abduss/uploader/internal/logger"
	"github.com/abduss/uploader/internal/metrics"
	"github.com/abduss/uploader/internal/server"
	"github.com/abduss/uploader/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// metadataBackend bundles the stores selected by the configured driver.
type metadataBackend struct {
	files    file.MetadataStore
	accounts auth.AccountStore
	pinger   server.Pinger
	close    func()
}

func main() {
	_ = godotenv.Load()

	log, err := logger.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("uploader stopped", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openMetadata(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.close()

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("connect minio: %w", err)
	}
	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	authService := auth.NewService(backend.accounts, cfg.Auth)
	fileStore := file.NewMinIOStore(minioClient, cfg.MinIO.Bucket, cfg.MinIO.PublicBase())
	fileService := file.NewService(backend.files, fileStore, cfg.Upload, metrics.Recorder{})

	router := server.NewRouter(server.Dependencies{
		Config:      cfg,
		Metadata:    backend.pinger,
		ObjectStore: minioClient,
		AuthService: authService,
		FileService: fileService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("uploader API listening",
			zap.String("addr", cfg.Server.Address()),
			zap.String("metadata_driver", cfg.Metadata.Driver),
			zap.String("bucket", cfg.MinIO.Bucket),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	return nil
}

func openMetadata(ctx context.Context, cfg config.Config) (metadataBackend, error) {
	switch cfg.Metadata.Driver {
	case config.DriverPostgres:
		if err := storage.MigratePostgres(cfg.Postgres); err != nil {
			return metadataBackend{}, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return metadataBackend{}, fmt.Errorf("connect postgres: %w", err)
		}
		files := file.NewPostgresRepository(pool)
		return metadataBackend{
			files:    files,
			accounts: auth.NewPostgresRepository(pool),
			pinger:   files,
			close:    pool.Close,
		}, nil

	default:
		client, err := storage.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return metadataBackend{}, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := storage.EnsureMongoIndexes(ctx, db, cfg.Mongo); err != nil {
			_ = client.Disconnect(context.Background())
			return metadataBackend{}, fmt.Errorf("ensure indexes: %w", err)
		}
		files := file.NewMongoRepository(db.Collection(cfg.Mongo.FilesCollection))
		return metadataBackend{
			files:    files,
			accounts: auth.NewMongoRepository(db.Collection(cfg.Mongo.AccountsCollection)),
			pinger:   files,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil
	}
}
