package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/grpcserver"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger := logger.New(cfg.LogLevel)
	defer func() { _ = zapLogger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Error("Service stopped with error", zap.Error(err))
		os.Exit(1)
	}
	zapLogger.Info("Service gracefully stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	seed, err := loadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}

	st, err := store.New(seed, store.WithPasswordCost(cfg.BcryptCost))
	if err != nil {
		return fmt.Errorf("failed to build store: %w", err)
	}
	st.Subscribe(metrics.StoreListener(st))

	backend, err := newAuditBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.close()

	auditManager := audit.NewManager(cfg.AuditWorkers, cfg.AuditBatchSize, cfg.AuditBatchTimeout, backend.sink, logger)
	// Entries logged while the servers drain still go through the sink.
	auditManager.Start(context.WithoutCancel(ctx))
	st.Subscribe(audit.StoreListener(auditManager))

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	httpServer := server.New(st, issuer, auditManager, cfg.CORSOrigins, logger)
	grpcServer := grpcserver.NewServer(st, issuer, auditManager, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(cfg.HTTPPort)
	})
	g.Go(func() error {
		return grpcServer.Run(cfg.GRPCPort)
	})
	if backend.publisher != nil {
		g.Go(func() error {
			backend.publisher.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(httpServer.Shutdown(shutdownCtx), grpcServer.Shutdown(shutdownCtx))
	})

	logger.Info("Service started",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("audit_sink", string(cfg.AuditSink)),
	)
	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	auditManager.Shutdown(shutdownCtx)
	if backend.publisher != nil {
		backend.publisher.Shutdown(shutdownCtx)
	}
	return err
}

func loadSeed(path string) (store.Seed, error) {
	if path == "" {
		return store.DefaultSeed(time.Now()), nil
	}
	seed, err := store.LoadSeed(path, time.Now())
	if err != nil {
		return store.Seed{}, fmt.Errorf("failed to load seed %s: %w", path, err)
	}
	return seed, nil
}

type auditBackend struct {
	sink      audit.Sink
	publisher *kafka.Publisher
	closers   []func()
}

func (b *auditBackend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func newAuditBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*auditBackend, error) {
	switch cfg.AuditSink {
	case config.AuditSinkKafka:
		producer := newProducer(cfg, logger)
		return &auditBackend{
			sink: audit.NewProducerSink(producer, cfg.KafkaTopic),
			closers: []func(){func() {
				if err := producer.Close(); err != nil {
					logger.Error("Failed to close producer", zap.Error(err))
				}
			}},
		}, nil

	case config.AuditSinkOutbox:
		database, err := db.NewDb(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, database, migrations.FS, logger); err != nil {
			database.Close()
			return nil, err
		}

		repo := postgresql.NewOutboxTaskRepo()
		publisher := kafka.NewPublisher(database, repo, newProducer(cfg, logger), kafka.PublisherConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxAttempts:  cfg.OutboxMaxAttempts,
		}, logger)

		return &auditBackend{
			sink:      audit.NewOutboxSink(database, repo, cfg.KafkaTopic),
			publisher: publisher,
			closers:   []func(){database.Close},
		}, nil
	}

	return &auditBackend{sink: audit.NewLogSink(logger)}, nil
}

func newProducer(cfg config.Config, logger *zap.Logger) kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		return kafka.NewConsoleProducer(os.Stdout, logger)
	}
	return kafka.NewKafkaProducer(cfg.KafkaBrokers, kafka.BreakerConfig{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}, logger)
}
