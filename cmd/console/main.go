package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/console"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	defer func() { _ = l.Sync() }()

	seed := store.DefaultSeed(time.Now())
	if cfg.SeedFile != "" {
		seed, err = store.LoadSeed(cfg.SeedFile, time.Now())
		if err != nil {
			l.Fatal("Failed to load seed", zap.String("path", cfg.SeedFile), zap.Error(err))
		}
	}

	st, err := store.New(seed, store.WithPasswordCost(cfg.BcryptCost))
	if err != nil {
		l.Fatal("Failed to build store", zap.Error(err))
	}
	st.Subscribe(store.ListenerFunc(func(e store.Event) {
		l.Debug("Store event",
			zap.String("kind", string(e.Kind)),
			zap.String("entity_id", e.EntityID),
			zap.String("actor_id", e.ActorID),
		)
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := console.New(st, os.Stdout, l).Run(ctx, os.Stdin); err != nil {
		l.Error("Console stopped with error", zap.Error(err))
	}
}
