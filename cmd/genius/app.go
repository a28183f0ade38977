package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/fystack/lottery-genius/internal/cache"
	"github.com/fystack/lottery-genius/internal/events"
	"github.com/fystack/lottery-genius/internal/history"
	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/internal/upstream"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/fystack/lottery-genius/pkg/infra"
	"github.com/fystack/lottery-genius/pkg/kvstore"
)

// app is everything a command needs, built once from config.
type app struct {
	cfg       *config.Config
	fetcher   *upstream.Fetcher
	history   *history.Service
	generator *lottery.Generator
	emitter   events.Emitter
	store     infra.KVStore
}

// loadConfig reads the config file, falling back to defaults when it does not
// exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Finalize(config.Config{})
		if err == nil {
			logger.Warn("Config file not found, using defaults", "path", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.Config, debug bool) {
	level := logger.ParseLevel(cfg.Log.Level)
	if debug {
		level = logger.ParseLevel("debug")
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.Log.NoColor,
	})
}

func newApp(cfg *config.Config) (*app, error) {
	source, err := upstream.NewSource(cfg.Source)
	if err != nil {
		return nil, err
	}
	fetcher := upstream.NewFetcher(source, cfg.Source.Client)

	store, err := kvstore.NewFromConfig(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}

	emitter, err := events.NewFromConfig(cfg.Nats)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	slot := cache.NewSlot[history.Snapshot](cfg.Cache.TTL, cache.Options{
		Store: store,
		Key:   cfg.Cache.Key + "/" + source.Name(),
	})

	genOpts := []lottery.GeneratorOption{lottery.WithOversample(cfg.Generator.Oversample)}
	if cfg.Generator.Seed != 0 {
		genOpts = append(genOpts, lottery.WithSeed(cfg.Generator.Seed))
	}

	logger.Info("Application initialized",
		"source", source.Name(),
		"cache_backend", cfg.Cache.Backend,
		"cache_ttl", cfg.Cache.TTL,
		"history_window", cfg.History.Window,
		"nats", cfg.Nats.Enabled,
	)

	return &app{
		cfg:       cfg,
		fetcher:   fetcher,
		history:   history.NewService(fetcher, slot, cfg.History.Window, emitter),
		generator: lottery.NewGenerator(genOpts...),
		emitter:   emitter,
		store:     store,
	}, nil
}

func (a *app) Close() {
	a.emitter.Close()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("Failed to close cache store", "err", err)
		}
	}
}
