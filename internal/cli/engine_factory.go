package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/chomsky"
	"github.com/aretw0/chomsky/internal/config"
	"github.com/aretw0/chomsky/pkg/adapters/loam"
	"github.com/aretw0/chomsky/pkg/adapters/memory"
	"github.com/aretw0/chomsky/pkg/adapters/redis"
	"github.com/aretw0/chomsky/pkg/observability"
	"github.com/aretw0/chomsky/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// EngineOptions collects what the commands decide before building an engine.
type EngineOptions struct {
	Config        config.Config
	Logger        *slog.Logger
	Metrics       *observability.Metrics
	SkipMalformed bool
}

// NewEngine builds a chomsky engine with standard CLI conventions.
// The returned closer releases the conversion store.
func NewEngine(opts EngineOptions) (*chomsky.Engine, io.Closer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// 1. Logger & Hooks
	engineOpts := []chomsky.Option{
		chomsky.WithLogger(logger),
		chomsky.WithPipelineHooks(observability.LogHooks(logger)),
	}
	if opts.Metrics != nil {
		engineOpts = append(engineOpts, chomsky.WithMetrics(opts.Metrics))
	}
	if opts.SkipMalformed {
		engineOpts = append(engineOpts, chomsky.WithSkipMalformed())
	}

	// 2. Store: Redis when configured, memory otherwise.
	var closer io.Closer = nopCloser{}
	if addr := opts.Config.Redis.Addr; addr != "" {
		store, err := newRedisStore(opts.Config.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Redis conversion store", "addr", addr)
		engineOpts = append(engineOpts, chomsky.WithStore(store))
		closer = store
	} else {
		engineOpts = append(engineOpts, chomsky.WithStore(memory.NewStore()))
	}

	return chomsky.New(engineOpts...), closer, nil
}

func newRedisStore(cfg config.Redis) (*redis.Store, error) {
	ttl, err := cfg.TTLDuration()
	if err != nil {
		return nil, err
	}
	opts := []redis.Option{redis.WithTTL(ttl)}
	if cfg.Prefix != "" {
		opts = append(opts, redis.WithPrefix(cfg.Prefix))
	}
	store := redis.New(cfg.Addr, cfg.Password, cfg.DB, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Addr, err)
	}
	return store, nil
}

// NewMetrics registers the chomsky collectors on a fresh registry.
func NewMetrics() (*observability.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return observability.NewMetrics(reg), reg
}

// OpenLibrary opens the grammar library rooted at dir. A missing directory
// yields an empty library.
func OpenLibrary(dir string) (ports.GrammarLibrary, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return memory.NewLibrary(nil), nil
	}
	return loam.Open(dir)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
