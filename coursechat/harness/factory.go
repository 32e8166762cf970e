package harness

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/xetalita/coursechat/coursechat/config"
	"github.com/xetalita/coursechat/coursechat/harness/adapters"
	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// Factory creates and wires harness components from configuration.
type Factory struct {
	cfg    *config.Config
	db     *sql.DB // optional, for the session store
	logger zerolog.Logger
}

// NewFactory creates a harness factory. db may be nil when no session
// database is configured.
func NewFactory(cfg *config.Config, db *sql.DB, logger zerolog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// CreateOrchestrator wires an orchestrator around the given provider and
// tool registry using the configured limiter, tracer, and call parameters.
func (f *Factory) CreateOrchestrator(provider ports.Provider, registry *Registry) *Orchestrator {
	o := NewOrchestrator(provider, registry, f.CreateRateLimiter(), f.CreateTracer())

	if f.cfg.Chat.MaxTokens > 0 {
		o.maxTokens = f.cfg.Chat.MaxTokens
	}
	o.temperature = f.cfg.Chat.Temperature
	if f.cfg.Harness.ToolConcurrency > 0 {
		o.concurrency = f.cfg.Harness.ToolConcurrency
	}

	return o
}

// MaxRounds returns the configured round budget, clamped to at least 1.
func (f *Factory) MaxRounds() int {
	rounds := f.cfg.Harness.MaxRounds
	if rounds < 1 {
		f.logger.Warn().Int("max_rounds", rounds).Msg("max_rounds clamped to minimum of 1")
		rounds = 1
	}
	return rounds
}

// CreateCache creates a cache adapter from config.
func (f *Factory) CreateCache() ports.Cache {
	if !f.cfg.Harness.CacheEnabled {
		return &noOpCache{}
	}
	return adapters.NewLRUCache(f.cfg.Harness.CacheCapacity)
}

// CreateRateLimiter creates a rate limiter adapter from config.
func (f *Factory) CreateRateLimiter() ports.RateLimiter {
	if !f.cfg.Harness.RateLimitEnabled {
		return &noOpRateLimiter{}
	}
	return adapters.NewTokenBucket(f.cfg.Harness.RateLimitCapacity, f.cfg.Harness.RateLimitRefillRate)
}

// CreateTracer creates a tracer adapter from config.
func (f *Factory) CreateTracer() ports.Tracer {
	if !f.cfg.Harness.EnableTracing {
		return &noOpTracer{}
	}
	return adapters.NewZerologTracer(f.logger)
}

// CreateSessionStore creates a session store from config, falling back to
// the in-memory store when no database is wired.
func (f *Factory) CreateSessionStore() ports.SessionStore {
	if f.db == nil {
		return adapters.NewMemorySessionStore()
	}
	return adapters.NewLibSQLSessionStore(f.db)
}

// noOpCache implements the Cache interface for disabled caching.
type noOpCache struct{}

func (c *noOpCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (c *noOpCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return nil
}
func (c *noOpCache) Delete(ctx context.Context, key string) error { return nil }

// noOpRateLimiter implements the RateLimiter interface with no throttling.
type noOpRateLimiter struct{}

func (r *noOpRateLimiter) Acquire(ctx context.Context, key string) (release func(), err error) {
	return func() {}, nil
}

// noOpTracer implements the Tracer interface with no-op behavior.
type noOpTracer struct{}

func (t *noOpTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	return ctx, func(err error) {}
}

func (t *noOpTracer) Event(ctx context.Context, name string, attrs map[string]any) {}

var (
	_ ports.Cache       = (*noOpCache)(nil)
	_ ports.RateLimiter = (*noOpRateLimiter)(nil)
	_ ports.Tracer      = (*noOpTracer)(nil)
)
