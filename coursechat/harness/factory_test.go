package harness

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xetalita/coursechat/coursechat/config"
	"github.com/xetalita/coursechat/coursechat/harness/adapters"
)

func testConfig() *config.Config {
	return &config.Config{
		Chat: config.ChatConfig{MaxTokens: 1000, Temperature: 0},
		Harness: config.HarnessConfig{
			MaxRounds:        3,
			ToolConcurrency:  4,
			CacheEnabled:     true,
			CacheCapacity:    100,
			CacheTTLSeconds:  60,
			RateLimitEnabled: true,
			EnableTracing:    false,
		},
	}
}

func TestFactory_CreateOrchestratorAppliesConfig(t *testing.T) {
	cfg := testConfig()
	f := NewFactory(cfg, nil, zerolog.Nop())

	registry := NewRegistry()
	require.NoError(t, registry.Register(&recordingTool{name: "search_course_content"}))
	o := f.CreateOrchestrator(&scriptedProvider{}, registry)

	assert.Equal(t, 1000, o.maxTokens)
	assert.Equal(t, 4, o.concurrency)
}

func TestFactory_DisabledAdaptersFallBackToNoOps(t *testing.T) {
	cfg := testConfig()
	cfg.Harness.CacheEnabled = false
	cfg.Harness.RateLimitEnabled = false
	f := NewFactory(cfg, nil, zerolog.Nop())

	assert.IsType(t, &noOpCache{}, f.CreateCache())
	assert.IsType(t, &noOpRateLimiter{}, f.CreateRateLimiter())
	assert.IsType(t, &noOpTracer{}, f.CreateTracer())
}

func TestFactory_EnabledAdapters(t *testing.T) {
	f := NewFactory(testConfig(), nil, zerolog.Nop())

	assert.IsType(t, &adapters.LRUCache{}, f.CreateCache())
	assert.IsType(t, &adapters.TokenBucket{}, f.CreateRateLimiter())
}

func TestFactory_SessionStoreFallsBackToMemory(t *testing.T) {
	f := NewFactory(testConfig(), nil, zerolog.Nop())
	assert.IsType(t, &adapters.MemorySessionStore{}, f.CreateSessionStore())
}

func TestFactory_MaxRoundsClamped(t *testing.T) {
	cfg := testConfig()
	cfg.Harness.MaxRounds = 0
	f := NewFactory(cfg, nil, zerolog.Nop())
	assert.Equal(t, 1, f.MaxRounds())

	cfg.Harness.MaxRounds = 3
	assert.Equal(t, 3, f.MaxRounds())
}
