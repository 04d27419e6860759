package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "SAVE_DEBOUNCE_MS", "SAVE_TIMEOUT_MS", "PLAN_TTL_MINUTES", "OTEL_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scheduler.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.SaveTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Store.PlanTTL)
	assert.False(t, cfg.App.OtelEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SAVE_DEBOUNCE_MS", "250")
	t.Setenv("MEMORY_STORE_LATENCY_MS", "0")
	t.Setenv("PLAN_TTL_MINUTES", "5")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Scheduler.Debounce)
	assert.Equal(t, time.Duration(0), cfg.Store.MemoryLatency)
	assert.Equal(t, 5*time.Minute, cfg.Store.PlanTTL)
	assert.True(t, cfg.App.OtelEnabled)
	assert.True(t, cfg.IsProduction())
}

func TestDurationRejectsGarbage(t *testing.T) {
	t.Setenv("SAVE_TIMEOUT_MS", "soon")
	assert.Equal(t, 10*time.Second, Load().Scheduler.SaveTimeout)

	t.Setenv("SAVE_TIMEOUT_MS", "-3")
	assert.Equal(t, 10*time.Second, Load().Scheduler.SaveTimeout)
}
