package main

import (
	"os"
	"testing"

	"github.com/dermalog/backend/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(originalDir) })
	os.Chdir(t.TempDir())
}

func TestExecute_ReturnsNonZeroOnStartupFailure(t *testing.T) {
	chdirTemp(t)

	t.Run("invalid configuration", func(t *testing.T) {
		t.Setenv("DERMALOG_CACHE_TYPE", "bogus")

		if code := execute(); code != 1 {
			t.Errorf("execute() = %d, want 1", code)
		}
	})

	t.Run("cache cannot be built", func(t *testing.T) {
		t.Setenv("DERMALOG_CACHE_TYPE", "redis")
		t.Setenv("DERMALOG_CACHE_REDIS_URL", "http://not-a-redis-url")

		if code := execute(); code != 1 {
			t.Errorf("execute() = %d, want 1", code)
		}
	})
}

func TestRun_ReturnsCacheError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Environment: "test"},
		Cache:  config.CacheConfig{Type: "redis", RedisURL: "http://not-a-redis-url"},
	}

	if err := run(cfg, zap.New(core)); err == nil {
		t.Fatal("run() error = nil, want cache construction error")
	}
	if logs.FilterMessage("starting Dermalog backend").Len() != 1 {
		t.Error("expected the startup entry to be logged")
	}
}
