package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Totarae/ResearchAggregator/internal/config"
)

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := &config.Config{
		ServerAddress:     "127.0.0.1:0",
		GRPCAddress:       "127.0.0.1:0",
		ProviderMode:      config.ProviderMock,
		AggregatePolicy:   "best-effort",
		DownstreamTimeout: time.Second,
		Mode:              config.ModeMemory,
		AuthSecret:        "secret",
	}
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zaptest.NewLogger(t)) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, newLogger(true))
	assert.NotNil(t, newLogger(false))
}
