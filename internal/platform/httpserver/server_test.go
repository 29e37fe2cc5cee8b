package httpserver_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
)

func TestServer_RunStopsWhenContextEnds(t *testing.T) {
	cfg := httpserver.Config{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}
	server := httpserver.New(cfg, http.NotFoundHandler(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := httpserver.DefaultConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}
