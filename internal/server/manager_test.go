package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartThenShutdownGracefully(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	m := NewManager(handler, Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, zap.NewNop())
	require.NoError(t, m.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, m.Shutdown(ctx))
}

func TestShutdownIsIdempotent(t *testing.T) {
	m := NewManager(http.NewServeMux(), Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, zap.NewNop())
	require.NoError(t, m.Start())

	assert.NoError(t, m.Shutdown(context.Background()))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestStartTwiceErrors(t *testing.T) {
	m := NewManager(http.NewServeMux(), Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, zap.NewNop())
	require.NoError(t, m.Start())
	defer m.Shutdown(context.Background())

	assert.Error(t, m.Start())
}

func TestStartAfterShutdownErrors(t *testing.T) {
	m := NewManager(http.NewServeMux(), Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, zap.NewNop())
	require.NoError(t, m.Start())
	require.NoError(t, m.Shutdown(context.Background()))

	assert.Error(t, m.Start())
}

func TestInvalidAddrReturnsListenError(t *testing.T) {
	m := NewManager(http.NewServeMux(), Config{Addr: "not-a-valid-addr:::", ShutdownTimeout: time.Second}, zap.NewNop())
	assert.Error(t, m.Start())
}
