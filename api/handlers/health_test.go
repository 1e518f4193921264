package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleHealthzAlwaysHealthy(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthz(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadyWithNoChecksIsHealthy(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.HandleReady(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadyDegradedWhenACheckFails(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())
	h.RegisterCheck(NewPingCheck("cache", func(ctx context.Context) error { return nil }))
	h.RegisterCheck(NewPingCheck("warehouse", func(ctx context.Context) error { return errors.New("down") }))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.HandleReady(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleReadyHealthyWhenAllChecksPass(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())
	h.RegisterCheck(NewPingCheck("cache", func(ctx context.Context) error { return nil }))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.HandleReady(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
