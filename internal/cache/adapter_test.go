package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Adapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	a := New(Config{URL: mr.Addr(), DefaultTTL: time.Minute}, nil, zap.NewNop())
	return mr, a
}

func TestAdapterSetAndGet(t *testing.T) {
	mr, a := setupTestRedis(t)
	defer mr.Close()
	defer a.Close()

	ctx := context.Background()
	assert.True(t, a.Set(ctx, "k1", "v1", time.Minute))

	val, ok := a.Get(ctx, "k1")
	assert.True(t, ok)
	assert.Equal(t, "v1", val)
}

func TestAdapterGetMiss(t *testing.T) {
	mr, a := setupTestRedis(t)
	defer mr.Close()
	defer a.Close()

	_, ok := a.Get(context.Background(), "does-not-exist")
	assert.False(t, ok)

	stats := a.Stats()
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestAdapterJSONRoundTrip(t *testing.T) {
	mr, a := setupTestRedis(t)
	defer mr.Close()
	defer a.Close()

	type payload struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	ctx := context.Background()
	in := payload{Name: "shoes", N: 5}
	assert.True(t, a.SetJSON(ctx, "p1", in, time.Minute))

	var out payload
	assert.True(t, a.GetJSON(ctx, "p1", &out))
	assert.Equal(t, in, out)
}

func TestAdapterDisabledWithoutURL(t *testing.T) {
	a := New(Config{}, nil, zap.NewNop())
	ctx := context.Background()

	assert.False(t, a.Set(ctx, "k", "v", time.Minute))
	_, ok := a.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, a.Exists(ctx, "k"))
}

func TestAdapterHitRate(t *testing.T) {
	mr, a := setupTestRedis(t)
	defer mr.Close()
	defer a.Close()

	ctx := context.Background()
	a.Set(ctx, "k", "v", time.Minute)
	a.Get(ctx, "k")        // hit
	a.Get(ctx, "k")        // hit
	a.Get(ctx, "no-exist") // miss

	stats := a.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
}

func TestAdapterDeleteAndExists(t *testing.T) {
	mr, a := setupTestRedis(t)
	defer mr.Close()
	defer a.Close()

	ctx := context.Background()
	a.Set(ctx, "k", "v", time.Minute)
	assert.True(t, a.Exists(ctx, "k"))

	a.Delete(ctx, "k")
	assert.False(t, a.Exists(ctx, "k"))
}

type fakeRecorder struct {
	hits   int
	misses int
}

func (f *fakeRecorder) ObserveCache(hit bool) {
	if hit {
		f.hits++
		return
	}
	f.misses++
}

func TestAdapterForwardsOutcomesToRecorder(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rec := &fakeRecorder{}
	a := New(Config{URL: mr.Addr(), DefaultTTL: time.Minute}, rec, zap.NewNop())
	defer a.Close()

	ctx := context.Background()
	a.Set(ctx, "k", "v", time.Minute)
	a.Get(ctx, "k")
	a.Get(ctx, "missing")

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestAdapterBackendErrorIncrementsErrorsAndReportsMiss(t *testing.T) {
	mr, a := setupTestRedis(t)
	a.Close()
	mr.Close()

	ctx := context.Background()
	_, ok := a.Get(ctx, "k")
	assert.False(t, ok)
	assert.Greater(t, a.Stats().Errors, uint64(0))
}
