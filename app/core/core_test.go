package core

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]memEntry)}
}

func (c *memCache) alive(key string) (memEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return memEntry{}, false
	}
	return e, true
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.alive(key)
	if !ok {
		return "", nil
	}
	return e.value, nil
}

func (c *memCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{value: value, expiresAt: time.Now().Add(expiresAt)}
	return nil
}

func (c *memCache) SetNX(ctx context.Context, key, value string, expiresAt time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.alive(key); held {
		return false, nil
	}
	c.entries[key] = memEntry{value: value, expiresAt: time.Now().Add(expiresAt)}
	return true, nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, _ := c.alive(key)
	n, _ := strconv.ParseInt(e.value, 10, 64)
	n++
	c.entries[key] = memEntry{value: strconv.FormatInt(n, 10), expiresAt: e.expiresAt}
	return n, nil
}

func (c *memCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.alive(key); ok {
		e.expiresAt = time.Now().Add(expiration)
		c.entries[key] = e
	}
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func TestTryLockSingleHolder(t *testing.T) {
	core := &Core{cache: newMemCache()}
	ctx := context.Background()

	ok, err := core.TryLock(ctx, "rollup", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = core.TryLock(ctx, "rollup", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, core.Unlock(ctx, "rollup"))

	ok, err = core.TryLock(ctx, "rollup", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryLockContendersDoNotExtendLease(t *testing.T) {
	core := &Core{cache: newMemCache()}
	ctx := context.Background()

	ok, err := core.TryLock(ctx, "rollup", 60*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	// a holder that never unlocks; other nodes keep retrying
	deadline := time.Now().Add(time.Second)
	acquired := false
	for time.Now().Before(deadline) {
		ok, err = core.TryLock(ctx, "rollup", 60*time.Millisecond)
		require.NoError(t, err)
		if ok {
			acquired = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.True(t, acquired, "lease should expire even under constant contention")
}

func TestSetRunningJobsGauge(t *testing.T) {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "index_job_running"}, []string{"workspace"})
	m := &Metrics{runningJobGauge: gauge}

	m.SetRunningJobs("w1", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(gauge.WithLabelValues("w1")))

	m.SetRunningJobs("w1", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge.WithLabelValues("w1")))
}
