package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPollerStopsOnFalse(t *testing.T) {
	answers := []bool{true, true, false}
	var calls int32
	var invalidations int32

	check := func(ctx context.Context) (bool, error) {
		n := atomic.AddInt32(&calls, 1)
		require.LessOrEqual(t, int(n), len(answers), "poller kept polling after false")
		return answers[n-1], nil
	}

	poller := NewStatusPoller(check,
		WithInterval(time.Millisecond*10),
		WithOnStop(func() {
			atomic.AddInt32(&invalidations, 1)
		}),
	)
	assert.Equal(t, POLLER_IDLE, poller.State())

	poller.Start(context.Background())

	select {
	case <-poller.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}

	// give any stray ticks a chance to fire
	time.Sleep(time.Millisecond * 50)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&invalidations))
	assert.Equal(t, POLLER_STOPPED, poller.State())
}

func TestStatusPollerCancellationSkipsInvalidation(t *testing.T) {
	var invalidations int32

	check := func(ctx context.Context) (bool, error) {
		return true, nil
	}

	poller := NewStatusPoller(check,
		WithInterval(time.Millisecond*10),
		WithOnStop(func() {
			atomic.AddInt32(&invalidations, 1)
		}),
	)
	poller.Start(context.Background())
	time.Sleep(time.Millisecond * 30)
	poller.Stop()

	assert.Equal(t, POLLER_STOPPED, poller.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(&invalidations))
}

func TestStatusPollerRetriesOnError(t *testing.T) {
	var calls int32

	check := func(ctx context.Context) (bool, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return false, assert.AnError
		}
		return false, nil
	}

	poller := NewStatusPoller(check, WithInterval(time.Millisecond*10))
	poller.Start(context.Background())

	select {
	case <-poller.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStatusPollerStartIsSingleUse(t *testing.T) {
	var calls int32

	check := func(ctx context.Context) (bool, error) {
		atomic.AddInt32(&calls, 1)
		return false, nil
	}

	poller := NewStatusPoller(check, WithInterval(time.Millisecond*10))
	poller.Start(context.Background())
	<-poller.Done()

	// stopped pollers ignore restarts
	poller.Start(context.Background())
	time.Sleep(time.Millisecond * 30)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStatusPollerStopBeforeStart(t *testing.T) {
	poller := NewStatusPoller(func(ctx context.Context) (bool, error) {
		return true, nil
	})
	poller.Stop()
	assert.Equal(t, POLLER_STOPPED, poller.State())

	poller.Start(context.Background())
	assert.Equal(t, POLLER_STOPPED, poller.State())
}
