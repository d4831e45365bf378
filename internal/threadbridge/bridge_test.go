package threadbridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ableton-mcp/remote-bridge/internal/scheduler"
)

func TestRunOnMain_InlineWhenAlreadyOnMainThread(t *testing.T) {
	fake := scheduler.NewFakeScheduler()
	fake.SetOnMainThread(true)
	b := New(fake, time.Second, nil)

	v, err := b.RunOnMain(context.Background(), func() (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 0, fake.Accepted(), "inline execution must not go through the scheduler")
}

func TestRunOnMain_SchedulesAndWaits(t *testing.T) {
	fake := scheduler.NewFakeScheduler()
	b := New(fake, time.Second, nil)

	resultCh := make(chan any, 1)
	errCh := make(chan error, 1)
	go func() {
		v, err := b.RunOnMain(context.Background(), func() (any, error) {
			return "done", nil
		})
		resultCh <- v
		errCh <- err
	}()

	// Give the goroutine a moment to submit.
	assert.Eventually(t, func() bool { return fake.Accepted() == 1 }, time.Second, time.Millisecond)
	fake.Flush()

	assert.NoError(t, <-errCh)
	assert.Equal(t, "done", <-resultCh)
}

func TestRunOnMain_PropagatesHandlerError(t *testing.T) {
	fake := scheduler.NewFakeScheduler()
	b := New(fake, time.Second, nil)

	wantErr := errors.New("boom")
	errCh := make(chan error, 1)
	go func() {
		_, err := b.RunOnMain(context.Background(), func() (any, error) {
			return nil, wantErr
		})
		errCh <- err
	}()

	assert.Eventually(t, func() bool { return fake.Accepted() == 1 }, time.Second, time.Millisecond)
	fake.Flush()
	assert.ErrorIs(t, <-errCh, wantErr)
}

func TestRunOnMain_TimesOutWhenSchedulerNeverFires(t *testing.T) {
	fake := scheduler.NewFakeScheduler() // never flushed: simulates a stalled main thread
	b := New(fake, 50*time.Millisecond, nil)

	start := time.Now()
	_, err := b.RunOnMain(context.Background(), func() (any, error) {
		return nil, nil
	})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, time.Second, "should time out close to the configured budget, not hang")
}

func TestRunOnMain_RecoversPanic(t *testing.T) {
	fake := scheduler.NewFakeScheduler()
	b := New(fake, time.Second, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := b.RunOnMain(context.Background(), func() (any, error) {
			panic("handler exploded")
		})
		errCh <- err
	}()

	assert.Eventually(t, func() bool { return fake.Accepted() == 1 }, time.Second, time.Millisecond)
	fake.Flush()
	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler exploded")
}

func TestShutdown_WakesPendingCalls(t *testing.T) {
	fake := scheduler.NewFakeScheduler()
	b := New(fake, 10*time.Second, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := b.RunOnMain(context.Background(), func() (any, error) {
			return nil, nil
		})
		errCh <- err
	}()

	assert.Eventually(t, func() bool { return fake.Accepted() == 1 }, time.Second, time.Millisecond)
	b.Shutdown()

	assert.ErrorIs(t, <-errCh, ErrShuttingDown)
}

func TestRunOnMain_ContextCancellation(t *testing.T) {
	fake := scheduler.NewFakeScheduler()
	b := New(fake, 10*time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := b.RunOnMain(ctx, func() (any, error) {
			return nil, nil
		})
		errCh <- err
	}()

	assert.Eventually(t, func() bool { return fake.Accepted() == 1 }, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
}
