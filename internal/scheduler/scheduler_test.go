package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerScheduler_RunsInSubmissionOrder(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond, nil)
	stop := make(chan struct{})
	go s.Run(stop)
	defer close(stop)

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, s.Schedule(func() {
			order = append(order, i)
			if i == 4 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduled closures")
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestTickerScheduler_IsOnMainThread(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond, nil)
	stop := make(chan struct{})
	go s.Run(stop)
	defer close(stop)

	assert.False(t, s.IsOnMainThread())

	var observed atomic.Bool
	done := make(chan struct{})
	require.NoError(t, s.Schedule(func() {
		observed.Store(s.IsOnMainThread())
		close(done)
	}))

	<-done
	assert.True(t, observed.Load())
	// The test goroutine is not the one running Run, so it is never "on"
	// the main thread, before or after the closure ran.
	assert.Eventually(t, func() bool { return !s.IsOnMainThread() }, time.Second, time.Millisecond)
}

func TestTickerScheduler_ScheduleFailsAfterStop(t *testing.T) {
	s := NewTickerScheduler(time.Millisecond, nil)
	s.Stop()
	err := s.Schedule(func() {})
	assert.ErrorIs(t, err, ErrSchedulingFailed)
}

func TestFakeScheduler_NeverRunsUntilFlushed(t *testing.T) {
	f := NewFakeScheduler()
	ran := false
	require.NoError(t, f.Schedule(func() { ran = true }))
	assert.False(t, ran)
	assert.Equal(t, 1, f.Accepted())

	f.Flush()
	assert.True(t, ran)
}

func TestFakeScheduler_FailNext(t *testing.T) {
	f := NewFakeScheduler()
	f.FailNext()
	err := f.Schedule(func() {})
	assert.ErrorIs(t, err, ErrSchedulingFailed)
}
