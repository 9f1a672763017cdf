package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsImmediately(t *testing.T) {
	var runs int32
	done := make(chan struct{}, 1)

	s := New(30*time.Minute, time.Second, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run at startup")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestSchedulerJobContextHasTimeout(t *testing.T) {
	deadlines := make(chan bool, 1)

	s := New(time.Minute, 50*time.Millisecond, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlines <- ok
		return errors.New("upstream unavailable")
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case ok := <-deadlines:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestSchedulerSkipsCancelledContext(t *testing.T) {
	var runs int32

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(time.Minute, 0, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	s.run(ctx)

	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}
