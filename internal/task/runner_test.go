package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerExecutesScheduledTasks(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	var ran atomic.Int32
	done := make(chan struct{})
	r.Schedule("first", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	r.Schedule("second", func(ctx context.Context) error {
		ran.Add(1)
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}
	assert.Equal(t, int32(2), ran.Load())

	cancel()
	r.Wait()
}

func TestRunnerSwallowsFailures(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	done := make(chan struct{})
	r.Schedule("failing", func(ctx context.Context) error {
		return errors.New("delivery failed")
	})
	r.Schedule("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	// the failing task must not prevent later tasks from running
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner stopped after a task failure")
	}

	cancel()
	r.Wait()
}

func TestRunnerRecoversPanics(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	done := make(chan struct{})
	r.Schedule("panicking", func(ctx context.Context) error {
		panic("boom")
	})
	r.Schedule("after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not survive a panicking task")
	}

	cancel()
	r.Wait()
}

func TestRunnerDrainsOnShutdown(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		r.Schedule("queued", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	// start and immediately cancel: queued work must still complete
	r.Start(ctx)
	cancel()
	r.Wait()

	assert.Equal(t, int32(5), ran.Load())
}

func TestScheduleNeverBlocks(t *testing.T) {
	r := NewRunner() // not started, queue fills up

	start := time.Now()
	for i := 0; i < DefaultQueueSize+10; i++ {
		r.Schedule("overflow", func(ctx context.Context) error { return nil })
	}
	require.Less(t, time.Since(start), time.Second)
}
