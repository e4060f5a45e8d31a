package db

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// blockExecutor queues a unit that holds the executor until release is closed.
func blockExecutor(t *testing.T, e *executor) (release chan struct{}, done chan error) {
	t.Helper()
	started := make(chan struct{})
	release = make(chan struct{})
	done = make(chan error, 1)
	go func() {
		done <- e.submit(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	return release, done
}

func TestExecutor_RunsUnitsInSubmissionOrder(t *testing.T) {
	e := newExecutor(testLogger(), 16)
	defer e.close()

	release, blocked := blockExecutor(t, e)

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.submit(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
		// wait until unit i is queued before submitting the next one
		require.Eventually(t, func() bool { return len(e.queue) == i+1 }, time.Second, time.Millisecond)
	}

	close(release)
	require.NoError(t, <-blocked)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestExecutor_CanceledCallerStillCompletesUnit(t *testing.T) {
	e := newExecutor(testLogger(), 4)
	defer e.close()

	release, blocked := blockExecutor(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	var unitCanceled atomic.Bool
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.submit(ctx, func(ctx context.Context) error {
			unitCanceled.Store(ctx.Err() != nil)
			ran.Store(true)
			return nil
		})
	}()
	require.Eventually(t, func() bool { return len(e.queue) == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.False(t, ran.Load())

	close(release)
	require.NoError(t, <-blocked)
	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
	assert.False(t, unitCanceled.Load())
}

func TestExecutor_CanceledBeforeSubmit(t *testing.T) {
	e := newExecutor(testLogger(), 1)
	defer e.close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := e.submit(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestExecutor_PropagatesErrorsAndRecoversPanics(t *testing.T) {
	e := newExecutor(testLogger(), 1)
	defer e.close()

	boom := errors.New("boom")
	err := e.submit(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = e.submit(context.Background(), func(ctx context.Context) error { panic("bad unit") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad unit")

	// still serving after the panic
	assert.NoError(t, e.submit(context.Background(), func(ctx context.Context) error { return nil }))
}

func TestExecutor_CloseDrainsAndRejects(t *testing.T) {
	e := newExecutor(testLogger(), 4)

	release, blocked := blockExecutor(t, e)

	var ran atomic.Bool
	queued := make(chan error, 1)
	go func() {
		queued <- e.submit(context.Background(), func(ctx context.Context) error {
			ran.Store(true)
			return nil
		})
	}()
	require.Eventually(t, func() bool { return len(e.queue) == 1 }, time.Second, time.Millisecond)

	closed := make(chan struct{})
	go func() {
		e.close()
		close(closed)
	}()
	close(release)
	<-closed

	require.NoError(t, <-blocked)
	require.NoError(t, <-queued)
	assert.True(t, ran.Load())

	err := e.submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)

	// closing twice is a no-op
	e.close()
}
