package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrClosed is returned for work submitted after Close.
var ErrClosed = errors.New("db: closed")

type unit struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// executor runs submitted units one at a time, in FIFO order, on a single
// goroutine.
type executor struct {
	queue  chan unit
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func newExecutor(logger *slog.Logger, size int) *executor {
	e := &executor{queue: make(chan unit, size), logger: logger}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *executor) run() {
	defer e.wg.Done()
	for u := range e.queue {
		u.done <- e.call(u)
	}
	e.logger.Debug("executor stopped")
}

func (e *executor) call(u unit) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("unit of work panicked", slog.Any("panic", r))
			err = fmt.Errorf("unit of work panicked: %v", r)
		}
	}()
	return u.fn(u.ctx)
}

func (e *executor) submit(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u := unit{ctx: context.WithoutCancel(ctx), fn: fn, done: make(chan error, 1)}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrClosed
	}
	select {
	case e.queue <- u:
	case <-ctx.Done():
		e.mu.RUnlock()
		return ctx.Err()
	}
	e.mu.RUnlock()

	select {
	case err := <-u.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *executor) close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()
	e.wg.Wait()
}
