package processor

import (
	"context"
	"sync"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/arthur-debert/glyphs/pkg/logging"
	"github.com/rs/zerolog"
)

// Loop runs tasks one at a time, in the order they were posted. The
// queue is unbounded so a running task can post follow-up work.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	pending map[string]bool
	closed  bool
	wake    chan struct{}
	logger  zerolog.Logger
}

// NewLoop creates an idle loop; call Run to start it
func NewLoop() *Loop {
	return &Loop{
		pending: make(map[string]bool),
		wake:    make(chan struct{}, 1),
		logger:  logging.GetLogger("processor.loop"),
	}
}

// Post queues task. It fails once the loop is closed.
func (l *Loop) Post(task func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errors.New(errors.ErrLoopClosed, "loop is closed")
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	l.signal()
	return nil
}

// PostOnce queues task under key unless a task with the same key is
// queued and has not started yet. It reports whether task was queued.
// The key is released when the task starts, so work requested while it
// runs is queued again.
func (l *Loop) PostOnce(key string, task func()) (bool, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false, errors.New(errors.ErrLoopClosed, "loop is closed")
	}
	if l.pending[key] {
		l.mu.Unlock()
		return false, nil
	}
	l.pending[key] = true
	l.queue = append(l.queue, func() {
		l.mu.Lock()
		delete(l.pending, key)
		l.mu.Unlock()
		task()
	})
	l.mu.Unlock()

	l.signal()
	return true, nil
}

// Do posts task and waits for it to finish. Calling Do from a task
// deadlocks.
func (l *Loop) Do(ctx context.Context, task func() error) error {
	result := make(chan error, 1)
	err := l.Post(func() {
		var err error = errors.New(errors.ErrInternal, "task panicked")
		defer func() { result <- err }()
		err = task()
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until ctx is done or the loop is closed and empty
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		tasks := l.queue
		l.queue = nil
		closed := l.closed
		l.mu.Unlock()

		for _, task := range tasks {
			l.run(task)
		}
		if len(tasks) > 0 {
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting tasks; Run returns after the queue drains
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("Task panicked")
		}
	}()
	task()
}
