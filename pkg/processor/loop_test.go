package processor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/glyphs/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsInOrder(t *testing.T) {
	loop := NewLoop()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, loop.Post(func() { got = append(got, i) }))
	}
	loop.Close()

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_TaskCanPost(t *testing.T) {
	loop := NewLoop()
	var got []string
	require.NoError(t, loop.Post(func() {
		got = append(got, "outer")
		_ = loop.Post(func() { got = append(got, "inner") })
		loop.Close()
	}))

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestLoop_PostAfterClose(t *testing.T) {
	loop := NewLoop()
	loop.Close()
	err := loop.Post(func() {})
	assert.True(t, errors.IsErrorCode(err, errors.ErrLoopClosed))
}

func TestLoop_PostOnce(t *testing.T) {
	loop := NewLoop()
	runs := 0

	for i := 0; i < 3; i++ {
		queued, err := loop.PostOnce("reload", func() { runs++ })
		require.NoError(t, err)
		assert.Equal(t, i == 0, queued)
	}

	require.NoError(t, loop.Post(func() {
		// the first reload has run, so the key is free again
		queued, err := loop.PostOnce("reload", func() { runs++ })
		assert.NoError(t, err)
		assert.True(t, queued)
		loop.Close()
	}))

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 2, runs)

	_, err := loop.PostOnce("reload", func() {})
	assert.True(t, errors.IsErrorCode(err, errors.ErrLoopClosed))
}

func TestLoop_Do(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = loop.Run(ctx)
	}()

	err := loop.Do(ctx, func() error { return errors.New(errors.ErrInternal, "boom") })
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))

	err = loop.Do(ctx, func() error { panic("bad task") })
	assert.Error(t, err, "a panicking task still reports back")

	assert.NoError(t, loop.Do(ctx, func() error { return nil }))

	loop.Close()
	wg.Wait()
}

func TestLoop_ContextCancel(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
