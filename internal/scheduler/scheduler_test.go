package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJob(t *testing.T) {
	s := New()
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.RegisterJob("refresh", "30 18 * * 1-5", noop))
	assert.Error(t, s.RegisterJob("refresh", "0 * * * *", noop), "duplicate names are rejected")
	assert.Error(t, s.RegisterJob("broken", "not a cron spec", noop))
}

func TestNext(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterJob("refresh", "30 18 * * 1-5", func(context.Context) error { return nil }))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop(context.Background()) }()

	next, ok := s.Next("refresh")
	require.True(t, ok)
	assert.Equal(t, 18, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())

	_, ok = s.Next("missing")
	assert.False(t, ok)
}

func TestWrapPassesCancellableContext(t *testing.T) {
	s := New()
	s.timeout = 50 * time.Millisecond

	var got error
	run := s.wrap("slow", func(ctx context.Context) error {
		<-ctx.Done()
		got = ctx.Err()
		return errors.New("gave up")
	})
	run()
	assert.ErrorIs(t, got, context.DeadlineExceeded)
}

func TestStartStop(t *testing.T) {
	s := New()
	require.NoError(t, s.Start())
	assert.Error(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stopping twice is a no-op")
}
