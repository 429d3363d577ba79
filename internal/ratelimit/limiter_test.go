package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_WithinBurst(t *testing.T) {
	l := New(1, 3)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "burst exhausted")
}

func TestAllow_Refills(t *testing.T) {
	// 100 RPS refills a token every 10ms.
	l := New(100, 1)
	require.True(t, l.Allow())
	require.False(t, l.Allow())

	time.Sleep(25 * time.Millisecond)
	assert.True(t, l.Allow())
}

func TestWait_ContextCancelled(t *testing.T) {
	// 1 RPS limiter, token already consumed; cancelling must unblock Wait.
	l := New(1, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
