package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupLock(t *testing.T) (*miniredis.Miniredis, *ProgramLock) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewProgramLock(client, "planner:lock:", 2*time.Minute, zap.NewNop())
}

func TestAcquireRelease(t *testing.T) {
	mr, lock := setupLock(t)
	ctx := context.Background()

	token, err := lock.Acquire(ctx, "default")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, mr.Exists("planner:lock:default"))

	require.NoError(t, lock.Release(ctx, "default", token))
	assert.False(t, mr.Exists("planner:lock:default"))
}

func TestAcquire_Held(t *testing.T) {
	_, lock := setupLock(t)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, "default")
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, "default")
	assert.ErrorIs(t, err, ErrLockHeld)
}

func TestAcquire_MissingKey(t *testing.T) {
	_, lock := setupLock(t)

	_, err := lock.Acquire(context.Background(), "")
	assert.ErrorContains(t, err, "program key is required")
}

func TestAcquire_IndependentPrograms(t *testing.T) {
	_, lock := setupLock(t)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, "hall-a")
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, "hall-b")
	assert.NoError(t, err)
}

func TestRelease_WrongToken(t *testing.T) {
	mr, lock := setupLock(t)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, "default")
	require.NoError(t, err)

	// A stale token must not free the current holder's lock.
	require.NoError(t, lock.Release(ctx, "default", "stale-token"))
	assert.True(t, mr.Exists("planner:lock:default"))
}

func TestRelease_Expired(t *testing.T) {
	mr, lock := setupLock(t)
	ctx := context.Background()

	token, err := lock.Acquire(ctx, "default")
	require.NoError(t, err)

	mr.FastForward(3 * time.Minute)
	assert.False(t, mr.Exists("planner:lock:default"))

	assert.NoError(t, lock.Release(ctx, "default", token))
}

func TestAcquire_AfterExpiry(t *testing.T) {
	mr, lock := setupLock(t)
	ctx := context.Background()

	_, err := lock.Acquire(ctx, "default")
	require.NoError(t, err)

	mr.FastForward(3 * time.Minute)

	_, err = lock.Acquire(ctx, "default")
	assert.NoError(t, err)
}
