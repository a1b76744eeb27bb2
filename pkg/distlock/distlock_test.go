package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	setNXResult bool

	setNXKey   string
	setNXValue interface{}
	setNXTTL   time.Duration
	evalKeys   []string
	evalArgs   []interface{}
	evalCalls  int
}

func (f *fakeClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.setNXKey = key
	f.setNXValue = value
	f.setNXTTL = expiration
	return redis.NewBoolResult(f.setNXResult, nil)
}

func (f *fakeClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.evalCalls++
	f.evalKeys = keys
	f.evalArgs = args
	return redis.NewCmdResult(int64(1), nil)
}

func TestTryAcquire_SetsTokenWithTTL(t *testing.T) {
	client := &fakeClient{setNXResult: true}
	lock := New(client, "reminders:lock", 30*time.Second)

	ok, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "reminders:lock", client.setNXKey)
	assert.Equal(t, 30*time.Second, client.setNXTTL)
	assert.NotEmpty(t, client.setNXValue)
}

func TestRelease_DeletesOnlyOwnToken(t *testing.T) {
	client := &fakeClient{setNXResult: true}
	lock := New(client, "reminders:lock", 30*time.Second)

	ok, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lock.Release(context.Background()))

	// Удаление сверяет токен этого захвата, а не делает слепой DEL
	require.Equal(t, 1, client.evalCalls)
	assert.Equal(t, []string{"reminders:lock"}, client.evalKeys)
	require.Len(t, client.evalArgs, 1)
	assert.Equal(t, client.setNXValue, client.evalArgs[0])
}

func TestRelease_WithoutAcquireIsNoop(t *testing.T) {
	client := &fakeClient{setNXResult: false}
	lock := New(client, "reminders:lock", 30*time.Second)

	ok, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.False(t, ok)

	// Неудавшийся захват не оставляет токена - снимать нечего
	require.NoError(t, lock.Release(context.Background()))
	assert.Equal(t, 0, client.evalCalls)
}

func TestTryAcquire_FreshTokenPerAcquire(t *testing.T) {
	client := &fakeClient{setNXResult: true}
	lock := New(client, "reminders:lock", 30*time.Second)

	_, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	first := client.setNXValue

	require.NoError(t, lock.Release(context.Background()))

	_, err = lock.TryAcquire(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, client.setNXValue)
}
