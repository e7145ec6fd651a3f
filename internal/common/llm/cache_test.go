package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"credit-risk-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Provider() string { return "stub" }

func (s *stubCompleter) Complete(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCachedCompleter_MissThenHit(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	next := &stubCompleter{reply: "Score: 10\nReason: fine"}
	cc := NewCachedCompleter(next, rdb, time.Hour, logger.NewTestLogger(t))

	req := Request{Model: "gpt-4o", System: "sys", User: "essay"}

	first, err := cc.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Score: 10\nReason: fine", first)
	assert.Equal(t, 1, next.calls)

	key := CacheKey("stub", req)
	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
	assert.Equal(t, time.Hour, mr.TTL(key))

	second, err := cc.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls, "second call served from cache")
}

func TestCachedCompleter_DifferentRequestsDoNotCollide(t *testing.T) {
	_, rdb := newMiniRedis(t)
	next := &stubCompleter{reply: "Score: 1\nReason: a"}
	cc := NewCachedCompleter(next, rdb, time.Minute, logger.NewTestLogger(t))

	_, err := cc.Complete(context.Background(), Request{Model: "m", User: "essay one"})
	require.NoError(t, err)
	_, err = cc.Complete(context.Background(), Request{Model: "m", User: "essay two"})
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachedCompleter_UpstreamErrorNotCached(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	upstreamErr := errors.New("upstream down")
	next := &stubCompleter{err: upstreamErr}
	cc := NewCachedCompleter(next, rdb, time.Minute, logger.NewTestLogger(t))

	req := Request{Model: "m", User: "u"}
	_, err := cc.Complete(context.Background(), req)

	require.ErrorIs(t, err, upstreamErr)
	assert.False(t, mr.Exists(CacheKey("stub", req)))
}

func TestCachedCompleter_RedisReadErrorBypassesCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	next := &stubCompleter{reply: "Score: 20\nReason: ok"}
	cc := NewCachedCompleter(next, rdb, time.Minute, logger.NewTestLogger(t))

	req := Request{Model: "m", User: "u"}
	key := CacheKey("stub", req)

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.ExpectSet(key, "Score: 20\nReason: ok", time.Minute).SetErr(errors.New("connection refused"))

	text, err := cc.Complete(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Score: 20\nReason: ok", text)
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKey_Stable(t *testing.T) {
	req := Request{Model: "m", Temperature: 0, System: "s", User: "u"}

	assert.Equal(t, CacheKey("openai", req), CacheKey("openai", req))
	assert.NotEqual(t, CacheKey("openai", req), CacheKey("gemini", req))
	assert.Contains(t, CacheKey("openai", req), "risk:llm:")
}
