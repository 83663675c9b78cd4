package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSubmissionRateLimiter_Memory(t *testing.T) {
	l := NewSubmissionRateLimiter(time.Minute, 2)
	if !l.Allow("s1") || !l.Allow("s1") {
		t.Fatalf("expected first two submissions allowed")
	}
	if l.Allow("s1") {
		t.Fatalf("expected third submission denied")
	}
	if !l.Allow("s2") {
		t.Fatalf("expected other session unaffected")
	}
}

func TestSubmissionRateLimiter_SweepsIdleKeys(t *testing.T) {
	l := NewSubmissionRateLimiter(time.Minute, 3).(*submissionRateLimiter)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("session:%d", i))
	}
	if len(l.hits) != 100 {
		t.Fatalf("expected 100 tracked keys, got %d", len(l.hits))
	}

	now = now.Add(2 * time.Minute)
	if !l.Allow("session:new") {
		t.Fatalf("expected new key allowed")
	}
	if len(l.hits) != 1 {
		t.Fatalf("expected idle keys dropped, got %d", len(l.hits))
	}
}

func TestSubmissionRateLimiter_WindowSlides(t *testing.T) {
	l := NewSubmissionRateLimiter(time.Minute, 1).(*submissionRateLimiter)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("ip:1") {
		t.Fatalf("expected first submission allowed")
	}
	now = now.Add(30 * time.Second)
	if l.Allow("ip:1") {
		t.Fatalf("expected denial inside the window")
	}
	now = now.Add(31 * time.Second)
	if !l.Allow("ip:1") {
		t.Fatalf("expected submission allowed once the window passed")
	}
}

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisSubmissionRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisSubmissionRateLimiter
		if !l.Allow("s1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("nil client returns nil limiter", func(t *testing.T) {
		if NewRedisSubmissionRateLimiter(nil, time.Minute, 3) != nil {
			t.Fatalf("expected nil limiter without client")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisSubmissionRateLimiter{
			client: &mockRedisEvaler{result: 1},
			window: time.Minute,
			max:    3,
			prefix: "loan:submit:rl:",
		}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisSubmissionRateLimiter{
			client: mock,
			window: 2 * time.Minute,
			max:    3,
			prefix: "loan:submit:rl:",
		}
		if !l.Allow(" abc-123 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "loan:submit:rl:abc-123" {
			t.Fatalf("unexpected key, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisSubmissionAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisSubmissionRateLimiter{
			client: &mockRedisEvaler{result: 4},
			window: time.Minute,
			max:    3,
			prefix: "loan:submit:rl:",
		}
		if l.Allow("s1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisSubmissionRateLimiter{
			client: &mockRedisEvaler{err: errors.New("redis down")},
			window: time.Minute,
			max:    3,
			prefix: "loan:submit:rl:",
		}
		if !l.Allow("s1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
