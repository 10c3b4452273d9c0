package ratelimit

import (
	"testing"
	"time"
)

func TestBurstThenThrottle(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewInMemoryLimiter(1, 2*time.Second, 2)
	l.now = func() time.Time { return now }

	if !l.Allow(1) || !l.Allow(1) {
		t.Fatal("burst should be allowed")
	}
	if l.Allow(1) {
		t.Fatal("third command should be throttled")
	}
	if !l.Allow(2) {
		t.Fatal("other chats have their own bucket")
	}

	now = now.Add(2 * time.Second)
	if !l.Allow(1) {
		t.Fatal("token should refill")
	}
}

func TestIdleChatsAreForgotten(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewInMemoryLimiter(1, time.Second, 1)
	l.now = func() time.Time { return now }

	l.Allow(1)
	now = now.Add(2 * time.Hour)
	l.Allow(2)

	if _, ok := l.chats[1]; ok {
		t.Fatal("idle chat was not evicted")
	}
}
