package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles bot commands per chat.
type Limiter interface {
	Allow(chatID int64) bool
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryLimiter keeps one token bucket per chat and forgets chats idle
// for longer than idleTTL.
type InMemoryLimiter struct {
	mu      sync.Mutex
	chats   map[int64]*entry
	r       rate.Limit
	b       int
	idleTTL time.Duration
	now     func() time.Time
}

// NewInMemoryLimiter allows requests per period with the given burst.
// Example: NewInMemoryLimiter(1, 2*time.Second, 5) -> one command every 2 seconds, bursts of 5.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	return &InMemoryLimiter{
		chats:   make(map[int64]*entry),
		r:       rate.Every(per / time.Duration(requests)),
		b:       burst,
		idleTTL: time.Hour,
		now:     time.Now,
	}
}

// NewCommandLimiter is the limiter the bot uses.
func NewCommandLimiter() Limiter {
	return NewInMemoryLimiter(1, 2*time.Second, 5)
}

func (l *InMemoryLimiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.chats[chatID]
	if !ok {
		l.evictIdle(now)
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.chats[chatID] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *InMemoryLimiter) evictIdle(now time.Time) {
	for id, e := range l.chats {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.chats, id)
		}
	}
}
