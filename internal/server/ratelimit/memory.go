package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryWindow struct {
	index int64
	end   time.Time
	count int64
}

// MemoryLimiter keeps windows in process memory. It is safe for concurrent
// use. Windows that have ended are pruned at most once per window length.
type MemoryLimiter struct {
	mu        sync.Mutex
	cfg       Config
	windows   map[string]*memoryWindow
	lastPrune time.Time
	now       func() time.Time
}

// NewMemoryLimiter creates an in-memory fixed-window limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg.withDefaults(),
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

// Allow counts one request for key in the current window.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	idx, end := windowIndex(now, l.cfg.Window)
	w, ok := l.windows[key]
	if !ok || w.index != idx {
		w = &memoryWindow{index: idx, end: end}
		l.windows[key] = w
	}
	w.count++

	return decide(w.count, l.cfg.Permits, now, w.end), nil
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *MemoryLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < l.cfg.Window {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.end) {
			delete(l.windows, k)
		}
	}
	l.lastPrune = now
}
