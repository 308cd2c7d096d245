// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

// Config holds failed-authentication throttling settings.
type Config struct {
	WindowSize    time.Duration // window in which failures are counted
	MaxAttempts   int           // failures allowed per window
	CleanupPeriod time.Duration // how often stale records are dropped
	BanDuration   time.Duration // how long an identifier stays banned
}

// DefaultAuthConfig returns the defaults used by the auth gate.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   20,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   15 * time.Minute,
	}
}

// attemptRecord tracks failures for an IP/identifier
type attemptRecord struct {
	Count     int
	FirstSeen time.Time
	BannedAt  *time.Time
}

// Info describes the throttling state of one identifier.
type Info struct {
	Banned     bool
	Remaining  int
	RetryAfter time.Duration
}

// MemoryRateLimiter counts failed authentications per identifier in memory.
// Successful requests never consume attempts.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewMemoryRateLimiter creates a limiter and starts its cleanup goroutine.
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	if config == nil {
		config = DefaultAuthConfig()
	}
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}

	if config.CleanupPeriod > 0 {
		go limiter.cleanupLoop()
	}

	return limiter
}

// Check reports whether identifier is currently banned. It records nothing.
func (rl *MemoryRateLimiter) Check(identifier string) Info {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[identifier]
	if !exists {
		return Info{Remaining: rl.config.MaxAttempts}
	}
	return rl.infoLocked(record, rl.now())
}

// RecordFailure counts one failed authentication and bans the identifier
// once the window holds more than MaxAttempts failures.
func (rl *MemoryRateLimiter) RecordFailure(identifier string) Info {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	record, exists := rl.attempts[identifier]
	if !exists || rl.expiredLocked(record, now) {
		record = &attemptRecord{FirstSeen: now}
		rl.attempts[identifier] = record
	}
	if record.BannedAt != nil {
		return rl.infoLocked(record, now)
	}

	record.Count++
	if record.Count > rl.config.MaxAttempts {
		banTime := now
		record.BannedAt = &banTime
	}
	return rl.infoLocked(record, now)
}

// RecordSuccess clears the failure history of identifier.
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, identifier)
}

func (rl *MemoryRateLimiter) infoLocked(record *attemptRecord, now time.Time) Info {
	if record.BannedAt != nil {
		if left := rl.config.BanDuration - now.Sub(*record.BannedAt); left > 0 {
			return Info{Banned: true, RetryAfter: left}
		}
		return Info{Remaining: rl.config.MaxAttempts}
	}
	if now.Sub(record.FirstSeen) > rl.config.WindowSize {
		return Info{Remaining: rl.config.MaxAttempts}
	}
	remaining := rl.config.MaxAttempts - record.Count
	if remaining < 0 {
		remaining = 0
	}
	return Info{Remaining: remaining}
}

// expiredLocked reports whether record no longer influences decisions.
func (rl *MemoryRateLimiter) expiredLocked(record *attemptRecord, now time.Time) bool {
	if record.BannedAt != nil {
		return now.Sub(*record.BannedAt) >= rl.config.BanDuration
	}
	return now.Sub(record.FirstSeen) > rl.config.WindowSize
}

// cleanupLoop periodically removes old records
func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for identifier, record := range rl.attempts {
		if rl.expiredLocked(record, now) {
			delete(rl.attempts, identifier)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *MemoryRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}
